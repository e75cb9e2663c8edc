package models

import (
	"encoding/json"
	"time"
)

// JobRequest is the body accepted by the asynchronous jobs endpoint.
type JobRequest struct {
	ImageURLs []string        `json:"image_urls" binding:"required,min=1,dive,url"`
	Preset    string          `json:"preset,omitempty"`
	Spec      json.RawMessage `json:"spec,omitempty"`
	Export    ExportSettings  `json:"export"`
}

type WatermarkJob struct {
	ID        string          `json:"id"`
	ImageURL  string          `json:"image_url"`
	Spec      WatermarkSpec   `json:"spec"`
	Export    ExportSettings  `json:"export"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Result    *ProcessedImage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
