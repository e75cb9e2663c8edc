package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExportRequest asks the server to watermark files that already live on its
// filesystem and write the results into OutputDir.
type ExportRequest struct {
	Sources   []string        `json:"sources" binding:"required,min=1"`
	OutputDir string          `json:"output_dir" binding:"required"`
	Preset    string          `json:"preset,omitempty"`
	Spec      json.RawMessage `json:"spec,omitempty"`
	Export    ExportSettings  `json:"export"`
}

type BatchResult struct {
	Source   string `json:"source"`
	Output   string `json:"output,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	Error    string `json:"error,omitempty"`
}

type BatchSummary struct {
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Results     []BatchResult `json:"results"`
	ProcessedAt time.Time     `json:"processed_at"`
}

// Message reports the outcome as "succeeded/total".
func (s BatchSummary) Message() string {
	return fmt.Sprintf("Processed %d/%d images", s.Succeeded, s.Total)
}

type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
