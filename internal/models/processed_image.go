package models

import "time"

type ProcessedImage struct {
	ID          string      `json:"id"`
	OriginalURL string      `json:"original_url"`
	ProcessedAt time.Time   `json:"processed_at"`
	Size        ImageSize   `json:"size"`
	Format      ImageFormat `json:"format"`
	URL         string      `json:"url"`
	FileSize    int64       `json:"file_size"`
}

type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
