package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// VideoMetadata describes the playback rendition produced by the worker.
type VideoMetadata struct {
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	VideoKey       string `json:"video_key,omitempty"`
	VideoSizeBytes int64  `json:"video_size_bytes,omitempty"`
	PosterKey      string `json:"poster_key,omitempty"`
}

func (m VideoMetadata) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal VideoMetadata: %w", err)
	}
	return b, nil
}

func (m *VideoMetadata) Scan(src interface{}) error {
	if src == nil {
		*m = VideoMetadata{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("VideoMetadata.Scan: expected []byte, got %T", src)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal VideoMetadata: %w", err)
	}
	return nil
}
