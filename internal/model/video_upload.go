package model

import (
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type UploadStatus string

const (
	UploadStatusPending    UploadStatus = "pending"
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusReady      UploadStatus = "ready"
	UploadStatusFailed     UploadStatus = "failed"
)

// VideoUpload tracks one recording from ticket issue to playback readiness.
// PlaybackID is set once, when the upload becomes ready.
type VideoUpload struct {
	ID             uuid.UUID     `json:"id"`
	ObjectKey      string        `json:"object_key"`
	Status         UploadStatus  `json:"status"`
	PlaybackID     *string       `json:"playback_id"`
	CampaignID     *string       `json:"campaign_id"`
	SizeBytes      *int64        `json:"size_bytes"`
	ContentType    *string       `json:"content_type"`
	FailureMessage *string       `json:"failure_message"`
	Metadata       VideoMetadata `json:"metadata"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
