package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeTranscodeUpload = "upload:transcode"

const (
	transcodeMaxRetry = 3
	transcodeTimeout  = 15 * time.Minute
	// one queued transcode per upload; the backlog reprocessor re-enqueues after this
	transcodeUniqueFor = 30 * time.Minute
)

type TranscodeUploadPayload struct {
	UploadID string `json:"upload_id"`
}

// NewTranscodeUploadTask creates an Asynq task for transcoding an upload by ID.
func NewTranscodeUploadTask(uploadID string) (*asynq.Task, error) {
	data, err := json.Marshal(TranscodeUploadPayload{UploadID: uploadID})
	if err != nil {
		return nil, fmt.Errorf("could not marshal transcode-upload payload: %w", err)
	}
	return asynq.NewTask(
		TypeTranscodeUpload,
		data,
		asynq.MaxRetry(transcodeMaxRetry),
		asynq.Timeout(transcodeTimeout),
		asynq.Unique(transcodeUniqueFor),
	), nil
}

// ParseTranscodeUploadPayload parses the task payload to TranscodeUploadPayload.
func ParseTranscodeUploadPayload(t *asynq.Task) (TranscodeUploadPayload, error) {
	var p TranscodeUploadPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return TranscodeUploadPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
