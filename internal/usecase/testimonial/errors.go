package testimonial

import "errors"

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")

	ErrUploadNotFound = errors.New("upload: not found")
	ErrUploadFailed   = errors.New("upload: processing failed")

	ErrPlaybackRequired = errors.New("testimonial: video testimonial needs a playback id")
	ErrPlaybackNotFound = errors.New("testimonial: unknown playback id")
	ErrPlaybackNotReady = errors.New("testimonial: playback id is not ready")
	ErrCampaignMismatch = errors.New("testimonial: playback id belongs to another campaign")
)
