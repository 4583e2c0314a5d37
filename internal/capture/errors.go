package capture

import (
	"context"
	"errors"
)

var (
	ErrDeviceUnavailable = errors.New("capture: no camera or microphone available")
	ErrPermissionDenied  = errors.New("capture: camera or microphone permission denied")
	ErrAlreadyAcquiring  = errors.New("capture: device acquisition already in progress")
	ErrNoActiveStream    = errors.New("capture: no live media stream")
	ErrRecordingFailed   = errors.New("capture: recording failed")

	ErrTicketRequestFailed = errors.New("upload: ticket request failed")
	ErrUploadFailed        = errors.New("upload: transfer failed")
	ErrTicketConsumed      = errors.New("upload: ticket already used")

	ErrProcessingTimeout = errors.New("asset: processing timed out")
	ErrAssetTransport    = errors.New("asset: readiness request failed")

	ErrFinalizeFailed = errors.New("testimonial: record creation failed")

	ErrInvalidDraft = errors.New("pipeline: invalid submission draft")
	ErrInvalidPhase = errors.New("pipeline: operation not allowed in current phase")
	ErrCanceled     = errors.New("pipeline: canceled")
)

// UserMessage returns the single message shown for a pipeline failure.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "Camera or microphone access was denied. Allow access in your device settings and try again."
	case errors.Is(err, ErrDeviceUnavailable):
		return "No camera or microphone was found. Connect a device and try again."
	case errors.Is(err, ErrAlreadyAcquiring):
		return "Your camera is still starting, please wait a moment."
	case errors.Is(err, ErrRecordingFailed), errors.Is(err, ErrNoActiveStream):
		return "Recording stopped unexpectedly, please record again."
	case errors.Is(err, ErrTicketRequestFailed), errors.Is(err, ErrUploadFailed), errors.Is(err, ErrTicketConsumed):
		return "Failed to upload your video, please try again."
	case errors.Is(err, ErrProcessingTimeout):
		return "Processing is taking longer than expected, please try again later."
	case errors.Is(err, ErrAssetTransport):
		return "We could not check on your video, please try again."
	case errors.Is(err, ErrFinalizeFailed):
		return "Your video was uploaded but we could not save your testimonial, please submit again."
	case errors.Is(err, ErrInvalidDraft):
		return "Please fill in your rating, name, email and position."
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled):
		return "Submission canceled."
	default:
		return "Something went wrong, please try again."
	}
}
