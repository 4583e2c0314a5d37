package testimonial

import (
	"errors"
	"mime"
	"strings"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/fhuszti/testimonials-video-go/internal/validation"
)

const (
	MinFileSize = 1 << 10   // 1 KiB
	MaxFileSize = 200 << 20 // 200 MiB

	UploadURLExpiry = 15 * time.Minute
	AssetCacheTTL   = 24 * time.Hour
	StuckAfter      = time.Hour

	AssetStatusProcessing = "processing"
	AssetStatusReady      = "ready"
)

// IsContentTypeAllowed ignores codec parameters, so "video/webm;codecs=vp8" passes.
// Browsers send unquoted codec lists ("codecs=vp8,opus"), which mime rejects as
// a malformed parameter; the media type itself is still checked in that case.
func IsContentTypeAllowed(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil && !(errors.Is(err, mime.ErrInvalidMediaParameter) && mt != "") {
		return false
	}
	return validation.AllowedVideoTypes[strings.ToLower(mt)]
}

func StagingObjectKey(id uuid.UUID) string {
	return id.String() + ".webm"
}

func VideoObjectKey(playbackID string) string {
	return playbackID + "/video.mp4"
}

func PosterObjectKey(playbackID string) string {
	return playbackID + "/poster.webp"
}
