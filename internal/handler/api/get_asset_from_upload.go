package api

import (
	"errors"
	"net/http"

	"github.com/fhuszti/testimonials-video-go/internal/api_context"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/metrics"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
)

// GetAssetFromUploadHandler answers 202 while the upload is being processed
// and 200 with the playback id once it is ready. Only ready answers carry an
// ETag.
func GetAssetFromUploadHandler(renderer port.HTTPRenderer, svc port.AssetResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, ok := api_context.UploadIDFromContext(ctx)
		if !ok {
			WriteError(ctx, w, http.StatusBadRequest, "upload ID is required", nil)
			return
		}

		raw, etag, err := renderer.RenderAsset(ctx, svc, id)
		if err != nil {
			switch {
			case errors.Is(err, testimonial.ErrUploadNotFound):
				metrics.IncAssetPoll("not_found")
				WriteError(ctx, w, http.StatusNotFound, "Upload not found", nil)
			case errors.Is(err, testimonial.ErrUploadFailed):
				metrics.IncAssetPoll("failed")
				WriteError(ctx, w, http.StatusUnprocessableEntity, "Video processing failed", err)
			default:
				metrics.IncAssetPoll("error")
				WriteError(ctx, w, http.StatusInternalServerError, "Could not get asset status", err)
			}
			return
		}

		if etag == "" {
			metrics.IncAssetPoll(testimonial.AssetStatusProcessing)
			w.Header().Set("Cache-Control", "no-store")
			RespondRawJSON(ctx, w, http.StatusAccepted, raw)
			logger.Debugf(ctx, "upload #%s is still processing", id)
			return
		}

		metrics.IncAssetPoll(testimonial.AssetStatusReady)
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=300")
		if match := r.Header.Get("If-None-Match"); match == etag {
			w.WriteHeader(http.StatusNotModified)
			logger.Infof(ctx, "✅  Returning cached asset for upload #%s", id)
			return
		}

		RespondRawJSON(ctx, w, http.StatusOK, raw)
		logger.Infof(ctx, "✅  Upload #%s is ready for playback", id)
	}
}
