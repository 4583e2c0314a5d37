package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fhuszti/testimonials-video-go/internal/api_context"
	"github.com/fhuszti/testimonials-video-go/internal/handler/api"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

func WithUploadID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "uploadId")
			if id == "" {
				api.WriteError(r.Context(), w, http.StatusBadRequest, "upload ID is required", nil)
				return
			}
			parsedID, err := uuid.Parse(id)
			if err != nil {
				api.WriteError(r.Context(), w, http.StatusBadRequest, fmt.Sprintf("upload ID %q is not a valid UUID", id), nil)
				return
			}

			ctx := context.WithValue(r.Context(), api_context.UploadIDKey, parsedID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
