package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/handler/api"
	"github.com/go-chi/httprate"
)

// RateLimit caps requests per client IP over a sliding window. A non-positive
// limit disables it.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", retryAfter)
			api.WriteError(r.Context(), w, http.StatusTooManyRequests, "too many upload requests, try again later", nil)
		}),
	)
}
