package testutil

import (
	"database/sql"
	"net/http/httptest"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/cache"
	"github.com/fhuszti/testimonials-video-go/internal/handler/api"
	cMiddleware "github.com/fhuszti/testimonials-video-go/internal/middleware"
	"github.com/fhuszti/testimonials-video-go/internal/renderer"
	"github.com/fhuszti/testimonials-video-go/internal/repository/mariadb"
	"github.com/fhuszti/testimonials-video-go/internal/task"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	tvuuid "github.com/fhuszti/testimonials-video-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

// NewAPIServer serves the three testimonial routes the way cmd/api mounts
// them, without auth, against the given database, buckets and Redis.
func NewAPIServer(dbConn *sql.DB, tb *TestBuckets, redisAddr string) *httptest.Server {
	uploadRepo := mariadb.NewUploadRepository(dbConn)
	testimonialRepo := mariadb.NewTestimonialRepository(dbConn)
	dispatcher := task.NewDispatcher(redisAddr, "")

	r := chi.NewRouter()
	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	ticketSvc := testimonial.NewTicketIssuer(uploadRepo, tb.Storage, tb.Staging, tvuuid.NewUUID)
	r.With(cMiddleware.RateLimit(100, time.Minute)).
		Post("/testimonials/create-video-upload", api.CreateVideoUploadHandler(ticketSvc, false))

	assetSvc := testimonial.NewAssetResolver(uploadRepo, tb.Storage, dispatcher, tb.Staging)
	rendererSvc := renderer.NewHTTPRenderer(cache.NewCache(redisAddr, ""))
	r.With(cMiddleware.WithUploadID()).
		Get("/testimonials/get-asset-from-upload/{uploadId}", api.GetAssetFromUploadHandler(rendererSvc, assetSvc))

	creatorSvc := testimonial.NewTestimonialCreator(testimonialRepo, uploadRepo, tvuuid.NewUUID)
	r.Post("/testimonials/create", api.CreateTestimonialHandler(creatorSvc))

	return httptest.NewServer(r)
}
