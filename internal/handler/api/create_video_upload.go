package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fhuszti/testimonials-video-go/internal/api_context"
	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/metrics"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/validation"
)

type CreateVideoUploadRequest struct {
	CampaignID string `json:"campaignId" validate:"omitempty,max=64"`
}

// CreateVideoUploadHandler issues an upload ticket. The body is optional: an
// empty body asks for an anonymous ticket. When requireAuth is set, campaign
// tickets need an authenticated caller.
func CreateVideoUploadHandler(svc port.TicketIssuer, requireAuth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req CreateVideoUploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			WriteError(ctx, w, http.StatusBadRequest, "Invalid request", fmt.Errorf("invalid JSON: %w", err))
			return
		}

		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(ctx, w, http.StatusInternalServerError, "Validation error (could not encode details)", fmt.Errorf("encoding validation errors: %w", err))
				return
			}

			RespondRawJSON(ctx, w, http.StatusBadRequest, []byte(errsJSON))
			logger.Warnf(ctx, "❌  Validation failed: %s", errsJSON)
			return
		}

		var in port.IssueTicketInput
		if req.CampaignID != "" {
			if _, ok := api_context.AuthUserIDFromContext(ctx); requireAuth && !ok {
				WriteError(ctx, w, http.StatusUnauthorized, "Campaign uploads require authentication", nil)
				return
			}
			in.CampaignID = &req.CampaignID
		}

		out, err := svc.IssueTicket(ctx, in)
		if err != nil {
			WriteError(ctx, w, http.StatusInternalServerError, "Could not create video upload", err)
			return
		}
		metrics.IncTicketIssued(in.CampaignID != nil)

		RespondJSON(ctx, w, http.StatusCreated, out)
		logger.Infof(ctx, "✅  Successfully issued upload ticket #%s", out.ID)
	}
}
