package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/metrics"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	"github.com/fhuszti/testimonials-video-go/internal/validation"
)

type CreateTestimonialRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Position        string `json:"position" validate:"required,max=120"`
	TestimonialType string `json:"testimonialType" validate:"required,oneof=video text"`
	PlaybackID      string `json:"playbackId" validate:"omitempty,playbackid"`
	Rating          int    `json:"rating" validate:"required,min=1,max=5"`
	CampaignID      string `json:"campaignId" validate:"omitempty,max=64"`
	Message         string `json:"message" validate:"omitempty,max=2000"`
}

func CreateTestimonialHandler(svc port.TestimonialCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req CreateTestimonialRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

		out, err := svc.CreateTestimonial(ctx, port.CreateTestimonialInput{
			Name:       req.Name,
			Email:      req.Email,
			Position:   req.Position,
			Type:       model.TestimonialType(req.TestimonialType),
			PlaybackID: req.PlaybackID,
			Rating:     req.Rating,
			CampaignID: req.CampaignID,
			Message:    req.Message,
		})
		if err != nil {
			switch {
			case errors.Is(err, testimonial.ErrPlaybackRequired):
				WriteError(ctx, w, http.StatusBadRequest, err.Error(), nil)
			case errors.Is(err, testimonial.ErrPlaybackNotFound),
				errors.Is(err, testimonial.ErrPlaybackNotReady),
				errors.Is(err, testimonial.ErrCampaignMismatch):
				WriteError(ctx, w, http.StatusUnprocessableEntity, err.Error(), nil)
			default:
				WriteError(ctx, w, http.StatusInternalServerError, "Could not create testimonial", err)
			}
			return
		}
		metrics.IncTestimonialCreated(string(out.Type))

		RespondJSON(ctx, w, http.StatusCreated, out)
		logger.Infof(ctx, "✅  Successfully created %s testimonial #%s", out.Type, out.ID)
	}
}
