package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/testimonials-video-go/internal/mock"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
)

func TestCreateTestimonialHandler(t *testing.T) {
	pb := "0123456789abcdef0123456789abcdef"
	created := &model.Testimonial{
		ID:         mustParse(t, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		Name:       "Ada",
		Email:      "ada@example.com",
		Position:   "CTO",
		Type:       model.TestimonialTypeVideo,
		PlaybackID: &pb,
		Rating:     5,
	}
	validBody := `{"name":"Ada","email":"ada@example.com","position":"CTO","testimonialType":"video","playbackId":"` + pb + `","rating":5,"campaignId":"camp-1"}`

	tests := []struct {
		name             string
		body             string
		svcErr           error
		wantStatus       int
		wantSvcCalled    bool
		wantBodyContains string
	}{
		{
			name:          "happy path",
			body:          validBody,
			wantStatus:    http.StatusCreated,
			wantSvcCalled: true,
		},
		{
			name:             "bad json",
			body:             `{"name":`,
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: "Invalid request",
		},
		{
			name:             "rating out of range",
			body:             strings.Replace(validBody, `"rating":5`, `"rating":6`, 1),
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: `"rating":"max"`,
		},
		{
			name:             "invalid email",
			body:             strings.Replace(validBody, "ada@example.com", "not-an-email", 1),
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: `"email":"email"`,
		},
		{
			name:             "malformed playback id",
			body:             strings.Replace(validBody, pb, "bad id!", 1),
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: `"playbackId":"playbackid"`,
		},
		{
			name:             "unknown type",
			body:             strings.Replace(validBody, `"video"`, `"audio"`, 1),
			wantStatus:       http.StatusBadRequest,
			wantBodyContains: `"testimonialType":"oneof"`,
		},
		{
			name:             "playback required",
			body:             validBody,
			svcErr:           testimonial.ErrPlaybackRequired,
			wantStatus:       http.StatusBadRequest,
			wantSvcCalled:    true,
			wantBodyContains: "needs a playback id",
		},
		{
			name:             "playback not ready",
			body:             validBody,
			svcErr:           fmt.Errorf("%w: status processing", testimonial.ErrPlaybackNotReady),
			wantStatus:       http.StatusUnprocessableEntity,
			wantSvcCalled:    true,
			wantBodyContains: "not ready",
		},
		{
			name:             "campaign mismatch",
			body:             validBody,
			svcErr:           testimonial.ErrCampaignMismatch,
			wantStatus:       http.StatusUnprocessableEntity,
			wantSvcCalled:    true,
			wantBodyContains: "another campaign",
		},
		{
			name:             "repository error",
			body:             validBody,
			svcErr:           errors.New("db down"),
			wantStatus:       http.StatusInternalServerError,
			wantSvcCalled:    true,
			wantBodyContains: "Could not create testimonial",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockTestimonialCreator{Out: created, Err: tc.svcErr}
			handlerFn := CreateTestimonialHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/testimonials/create", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			handlerFn(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body=%q)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if svc.Called != tc.wantSvcCalled {
				t.Fatalf("service called = %v; want %v", svc.Called, tc.wantSvcCalled)
			}
			if tc.wantBodyContains != "" && !strings.Contains(rec.Body.String(), tc.wantBodyContains) {
				t.Errorf("body = %q; want to contain %q", rec.Body.String(), tc.wantBodyContains)
			}
			if tc.wantStatus != http.StatusCreated {
				return
			}

			if svc.In.Type != model.TestimonialTypeVideo || svc.In.PlaybackID != pb || svc.In.CampaignID != "camp-1" || svc.In.Rating != 5 {
				t.Errorf("unexpected service input %+v", svc.In)
			}
			var out model.Testimonial
			if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if out.ID != created.ID || out.Type != model.TestimonialTypeVideo {
				t.Errorf("unexpected response %+v", out)
			}
		})
	}
}
