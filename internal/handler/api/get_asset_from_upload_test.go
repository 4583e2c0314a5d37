package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/testimonials-video-go/internal/api_context"
	"github.com/fhuszti/testimonials-video-go/internal/mock"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
)

func TestGetAssetFromUploadHandler(t *testing.T) {
	validID := mustParse(t, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	readyRaw := []byte(`{"status":"ready","playbackId":"0123456789abcdef"}`)
	readyETag := `"deadbeef"`

	tests := []struct {
		name             string
		noID             bool
		raw              []byte
		etag             string
		err              error
		wantStatus       int
		wantCacheControl string
		wantETag         string
		wantBody         string
	}{
		{
			name:             "ready",
			raw:              readyRaw,
			etag:             readyETag,
			wantStatus:       http.StatusOK,
			wantCacheControl: "public, max-age=300",
			wantETag:         readyETag,
			wantBody:         `"playbackId":"0123456789abcdef"`,
		},
		{
			name:             "processing",
			raw:              []byte(`{"status":"processing"}`),
			wantStatus:       http.StatusAccepted,
			wantCacheControl: "no-store",
			wantBody:         `"status":"processing"`,
		},
		{
			name:             "unknown upload",
			err:              fmt.Errorf("lookup: %w", testimonial.ErrUploadNotFound),
			wantStatus:       http.StatusNotFound,
			wantCacheControl: "no-store, max-age=0, must-revalidate",
			wantBody:         "Upload not found",
		},
		{
			name:       "failed upload",
			err:        fmt.Errorf("%w: file too small", testimonial.ErrUploadFailed),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "Video processing failed",
		},
		{
			name:       "internal error",
			err:        errors.New("redis down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Could not get asset status",
		},
		{
			name:       "missing ID",
			noID:       true,
			wantStatus: http.StatusBadRequest,
			wantBody:   "upload ID is required",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			renderer := &mock.MockHTTPRenderer{Raw: tc.raw, ETag: tc.etag, Err: tc.err}
			handlerFn := GetAssetFromUploadHandler(renderer, &mock.MockAssetResolver{})

			req := httptest.NewRequest(http.MethodGet, "/testimonials/get-asset-from-upload/"+validID.String(), nil)
			if !tc.noID {
				req = req.WithContext(context.WithValue(req.Context(), api_context.UploadIDKey, validID))
			}
			rec := httptest.NewRecorder()

			handlerFn(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q; want %q", ct, "application/json")
			}
			if tc.wantCacheControl != "" {
				if cc := rec.Header().Get("Cache-Control"); cc != tc.wantCacheControl {
					t.Errorf("Cache-Control = %q; want %q", cc, tc.wantCacheControl)
				}
			}
			if et := rec.Header().Get("ETag"); et != tc.wantETag {
				t.Errorf("ETag = %q; want %q", et, tc.wantETag)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Errorf("body = %q; want to contain %q", rec.Body.String(), tc.wantBody)
			}
			if renderer.Called == tc.noID {
				t.Errorf("renderer called = %v", renderer.Called)
			}
		})
	}
}

func TestGetAssetFromUploadHandler_IfNoneMatch(t *testing.T) {
	validID := mustParse(t, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	etag := `"0badf00d"`
	renderer := &mock.MockHTTPRenderer{Raw: []byte(`{"status":"ready","playbackId":"abcdef"}`), ETag: etag}

	handlerFn := GetAssetFromUploadHandler(renderer, &mock.MockAssetResolver{})
	req := httptest.NewRequest(http.MethodGet, "/testimonials/get-asset-from-upload/"+validID.String(), nil)
	req = req.WithContext(context.WithValue(req.Context(), api_context.UploadIDKey, validID))
	req.Header.Set("If-None-Match", etag)
	rec := httptest.NewRecorder()

	handlerFn(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusNotModified)
	}
	if et := rec.Header().Get("ETag"); et != etag {
		t.Errorf("ETag = %q; want %q", et, etag)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}
