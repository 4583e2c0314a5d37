package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFallbackHandlers(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{"method not allowed", MethodNotAllowedHandler(), http.StatusMethodNotAllowed, "not allowed"},
		{"not found", NotFoundHandler(), http.StatusNotFound, "does not exist"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.handler(rec, httptest.NewRequest(http.MethodPut, "/nope", nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), `"error":`) || !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}
