package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "testimonials_upload_tickets_total",
		Help: "Upload tickets issued, by upload mode",
	}, []string{"mode"})

	assetPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "testimonials_asset_polls_total",
		Help: "Asset readiness answers, by status",
	}, []string{"status"})

	transcodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "testimonials_transcode_duration_seconds",
		Help:    "Time spent turning a staged recording into a playback rendition",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
	}, []string{"outcome"})

	testimonialsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "testimonials_created_total",
		Help: "Testimonial records created, by type",
	}, []string{"type"})
)

// IncTicketIssued records a ticket; mode ∈ {campaign,anonymous}.
func IncTicketIssued(campaign bool) {
	mode := "anonymous"
	if campaign {
		mode = "campaign"
	}
	ticketsIssuedTotal.WithLabelValues(mode).Inc()
}

// IncAssetPoll records one readiness answer. Unknown labels collapse to "error".
func IncAssetPoll(status string) {
	switch status {
	case "ready", "processing", "failed", "not_found":
	default:
		status = "error"
	}
	assetPollsTotal.WithLabelValues(status).Inc()
}

func ObserveTranscode(start time.Time, err error) {
	outcome := "ready"
	if err != nil {
		outcome = "failed"
	}
	transcodeDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

func IncTestimonialCreated(kind string) {
	if kind != "video" && kind != "text" {
		kind = "unknown"
	}
	testimonialsCreatedTotal.WithLabelValues(kind).Inc()
}
