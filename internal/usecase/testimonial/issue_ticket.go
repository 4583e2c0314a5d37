package testimonial

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
)

type ticketIssuerSrv struct {
	repo    port.UploadRepository
	strg    port.Storage
	bucket  string
	genUUID port.UUIDGen
}

// compile-time check: *ticketIssuerSrv must satisfy port.TicketIssuer
var _ port.TicketIssuer = (*ticketIssuerSrv)(nil)

func NewTicketIssuer(repo port.UploadRepository, strg port.Storage, stagingBucket string, genUUID port.UUIDGen) port.TicketIssuer {
	return &ticketIssuerSrv{repo: repo, strg: strg, bucket: stagingBucket, genUUID: genUUID}
}

func (s *ticketIssuerSrv) IssueTicket(ctx context.Context, in port.IssueTicketInput) (port.IssueTicketOutput, error) {
	id := s.genUUID()
	upload := &model.VideoUpload{
		ID:         id,
		ObjectKey:  StagingObjectKey(id),
		Status:     model.UploadStatusPending,
		CampaignID: in.CampaignID,
	}

	if err := s.repo.Create(ctx, upload); err != nil {
		return port.IssueTicketOutput{}, err
	}

	url, err := s.strg.GeneratePresignedUploadURL(ctx, s.bucket, upload.ObjectKey, UploadURLExpiry)
	if err != nil {
		return port.IssueTicketOutput{}, err
	}

	logger.Infof(ctx, "upload #%s registered, waiting for %q in bucket %q", id, upload.ObjectKey, s.bucket)
	return port.IssueTicketOutput{ID: id, URL: url}, nil
}
