package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
)

// UploadTicket is a one-time write slot issued by the backend.
type UploadTicket struct {
	UploadID string
	URL      string

	mu       sync.Mutex
	consumed bool
}

func NewUploadTicket(uploadID, url string) *UploadTicket {
	return &UploadTicket{UploadID: uploadID, URL: url}
}

// Consumed reports whether a transfer has already been attempted.
func (t *UploadTicket) Consumed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.consumed
}

func (t *UploadTicket) consume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.consumed {
		return ErrTicketConsumed
	}
	t.consumed = true
	return nil
}

type TicketIssuer interface {
	RequestUploadTicket(ctx context.Context, campaignID string) (*UploadTicket, error)
}

type Progress struct {
	Sent  int64
	Total int64
}

func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Sent) / float64(p.Total)
}

type Uploader struct {
	issuer TicketIssuer
	client *http.Client
}

func NewUploader(issuer TicketIssuer, client *http.Client) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{issuer: issuer, client: client}
}

// RequestUploadTicket makes exactly one backend call.
func (u *Uploader) RequestUploadTicket(ctx context.Context, campaignID string) (*UploadTicket, error) {
	t, err := u.issuer.RequestUploadTicket(ctx, campaignID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
		if errors.Is(err, ErrTicketRequestFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrTicketRequestFailed, err)
	}
	if t == nil || t.UploadID == "" || t.URL == "" {
		return nil, fmt.Errorf("%w: incomplete ticket", ErrTicketRequestFailed)
	}
	return t, nil
}

// Transfer PUTs the blob to the ticket URL. The ticket is consumed whatever
// the outcome. onProgress may be nil.
func (u *Uploader) Transfer(ctx context.Context, t *UploadTicket, b *Blob, onProgress func(Progress)) error {
	if t == nil {
		return fmt.Errorf("%w: no ticket", ErrUploadFailed)
	}
	if err := t.consume(); err != nil {
		return err
	}
	if b == nil || b.Size() == 0 {
		return fmt.Errorf("%w: empty recording", ErrUploadFailed)
	}

	body := &progressReader{r: b.Reader(), total: b.Size(), report: onProgress}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.URL, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.ContentLength = b.Size()
	req.Header.Set("Content-Type", b.Type())

	resp, err := u.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: storage answered %d", ErrUploadFailed, resp.StatusCode)
	}

	body.finish()
	logger.Infof(ctx, "✅  Uploaded %d bytes for upload %s", b.Size(), t.UploadID)
	return nil
}

type progressReader struct {
	r      io.Reader
	total  int64
	sent   int64
	report func(Progress)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.sent += int64(n)
		if p.report != nil && p.sent < p.total {
			p.report(Progress{Sent: p.sent, Total: p.total})
		}
	}
	return n, err
}

// finish reports completion once the storage has acknowledged the body.
func (p *progressReader) finish() {
	if p.report != nil {
		p.report(Progress{Sent: p.total, Total: p.total})
	}
}
