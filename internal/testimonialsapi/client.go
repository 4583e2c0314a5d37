package testimonialsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fhuszti/testimonials-video-go/internal/capture"
)

type Mode string

const (
	ModeCampaign  Mode = "campaign"
	ModeAnonymous Mode = "anonymous"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCampaign:
		return ModeCampaign, nil
	case ModeAnonymous, "":
		return ModeAnonymous, nil
	default:
		return "", fmt.Errorf("unknown upload mode %q", s)
	}
}

const (
	pathCreateVideoUpload = "/testimonials/create-video-upload"
	pathAssetFromUpload   = "/testimonials/get-asset-from-upload/"
	pathCreateTestimonial = "/testimonials/create"
)

// Client talks to the testimonials backend.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	mode    Mode
}

var (
	_ capture.TicketIssuer       = (*Client)(nil)
	_ capture.AssetStatusSource  = (*Client)(nil)
	_ capture.TestimonialCreator = (*Client)(nil)
)

func NewClient(baseURL string, httpClient *http.Client, token string, mode Mode) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		token:   token,
		mode:    mode,
	}
}

type ticketResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *Client) RequestUploadTicket(ctx context.Context, campaignID string) (*capture.UploadTicket, error) {
	var body any
	if c.mode == ModeCampaign {
		if campaignID == "" {
			return nil, fmt.Errorf("%w: campaign id required in campaign mode", capture.ErrTicketRequestFailed)
		}
		body = map[string]string{"campaignId": campaignID}
	}

	resp, err := c.do(ctx, http.MethodPost, pathCreateVideoUpload, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", capture.ErrTicketRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", capture.ErrTicketRequestFailed, describe(resp))
	}

	var tr ticketResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("%w: decode ticket: %v", capture.ErrTicketRequestFailed, err)
	}
	if tr.ID == "" || tr.URL == "" {
		return nil, fmt.Errorf("%w: ticket without id or url", capture.ErrTicketRequestFailed)
	}
	return capture.NewUploadTicket(tr.ID, tr.URL), nil
}

type assetResponse struct {
	PlaybackID string `json:"playbackId"`
	Status     string `json:"status"`
}

// GetAssetFromUpload treats 202 as the only processing signal. A 200 must
// carry status "ready" and a playback id.
func (c *Client) GetAssetFromUpload(ctx context.Context, uploadID string) (capture.AssetReadiness, error) {
	resp, err := c.do(ctx, http.MethodGet, pathAssetFromUpload+url.PathEscape(uploadID), nil)
	if err != nil {
		return capture.AssetReadiness{}, fmt.Errorf("%w: %w", capture.ErrAssetTransport, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return capture.AssetReadiness{Status: capture.AssetProcessing}, nil
	case http.StatusOK:
		var ar assetResponse
		if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
			return capture.AssetReadiness{}, fmt.Errorf("%w: decode asset: %v", capture.ErrAssetTransport, err)
		}
		if ar.Status != "ready" || ar.PlaybackID == "" {
			return capture.AssetReadiness{}, fmt.Errorf("%w: unexpected 200 with status %q", capture.ErrAssetTransport, ar.Status)
		}
		return capture.AssetReadiness{Status: capture.AssetReady, PlaybackID: ar.PlaybackID}, nil
	default:
		return capture.AssetReadiness{}, fmt.Errorf("%w: %s", capture.ErrAssetTransport, describe(resp))
	}
}

func (c *Client) CreateTestimonial(ctx context.Context, rec capture.TestimonialRecord) error {
	if c.mode == ModeAnonymous {
		rec.CampaignID = ""
	}
	resp, err := c.do(ctx, http.MethodPost, pathCreateTestimonial, rec)
	if err != nil {
		return fmt.Errorf("%w: %w", capture.ErrFinalizeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", capture.ErrFinalizeFailed, describe(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Join(capture.ErrCanceled, ctx.Err())
		}
		return nil, err
	}
	return resp, nil
}

// describe renders a non-success response, including the backend's
// {"error": "..."} message when present.
func describe(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
