package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/logger"
	"github.com/fhuszti/testimonials-video-go/internal/model"
	"github.com/fhuszti/testimonials-video-go/internal/port"
	"github.com/fhuszti/testimonials-video-go/internal/usecase/testimonial"
	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type UploadRepository struct {
	db *sql.DB
}

// compile-time check: *UploadRepository must satisfy port.UploadRepository
var _ port.UploadRepository = (*UploadRepository)(nil)

func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

const uploadColumns = `id, object_key, status, playback_id, campaign_id, size_bytes, content_type, failure_message, metadata, created_at, updated_at`

func (r *UploadRepository) Create(ctx context.Context, u *model.VideoUpload) error {
	logger.Debugf(ctx, "creating database record for upload #%s, at status %q...", u.ID, u.Status)

	const query = `
      INSERT INTO video_uploads
        (id, object_key, status, campaign_id, metadata)
      VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query, u.ID, u.ObjectKey, u.Status, u.CampaignID, u.Metadata)
	return err
}

// Update never clears an assigned playback id.
func (r *UploadRepository) Update(ctx context.Context, u *model.VideoUpload) error {
	logger.Debugf(ctx, "updating database record for upload #%s, with status %q...", u.ID, u.Status)

	const query = `
      UPDATE video_uploads
      SET
        status          = ?,
        playback_id     = COALESCE(playback_id, ?),
        size_bytes      = ?,
        content_type    = ?,
        failure_message = ?,
        metadata        = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		u.Status,
		u.PlaybackID,
		u.SizeBytes,
		u.ContentType,
		u.FailureMessage,
		u.Metadata,
		u.ID, // WHERE clause
	)
	return err
}

func (r *UploadRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VideoUpload, error) {
	query := `SELECT ` + uploadColumns + ` FROM video_uploads WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UploadRepository) GetByPlaybackID(ctx context.Context, playbackID string) (*model.VideoUpload, error) {
	query := `SELECT ` + uploadColumns + ` FROM video_uploads WHERE playback_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, playbackID))
}

func (r *UploadRepository) ListByStatusBefore(ctx context.Context, status model.UploadStatus, before time.Time) ([]uuid.UUID, error) {
	const query = `
      SELECT id
      FROM video_uploads
      WHERE status = ? AND updated_at < ?
      ORDER BY updated_at
    `
	rows, err := r.db.QueryContext(ctx, query, status, before)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UploadRepository) scanOne(row *sql.Row) (*model.VideoUpload, error) {
	var u model.VideoUpload
	err := row.Scan(
		&u.ID, &u.ObjectKey, &u.Status,
		&u.PlaybackID, &u.CampaignID,
		&u.SizeBytes, &u.ContentType,
		&u.FailureMessage, &u.Metadata,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, testimonial.ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
