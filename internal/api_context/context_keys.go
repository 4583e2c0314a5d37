package api_context

import (
	"context"

	"github.com/fhuszti/testimonials-video-go/internal/uuid"
)

type ctxKey string

const (
	UploadIDKey   ctxKey = "uploadID"
	AuthUserIDKey ctxKey = "authUserID"
	AuthRolesKey  ctxKey = "authRoles"
	AttemptIDKey  ctxKey = "attemptID"
)

func UploadIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UploadIDKey).(uuid.UUID)
	return id, ok
}

func AuthUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(uuid.UUID)
	return id, ok
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}

// WithAttemptID tags ctx with the id of one video submission attempt.
func WithAttemptID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, AttemptIDKey, id)
}

func AttemptIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AttemptIDKey).(uuid.UUID)
	return id, ok
}
