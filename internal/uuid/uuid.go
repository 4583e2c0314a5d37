package uuid

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UUID wraps google's uuid.UUID so ids are stored as BINARY(16) and travel
// as their canonical string in JSON.
type UUID uuid.UUID

var Nil = UUID(uuid.Nil)

func NewUUID() UUID {
	return UUID(uuid.New())
}

// NewPlaybackID returns the public, URL-safe identifier of a ready video.
func NewPlaybackID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Parse accepts the canonical textual form only.
func Parse(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("invalid uuid %q: %w", s, err)
	}
	return UUID(id), nil
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

func (u UUID) IsNil() bool {
	return u == Nil
}

func (u *UUID) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return err
			}
			*u = UUID(id)
			return nil
		}
		return u.UnmarshalText(v)
	case string:
		return u.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("UUID.Scan: unsupported type %T", src)
	}
}

func (u UUID) Value() (driver.Value, error) {
	return uuid.UUID(u).MarshalBinary()
}

func (u UUID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(u).String()), nil
}

func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*u = UUID(parsed)
	return nil
}
