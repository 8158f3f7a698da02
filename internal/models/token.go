package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the server-side record of an issued refresh token.
// A token is single use: once exchanged for a new pair UsedAt is set and the
// token can never be exchanged again.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

func (t RefreshToken) ExpiredAt(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

func (t RefreshToken) Used() bool {
	return t.UsedAt != nil
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenPair is what a successful register, login or refresh hands back:
// a short-lived JWT access token and a one-time refresh token.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
