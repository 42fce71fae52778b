package auth

import (
	"context"
	"time"
)

type Purpose string

const (
	PurposeVerifyEmail   Purpose = "verify_email"
	PurposeResetPassword Purpose = "reset_password"
)

// OneTimeCode is the hashed form of a code mailed to a user. At most one
// code per user and purpose is live; issuing a new one replaces it.
type OneTimeCode struct {
	UserID     string
	Purpose    Purpose
	CodeHash   string
	Attempts   int
	ExpiresAt  time.Time
	VerifiedAt *time.Time
	CreatedAt  time.Time
}

func (c OneTimeCode) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

type OneTimeCodeRepository interface {
	// Save inserts the code or replaces the live one, resetting attempts.
	Save(ctx context.Context, code OneTimeCode) error
	Get(ctx context.Context, userID string, purpose Purpose) (OneTimeCode, error)
	IncrementAttempts(ctx context.Context, userID string, purpose Purpose) error
	// MarkVerified records a correct code and moves its expiry to the end of
	// the window in which it may be consumed.
	MarkVerified(ctx context.Context, userID string, purpose Purpose, at, expiresAt time.Time) error
	Delete(ctx context.Context, userID string, purpose Purpose) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
