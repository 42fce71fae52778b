package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type oneTimeCodeRepositoryImpl struct {
	db *database.DB
}

func NewOneTimeCodeRepository(db *database.DB) auth.OneTimeCodeRepository {
	return &oneTimeCodeRepositoryImpl{db: db}
}

// Save implements auth.OneTimeCodeRepository.
func (r *oneTimeCodeRepositoryImpl) Save(ctx context.Context, code auth.OneTimeCode) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO one_time_codes (user_id, purpose, code_hash, attempts, expires_at, verified_at, created_at)
		VALUES ($1, $2, $3, 0, $4, NULL, NOW())
		ON CONFLICT (user_id, purpose) DO UPDATE
		SET code_hash = EXCLUDED.code_hash,
		    attempts = 0,
		    expires_at = EXCLUDED.expires_at,
		    verified_at = NULL,
		    created_at = NOW()
	`
	if _, err := q.Exec(ctx, query, code.UserID, code.Purpose, code.CodeHash, code.ExpiresAt); err != nil {
		return fmt.Errorf("failed to save one-time code: %w", err)
	}
	return nil
}

// Get implements auth.OneTimeCodeRepository.
func (r *oneTimeCodeRepositoryImpl) Get(ctx context.Context, userID string, purpose auth.Purpose) (auth.OneTimeCode, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, purpose, code_hash, attempts, expires_at, verified_at, created_at
		FROM one_time_codes
		WHERE user_id = $1 AND purpose = $2
	`
	var c auth.OneTimeCode
	err := q.QueryRow(ctx, query, userID, purpose).Scan(
		&c.UserID,
		&c.Purpose,
		&c.CodeHash,
		&c.Attempts,
		&c.ExpiresAt,
		&c.VerifiedAt,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.OneTimeCode{}, auth.ErrOTPNotFound
		}
		return auth.OneTimeCode{}, fmt.Errorf("failed to get one-time code: %w", err)
	}
	return c, nil
}

func (r *oneTimeCodeRepositoryImpl) execOne(ctx context.Context, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update one-time code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrOTPNotFound
	}
	return nil
}

// IncrementAttempts implements auth.OneTimeCodeRepository.
func (r *oneTimeCodeRepositoryImpl) IncrementAttempts(ctx context.Context, userID string, purpose auth.Purpose) error {
	return r.execOne(ctx, `UPDATE one_time_codes SET attempts = attempts + 1 WHERE user_id = $1 AND purpose = $2`, userID, purpose)
}

// MarkVerified implements auth.OneTimeCodeRepository.
func (r *oneTimeCodeRepositoryImpl) MarkVerified(ctx context.Context, userID string, purpose auth.Purpose, at, expiresAt time.Time) error {
	return r.execOne(ctx, `UPDATE one_time_codes SET verified_at = $3, expires_at = $4 WHERE user_id = $1 AND purpose = $2`, userID, purpose, at, expiresAt)
}

// Delete implements auth.OneTimeCodeRepository.
func (r *oneTimeCodeRepositoryImpl) Delete(ctx context.Context, userID string, purpose auth.Purpose) error {
	return r.execOne(ctx, `DELETE FROM one_time_codes WHERE user_id = $1 AND purpose = $2`, userID, purpose)
}

// DeleteExpired implements auth.OneTimeCodeRepository.
func (r *oneTimeCodeRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM one_time_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired one-time codes: %w", err)
	}
	return tag.RowsAffected(), nil
}
