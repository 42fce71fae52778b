package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
)

type revokedTokenRepositoryImpl struct {
	db *database.DB
}

// NewRevokedTokenRepository persists logged-out access tokens so a logout
// survives restarts and holds across instances.
func NewRevokedTokenRepository(db *database.DB) jwt.RevocationStore {
	return &revokedTokenRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// Revoke implements jwt.RevocationStore.
func (r *revokedTokenRepositoryImpl) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO revoked_tokens (token_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_hash) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, hashToken(token), expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements jwt.RevocationStore.
func (r *revokedTokenRepositoryImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var revoked bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash = $1)`, hashToken(token)).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

// DeleteExpired implements jwt.RevocationStore.
func (r *revokedTokenRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to prune revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
