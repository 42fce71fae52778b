package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RevocationList is satisfied by jwt.Service.
type RevocationList interface {
	PruneRevoked(ctx context.Context, now time.Time) (int64, error)
}

// CodeStore is satisfied by auth.OneTimeCodeRepository.
type CodeStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type TokenJobs struct {
	revoked RevocationList
	codes   CodeStore
	now     func() time.Time
}

func NewTokenJobs(revoked RevocationList, codes CodeStore) *TokenJobs {
	return &TokenJobs{revoked: revoked, codes: codes, now: time.Now}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	scheduler.AddJob("prune_revoked_tokens", interval, j.PruneRevokedTokens)
	if j.codes != nil {
		scheduler.AddJob("prune_expired_codes", interval, j.PruneExpiredCodes)
	}
}

// PruneRevokedTokens forgets logged-out tokens that have expired anyway.
func (j *TokenJobs) PruneRevokedTokens(ctx context.Context) error {
	n, err := j.revoked.PruneRevoked(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to prune revoked tokens: %w", err)
	}
	if n > 0 {
		slog.Info("Cron: pruned revoked tokens", "count", n)
	}
	return nil
}

// PruneExpiredCodes deletes one-time codes nobody can use any more.
func (j *TokenJobs) PruneExpiredCodes(ctx context.Context) error {
	n, err := j.codes.DeleteExpired(ctx, j.now())
	if err != nil {
		return fmt.Errorf("failed to prune one-time codes: %w", err)
	}
	if n > 0 {
		slog.Info("Cron: pruned expired one-time codes", "count", n)
	}
	return nil
}
