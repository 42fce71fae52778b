package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyKeys returns the cache and lock keys for one request.
func IdempotencyKeys(path, userID, key string) (cacheKey, lockKey string) {
	cacheKey = fmt.Sprintf("idemp:%s:%s:%s", path, userID, key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the stored response of a POST that carries an
// Idempotency-Key already seen for the same caller and path. A nil client
// disables it. Redis failures let the request through.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			var userID string
			if s, ok := SessionFromContext(r.Context()); ok {
				userID = s.UserID
			}
			ctx := r.Context()
			cacheKey, lockKey := IdempotencyKeys(r.URL.Path, userID, key)

			val, err := rdb.Get(ctx, cacheKey).Bytes()
			switch {
			case err == nil:
				var cached cachedResponse
				if err := json.Unmarshal(val, &cached); err == nil {
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set(ReplayedHeader, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
				slog.Warn("discarding unreadable idempotent response", "key", cacheKey)
			case !errors.Is(err, redis.Nil):
				slog.Error("idempotency lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			locked, err := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
			if err != nil {
				slog.Error("idempotency lock failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !locked {
				response.Conflict(w, "A request with this Idempotency-Key is still being processed")
				return
			}
			defer rdb.Del(ctx, lockKey)

			rec := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			// Server errors are not replayed so the client can retry.
			if rec.status >= http.StatusInternalServerError {
				return
			}
			payload, err := json.Marshal(cachedResponse{
				Status:      rec.status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := rdb.Set(ctx, cacheKey, string(payload), ttl).Err(); err != nil {
				slog.Error("idempotency store failed", "error", err)
			}
		})
	}
}

type captureWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
