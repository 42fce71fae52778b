package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client address.
type IPRateLimiter struct {
	ips map[string]*visitor
	mu  sync.Mutex
	r   rate.Limit
	b   int
	now func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   r,
		b:   b,
		now: time.Now,
	}
}

// NewPerMinuteLimiter allows perMinute requests per client, with the whole
// minute's allowance available as a burst.
func NewPerMinuteLimiter(perMinute int) *IPRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return NewIPRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

func (i *IPRateLimiter) GetLimiter(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.ips[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[key] = v
	}
	v.lastSeen = i.now()
	return v.limiter
}

// PruneIdle drops limiters not used for idle and reports how many went. A
// dropped client starts again with a full bucket.
func (i *IPRateLimiter) PruneIdle(idle time.Duration) int {
	if i == nil {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	cutoff := i.now().Add(-idle)
	pruned := 0
	for key, v := range i.ips {
		if v.lastSeen.Before(cutoff) {
			delete(i.ips, key)
			pruned++
		}
	}
	return pruned
}

// Len reports how many clients are tracked.
func (i *IPRateLimiter) Len() int {
	if i == nil {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// RateLimit rejects a client once its bucket is empty. A nil limiter lets
// every request through.
func RateLimit(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.GetLimiter(clientIP(r)).Allow() {
				response.HandleError(w, auth.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
