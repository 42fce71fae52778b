package jwt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const sseTokenLifetime = 5 * time.Minute

type Service interface {
	GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(userID string, topic string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (userID string, topic string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(ctx context.Context, token string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
	// PruneRevoked forgets revoked tokens that have expired by now and
	// reports how many were dropped.
	PruneRevoked(ctx context.Context, now time.Time) (int64, error)
}

// RevocationStore keeps logged-out tokens until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	revoked                   RevocationStore
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds the token service. A nil store keeps revocations in
// process memory, which only suits tests and single-instance development.
func NewJWTService(secretKey string, accessTokenExpirationTime string, store RevocationStore) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	if expiration <= 0 {
		return nil, errors.New("access token expiration must be positive")
	}
	if store == nil {
		store = newMemoryRevocationStore()
	}
	return &JWTService{
		accessTokenExpirationTime: expiration,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revoked:                   store,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, email string, employeeID *string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"user_id":     userID,
		"email":       email,
		"employee_id": returnValueOrNil(employeeID),
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(ctx context.Context, token string, expiresAt time.Time) error {
	return j.revoked.Revoke(ctx, token, expiresAt)
}

func (j *JWTService) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	return j.revoked.IsRevoked(ctx, token)
}

func (j *JWTService) PruneRevoked(ctx context.Context, now time.Time) (int64, error) {
	return j.revoked.DeleteExpired(ctx, now)
}

type memoryRevocationStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func newMemoryRevocationStore() *memoryRevocationStore {
	return &memoryRevocationStore{tokens: make(map[string]time.Time)}
}

func (m *memoryRevocationStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = expiresAt
	return nil
}

func (m *memoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, revoked := m.tokens[token]
	return revoked, nil
}

func (m *memoryRevocationStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pruned int64
	for token, expiresAt := range m.tokens {
		if !expiresAt.After(now) {
			delete(m.tokens, token)
			pruned++
		}
	}
	return pruned, nil
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

// GenerateSSEToken generates a short-lived token bound to one stream topic
func (j *JWTService) GenerateSSEToken(userID string, topic string) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(sseTokenLifetime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"topic":   topic,
		"type":    "sse",
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns its user and topic
func (j *JWTService) ValidateSSEToken(tokenString string) (userID string, topic string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "sse" {
		return "", "", jwt.ErrInvalidJWT()
	}

	userIDVal, _ := token.Get("user_id")
	topicVal, _ := token.Get("topic")
	userID, _ = userIDVal.(string)
	topic, _ = topicVal.(string)
	if userID == "" || topic == "" {
		return "", "", jwt.ErrInvalidJWT()
	}

	return userID, topic, nil
}
