package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h", nil)
	require.NoError(t, err)
	return svc
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newService(t)
	employeeID := "e1"

	token, expiresAt, err := svc.GenerateAccessToken("u1", "a@b.cd", &employeeID, user.RoleEmployee)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, "e1", claims["employee_id"])
	assert.Equal(t, "employee", claims["role"])
}

func isRevoked(t *testing.T, svc Service, token string) bool {
	t.Helper()
	revoked, err := svc.IsTokenRevoked(t.Context(), token)
	require.NoError(t, err)
	return revoked
}

func TestRevokeAndPrune(t *testing.T) {
	svc := newService(t)
	now := time.Now()

	require.NoError(t, svc.RevokeToken(t.Context(), "expired", now.Add(-time.Minute)))
	require.NoError(t, svc.RevokeToken(t.Context(), "live", now.Add(time.Hour)))
	assert.True(t, isRevoked(t, svc, "expired"))
	assert.True(t, isRevoked(t, svc, "live"))

	pruned, err := svc.PruneRevoked(t.Context(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)
	assert.False(t, isRevoked(t, svc, "expired"))
	assert.True(t, isRevoked(t, svc, "live"))
}

type recordingStore struct {
	revoked map[string]time.Time
}

func (r *recordingStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	r.revoked[token] = expiresAt
	return nil
}

func (r *recordingStore) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := r.revoked[token]
	return ok, nil
}

func (r *recordingStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, errors.New("store offline")
}

func TestRevokeToken_UsesStore(t *testing.T) {
	store := &recordingStore{revoked: map[string]time.Time{}}
	svc, err := NewJWTService("test-secret", "1h", store)
	require.NoError(t, err)

	exp := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RevokeToken(t.Context(), "tok", exp))
	assert.Equal(t, exp, store.revoked["tok"])
	assert.True(t, isRevoked(t, svc, "tok"))

	_, err = svc.PruneRevoked(t.Context(), exp)
	assert.EqualError(t, err, "store offline")
}

func TestSSEToken(t *testing.T) {
	svc := newService(t)

	token, expiresIn, err := svc.GenerateSSEToken("u1", "employee:e1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, topic, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "employee:e1", topic)

	access, _, err := svc.GenerateAccessToken("u1", "a@b.cd", nil, user.RoleAdmin)
	require.NoError(t, err)
	_, _, err = svc.ValidateSSEToken(access)
	assert.Error(t, err)

	_, _, err = svc.ValidateSSEToken("garbage")
	assert.Error(t, err)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("s", "forever", nil)
	assert.Error(t, err)
}
