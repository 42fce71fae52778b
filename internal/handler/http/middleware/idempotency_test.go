package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIdemPath = "/api/v1/attendance/checkin"
	testIdemUser = "user-1"
	testIdemKey  = "abc-123"
	testIdemTTL  = time.Hour
)

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
}

func idempotentRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, testIdemPath, nil)
	req.Header.Set(IdempotencyHeader, testIdemKey)
	return req.WithContext(WithSession(req.Context(), auth.Session{UserID: testIdemUser}))
}

func storedPayload(t *testing.T) string {
	t.Helper()
	payload, err := json.Marshal(cachedResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
	})
	require.NoError(t, err)
	return string(payload)
}

func TestIdempotency_FirstRequestIsStored(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheKey, lockKey := IdempotencyKeys(testIdemPath, testIdemUser, testIdemKey)

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "1", idempotencyLockTTL).SetVal(true)
	mock.ExpectSet(cacheKey, storedPayload(t), testIdemTTL).SetVal("OK")
	mock.ExpectDel(lockKey).SetVal(1)

	calls := 0
	rec := httptest.NewRecorder()
	Idempotency(db, testIdemTTL)(countingHandler(&calls)).ServeHTTP(rec, idempotentRequest())

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get(ReplayedHeader))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheKey, _ := IdempotencyKeys(testIdemPath, testIdemUser, testIdemKey)

	mock.ExpectGet(cacheKey).SetVal(storedPayload(t))

	calls := 0
	rec := httptest.NewRecorder()
	Idempotency(db, testIdemTTL)(countingHandler(&calls)).ServeHTTP(rec, idempotentRequest())

	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "true", rec.Header().Get(ReplayedHeader))
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_InFlightDuplicateIsRejected(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheKey, lockKey := IdempotencyKeys(testIdemPath, testIdemUser, testIdemKey)

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "1", idempotencyLockTTL).SetVal(false)

	calls := 0
	rec := httptest.NewRecorder()
	Idempotency(db, testIdemTTL)(countingHandler(&calls)).ServeHTTP(rec, idempotentRequest())

	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_RedisDownPassesThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cacheKey, _ := IdempotencyKeys(testIdemPath, testIdemUser, testIdemKey)

	mock.ExpectGet(cacheKey).SetErr(errors.New("connection refused"))

	calls := 0
	rec := httptest.NewRecorder()
	Idempotency(db, testIdemTTL)(countingHandler(&calls)).ServeHTTP(rec, idempotentRequest())

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_WithoutKeyOrClient(t *testing.T) {
	db, mock := redismock.NewClientMock()

	calls := 0
	req := httptest.NewRequest(http.MethodPost, testIdemPath, nil)
	Idempotency(db, testIdemTTL)(countingHandler(&calls)).ServeHTTP(httptest.NewRecorder(), req)
	Idempotency(nil, testIdemTTL)(countingHandler(&calls)).ServeHTTP(httptest.NewRecorder(), idempotentRequest())

	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
