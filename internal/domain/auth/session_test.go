package auth

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ResolveEmployee(t *testing.T) {
	employee := Session{UserID: "u1", EmployeeID: "e1", Role: user.RoleEmployee}
	admin := Session{UserID: "u2", Role: user.RoleAdmin}

	id, err := employee.ResolveEmployee("")
	require.NoError(t, err)
	assert.Equal(t, "e1", id)

	id, err = employee.ResolveEmployee("e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", id)

	_, err = employee.ResolveEmployee("e2")
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	id, err = admin.ResolveEmployee("e2")
	require.NoError(t, err)
	assert.Equal(t, "e2", id)

	_, err = admin.ResolveEmployee("")
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestSessionFromClaims(t *testing.T) {
	exp := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	s, err := SessionFromClaims("tok", map[string]interface{}{
		"type":        "access",
		"user_id":     "u1",
		"employee_id": "e1",
		"email":       "a@b.cd",
		"role":        "employee",
		"exp":         exp,
	})
	require.NoError(t, err)
	assert.Equal(t, Session{Token: "tok", UserID: "u1", EmployeeID: "e1", Email: "a@b.cd", Role: user.RoleEmployee, ExpiresAt: exp}, s)

	_, err = SessionFromClaims("tok", map[string]interface{}{"type": "sse", "user_id": "u1", "role": "employee"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = SessionFromClaims("tok", map[string]interface{}{"type": "access", "user_id": "u1", "role": "owner"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Email: "  HR@Example.com ", Password: "secret"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "hr@example.com", req.Email)

	req = LoginRequest{Email: "nope", Password: ""}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "password")
}
