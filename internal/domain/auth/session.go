package auth

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

// Session identifies the caller of every operation. It is built once per
// request from the verified token and passed explicitly to services.
type Session struct {
	Token      string
	UserID     string
	EmployeeID string
	Email      string
	Role       user.Role
	ExpiresAt  time.Time
}

func (s Session) IsAdmin() bool {
	return s.Role == user.RoleAdmin
}

// ResolveEmployee decides whose data a request may touch. Admins must name
// an employee; employees may only name themselves or leave it empty.
func (s Session) ResolveEmployee(requested string) (string, error) {
	if s.IsAdmin() {
		if requested == "" {
			if s.EmployeeID != "" {
				return s.EmployeeID, nil
			}
			return "", fmt.Errorf("%w: employeeId is required", user.ErrInsufficientPermissions)
		}
		return requested, nil
	}
	if s.EmployeeID == "" {
		return "", user.ErrInsufficientPermissions
	}
	if requested != "" && requested != s.EmployeeID {
		return "", user.ErrInsufficientPermissions
	}
	return s.EmployeeID, nil
}

// SessionFromClaims rebuilds a session from verified access-token claims.
func SessionFromClaims(token string, claims map[string]interface{}) (Session, error) {
	if t, _ := claims["type"].(string); t != "access" {
		return Session{}, ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !user.Role(role).IsValid() {
		return Session{}, ErrInvalidToken
	}

	s := Session{
		Token:  token,
		UserID: userID,
		Email:  email,
		Role:   user.Role(role),
	}
	if employeeID, ok := claims["employee_id"].(string); ok {
		s.EmployeeID = employeeID
	}
	switch exp := claims["exp"].(type) {
	case time.Time:
		s.ExpiresAt = exp
	case float64:
		s.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return s, nil
}
