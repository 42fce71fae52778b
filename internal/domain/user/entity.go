package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // HR staff - manages every employee
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID            string
	Name          string
	Email         string
	PhoneNumber   *string
	PasswordHash  string
	Role          Role
	EmployeeID    *string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin checks if user manages attendance for everyone
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
