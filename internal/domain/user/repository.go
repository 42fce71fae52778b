package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, u User) error
	MarkEmailVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	// UpdateProfile writes name, email and phone number.
	UpdateProfile(ctx context.Context, u User) (User, error)
}
