package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, session Session) error
	Register(ctx context.Context, req RegisterRequest) (CodeSentResponse, error)
	ConfirmRegistration(ctx context.Context, req CodeRequest) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (CodeSentResponse, error)
	VerifyResetCode(ctx context.Context, req CodeRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}
