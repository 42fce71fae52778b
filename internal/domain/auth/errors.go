package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrTooManyRequests     = errors.New("too many requests, try again later")
	ErrEmailNotVerified    = errors.New("email address has not been confirmed")
	ErrInvalidOTP          = errors.New("invalid verification code")
	ErrOTPExpired          = errors.New("verification code has expired")
	ErrOTPAttemptsExceeded = errors.New("too many wrong codes, request a new one")
	ErrResetNotVerified    = errors.New("verify the reset code before choosing a new password")
	ErrOTPNotFound         = errors.New("verification code not found")
)
