package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// AccountPolicy bounds the one-time codes used by registration and
// password reset.
type AccountPolicy struct {
	CodeLifetime    time.Duration
	CodeMaxAttempts int
	ResetWindow     time.Duration
	DefaultCheckIn  timeutil.TimeOfDay
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	tx           database.Transactor
	employeeRepo employee.EmployeeRepository
	codes        auth.OneTimeCodeRepository
	mailer       email.EmailService
	policy       AccountPolicy
	loc          *time.Location
	now          func() time.Time
	generateCode func() (string, error)
}

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	employeeRepository employee.EmployeeRepository,
	codeRepository auth.OneTimeCodeRepository,
	jwtService jwt.Service,
	mailer email.EmailService,
	policy AccountPolicy,
	loc *time.Location,
	now func() time.Time,
) auth.AuthService {
	if now == nil {
		now = time.Now
	}
	if policy.BcryptCost == 0 {
		policy.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		tx:             tx,
		employeeRepo:   employeeRepository,
		codes:          codeRepository,
		mailer:         mailer,
		policy:         policy,
		loc:            loc,
		now:            now,
		generateCode:   randomCode,
	}
}

// randomCode returns a uniformly drawn 6 digit code.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (a *AuthServiceImpl) hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), a.policy.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.EmailVerified {
		return auth.LoginResponse{}, auth.ErrEmailNotVerified
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	resp := auth.LoginResponse{
		Token:     token,
		Role:      string(userData.Role),
		UserID:    userData.ID,
		Email:     userData.Email,
		ExpiresAt: time.Unix(expiresAt, 0).UTC().Format(time.RFC3339),
	}
	if userData.EmployeeID != nil {
		resp.EmployeeID = *userData.EmployeeID
	}

	slog.Info("user logged in", "user_id", userData.ID, "role", string(userData.Role))
	return resp, nil
}

// Logout implements auth.AuthService. The token stays revoked until it
// would have expired anyway.
func (a *AuthServiceImpl) Logout(ctx context.Context, session auth.Session) error {
	if session.Token == "" {
		return auth.ErrInvalidToken
	}
	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = a.now().Add(24 * time.Hour)
	}
	if err := a.Service.RevokeToken(ctx, session.Token, expiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	slog.Info("user logged out", "user_id", session.UserID)
	return nil
}

// issueCode stores a fresh hashed code and returns the plain one to mail.
func (a *AuthServiceImpl) issueCode(ctx context.Context, userID string, purpose auth.Purpose, now time.Time) (string, time.Time, error) {
	code, err := a.generateCode()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate code: %w", err)
	}
	codeHash, err := a.hash(code)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to hash code: %w", err)
	}
	expiresAt := now.Add(a.policy.CodeLifetime)
	err = a.codes.Save(ctx, auth.OneTimeCode{
		UserID:    userID,
		Purpose:   purpose,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return code, expiresAt, nil
}

// checkCode compares code with the live one. Every wrong guess counts
// against the attempt limit.
func (a *AuthServiceImpl) checkCode(ctx context.Context, userID string, purpose auth.Purpose, code string, now time.Time) error {
	otp, err := a.codes.Get(ctx, userID, purpose)
	if err != nil {
		if errors.Is(err, auth.ErrOTPNotFound) {
			return auth.ErrInvalidOTP
		}
		return err
	}
	if otp.IsExpired(now) {
		return auth.ErrOTPExpired
	}
	if otp.Attempts >= a.policy.CodeMaxAttempts {
		return auth.ErrOTPAttemptsExceeded
	}
	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		if err := a.codes.IncrementAttempts(ctx, userID, purpose); err != nil {
			return fmt.Errorf("failed to count code attempt: %w", err)
		}
		return auth.ErrInvalidOTP
	}
	return nil
}

func (a *AuthServiceImpl) expiryLabel(t time.Time) string {
	return t.In(a.loc).Format("02-01-2006 15:04")
}

// Register implements auth.AuthService. Registering again before the email
// is confirmed replaces the password and the pending code.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.CodeSentResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.CodeSentResponse{}, err
	}

	passwordHash, err := a.hash(req.Password)
	if err != nil {
		return auth.CodeSentResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	var (
		code      string
		expiresAt time.Time
	)
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := a.UserRepository.GetByEmail(txCtx, req.Email)
		var userID string
		switch {
		case err == nil:
			if existing.EmailVerified {
				return user.ErrEmailAlreadyExists
			}
			userID = existing.ID
			if err := a.UserRepository.UpdatePassword(txCtx, userID, passwordHash); err != nil {
				return err
			}
		case errors.Is(err, user.ErrUserNotFound):
			userID = uuid.Must(uuid.NewV7()).String()
			employeeID := uuid.Must(uuid.NewV7()).String()
			phone := req.PhoneNumber

			err := a.employeeRepo.Create(txCtx, employee.Employee{
				ID:                employeeID,
				UserID:            &userID,
				FullName:          req.Name,
				Email:             req.Email,
				PhoneNumber:       &phone,
				JoinDate:          timeutil.CivilDate(now, a.loc),
				PredefinedCheckIn: a.policy.DefaultCheckIn,
			})
			if err != nil {
				return err
			}
			err = a.UserRepository.Create(txCtx, user.User{
				ID:            userID,
				Name:          req.Name,
				Email:         req.Email,
				PhoneNumber:   &phone,
				PasswordHash:  passwordHash,
				Role:          user.RoleEmployee,
				EmployeeID:    &employeeID,
				EmailVerified: false,
			})
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("failed to get user by email: %w", err)
		}

		code, expiresAt, err = a.issueCode(txCtx, userID, auth.PurposeVerifyEmail, now)
		return err
	})
	if err != nil {
		return auth.CodeSentResponse{}, err
	}

	if err := a.mailer.SendVerificationCode(req.Email, req.Name, code, a.expiryLabel(expiresAt)); err != nil {
		return auth.CodeSentResponse{}, fmt.Errorf("failed to send verification email: %w", err)
	}

	slog.Info("user registered", "email", req.Email)
	return auth.CodeSentResponse{
		Email:     req.Email,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// ConfirmRegistration implements auth.AuthService.
func (a *AuthServiceImpl) ConfirmRegistration(ctx context.Context, req auth.CodeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrInvalidOTP
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := a.checkCode(ctx, u.ID, auth.PurposeVerifyEmail, req.OTP, a.now()); err != nil {
		return err
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.MarkEmailVerified(txCtx, u.ID); err != nil {
			return err
		}
		return a.codes.Delete(txCtx, u.ID, auth.PurposeVerifyEmail)
	})
	if err != nil {
		return fmt.Errorf("failed to confirm registration: %w", err)
	}

	slog.Info("email confirmed", "user_id", u.ID)
	return nil
}

// ForgotPassword implements auth.AuthService. Unknown and unconfirmed
// addresses get the same answer as real ones and no email.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) (auth.CodeSentResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.CodeSentResponse{}, err
	}

	now := a.now()
	resp := auth.CodeSentResponse{
		Email:     req.Email,
		ExpiresAt: now.Add(a.policy.CodeLifetime).UTC().Format(time.RFC3339),
	}

	u, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.Info("password reset requested for unknown email")
			return resp, nil
		}
		return auth.CodeSentResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if !u.EmailVerified {
		slog.Info("password reset requested before email confirmation", "user_id", u.ID)
		return resp, nil
	}

	code, expiresAt, err := a.issueCode(ctx, u.ID, auth.PurposeResetPassword, now)
	if err != nil {
		return auth.CodeSentResponse{}, err
	}

	name := u.Name
	if name == "" {
		name = u.Email
	}
	if err := a.mailer.SendPasswordResetCode(u.Email, name, code, a.expiryLabel(expiresAt)); err != nil {
		return auth.CodeSentResponse{}, fmt.Errorf("failed to send password reset email: %w", err)
	}

	slog.Info("password reset code sent", "user_id", u.ID)
	return resp, nil
}

// VerifyResetCode implements auth.AuthService. A correct code opens the
// reset window; the code itself is consumed by ResetPassword.
func (a *AuthServiceImpl) VerifyResetCode(ctx context.Context, req auth.CodeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrInvalidOTP
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	now := a.now()
	if err := a.checkCode(ctx, u.ID, auth.PurposeResetPassword, req.OTP, now); err != nil {
		return err
	}
	if err := a.codes.MarkVerified(ctx, u.ID, auth.PurposeResetPassword, now, now.Add(a.policy.ResetWindow)); err != nil {
		return fmt.Errorf("failed to verify reset code: %w", err)
	}
	return nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrResetNotVerified
		}
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	otp, err := a.codes.Get(ctx, u.ID, auth.PurposeResetPassword)
	if err != nil {
		if errors.Is(err, auth.ErrOTPNotFound) {
			return auth.ErrResetNotVerified
		}
		return err
	}
	if otp.VerifiedAt == nil {
		return auth.ErrResetNotVerified
	}
	if otp.IsExpired(a.now()) {
		return auth.ErrOTPExpired
	}

	passwordHash, err := a.hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := a.UserRepository.UpdatePassword(txCtx, u.ID, passwordHash); err != nil {
			return err
		}
		return a.codes.Delete(txCtx, u.ID, auth.PurposeResetPassword)
	})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	slog.Info("password reset", "user_id", u.ID)
	return nil
}
