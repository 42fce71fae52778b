package auth

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = normalizeEmail(r.Email)
	errs = validateEmail(r.Email, errs)

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LoginResponse is the session handed to the dashboard after login.
type LoginResponse struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	UserID     string `json:"_id"`
	EmployeeID string `json:"employeeId,omitempty"`
	Email      string `json:"email"`
	ExpiresAt  string `json:"expiresAt"`
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string, errs validator.ValidationErrors) validator.ValidationErrors {
	if validator.IsEmpty(email) {
		return append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if !validator.IsValidEmail(email) {
		return append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	return errs
}

func validatePassword(password string, errs validator.ValidationErrors) validator.ValidationErrors {
	if validator.IsEmpty(password) {
		return append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}
	if !validator.IsStrongPassword(password) {
		return append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters, include uppercase, lowercase, number, and a symbol",
		})
	}
	return errs
}

func validateOTP(code string, errs validator.ValidationErrors) validator.ValidationErrors {
	if validator.IsEmpty(code) {
		return append(errs, validator.ValidationError{
			Field:   "otp",
			Message: "otp is required",
		})
	}
	if !validator.IsValidOTP(code) {
		return append(errs, validator.ValidationError{
			Field:   "otp",
			Message: "otp must be a 6-digit number",
		})
	}
	return errs
}

// RegisterRequest creates an employee account that stays locked until the
// emailed code is confirmed.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	r.Email = normalizeEmail(r.Email)
	errs = validateEmail(r.Email, errs)

	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	if validator.IsEmpty(r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phoneNumber",
			Message: "phone number is required",
		})
	} else if !validator.IsValidPhoneNumber(r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phoneNumber",
			Message: "phone number must be 10 digits",
		})
	}

	errs = validatePassword(r.Password, errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CodeRequest carries an email and the one-time code sent to it. It is the
// body of both confirm-registration and verify-otp.
type CodeRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (r *CodeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = normalizeEmail(r.Email)
	errs = validateEmail(r.Email, errs)

	r.OTP = strings.TrimSpace(r.OTP)
	errs = validateOTP(r.OTP, errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	if errs := validateEmail(r.Email, nil); len(errs) > 0 {
		return errs
	}
	return nil
}

type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = normalizeEmail(r.Email)
	errs = validateEmail(r.Email, errs)
	errs = validatePassword(r.Password, errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CodeSentResponse tells the client where a code went and until when it is
// accepted.
type CodeSentResponse struct {
	Email     string `json:"email"`
	ExpiresAt string `json:"expiresAt"`
}
