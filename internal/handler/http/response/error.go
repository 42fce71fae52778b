package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance state machine
	case errors.Is(err, attendance.ErrInvalidTransition):
		InvalidTransition(w, err.Error())
	case errors.Is(err, attendance.ErrUnknownAction):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrEmployeeProfileMissing):
		Forbidden(w, err.Error())

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, auth.ErrTooManyRequests), errors.Is(err, auth.ErrOTPAttemptsExceeded):
		TooManyRequests(w, err.Error())
	case errors.Is(err, auth.ErrEmailNotVerified), errors.Is(err, auth.ErrResetNotVerified):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrInvalidOTP), errors.Is(err, auth.ErrOTPExpired), errors.Is(err, auth.ErrOTPNotFound):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrEmailAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, holiday.ErrHolidayDateExists):
		Conflict(w, err.Error())
	case errors.Is(err, holiday.ErrNotPredefined):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, holiday.ErrForeignCustomHoliday):
		Forbidden(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSalaryNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, payroll.ErrEmployeeHasNoSalary):
		NotFound(w, err.Error())
	case errors.Is(err, payroll.ErrSalaryEmployeeExists):
		Conflict(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
