package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

const MaxLeaveDays = 366

type CreateLeaveRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	start, err := timeutil.ParseDateParam(r.StartDate)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "startDate", Message: err.Error()})
	}
	end, err := timeutil.ParseDateParam(r.EndDate)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: err.Error()})
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "endDate must not be before startDate"})
	} else if len(errs) == 0 && timeutil.DayCount(start, end) > MaxLeaveDays {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "a leave request must not exceed 366 days"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	} else if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must not exceed 1000 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	r.Start, r.End = start, end
	return nil
}

type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	if r.Status != StatusApproved && r.Status != StatusRejected {
		return validator.Single("status", "status must be approved or rejected")
	}
	return nil
}

type ListFilter struct {
	Status string
}

func (f ListFilter) Validate() error {
	if f.Status == "" {
		return nil
	}
	if !validator.IsInSlice(f.Status, []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}) {
		return validator.Single("status", "status must be pending, approved or rejected")
	}
	return nil
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	EmployeeName *string `json:"employeeName,omitempty"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	Days         int     `json:"days"`
	Reason       string  `json:"reason"`
	Status       Status  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
}

func NewLeaveResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:           l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		StartDate:    timeutil.DateKey(l.StartDate),
		EndDate:      timeutil.DateKey(l.EndDate),
		Days:         int(timeutil.DayCount(l.StartDate, l.EndDate)),
		Reason:       l.Reason,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
}
