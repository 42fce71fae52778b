package holiday

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HolidayInput is either a reference to an existing holiday (ID) or a new
// custom one (Name + Date).
type HolidayInput struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Date string `json:"date"`

	ParsedDate time.Time `json:"-"`
}

func (h *HolidayInput) validate(prefix string, requireNew bool) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if h.ID != "" && !requireNew {
		if !validator.IsValidUUID(h.ID) {
			errs = append(errs, validator.ValidationError{Field: prefix + "id", Message: "id must be a valid UUID"})
		}
		return errs
	}

	if validator.IsEmpty(h.Name) {
		errs = append(errs, validator.ValidationError{Field: prefix + "name", Message: "name is required"})
	} else if len(h.Name) > 100 {
		errs = append(errs, validator.ValidationError{Field: prefix + "name", Message: "name must not exceed 100 characters"})
	}
	date, err := timeutil.ParseDateParam(h.Date)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: prefix + "date", Message: err.Error()})
	}
	h.ParsedDate = date
	return errs
}

func (h *HolidayInput) Validate() error {
	if errs := h.validate("", true); len(errs) > 0 {
		return errs
	}
	return nil
}

type SelectHolidaysRequest struct {
	EmployeeID string         `json:"employeeId,omitempty"`
	Holidays   []HolidayInput `json:"holidays"`
}

func (r *SelectHolidaysRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Holidays == nil {
		r.Holidays = []HolidayInput{}
	}
	for i := range r.Holidays {
		errs = append(errs, r.Holidays[i].validate(fmt.Sprintf("holidays[%d].", i), false)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddPredefinedRequest struct {
	Holidays []HolidayInput `json:"holidays"`
}

func (r *AddPredefinedRequest) Validate() error {
	var errs validator.ValidationErrors
	if len(r.Holidays) == 0 {
		errs = append(errs, validator.ValidationError{Field: "holidays", Message: "at least one holiday is required"})
	}
	for i := range r.Holidays {
		errs = append(errs, r.Holidays[i].validate(fmt.Sprintf("holidays[%d].", i), true)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	IsCustom   bool    `json:"isCustom"`
	EmployeeID *string `json:"employeeId,omitempty"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:         h.ID,
		Name:       h.Name,
		Date:       timeutil.DateKey(h.Date),
		IsCustom:   h.IsCustom,
		EmployeeID: h.EmployeeID,
	}
}

func NewHolidayResponses(hs []Holiday) []HolidayResponse {
	out := make([]HolidayResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, NewHolidayResponse(h))
	}
	return out
}
