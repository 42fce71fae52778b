package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type EmployeeResponse struct {
	ID                string  `json:"id"`
	UserID            *string `json:"userId"`
	FullName          string  `json:"fullName"`
	Email             string  `json:"email"`
	Position          *string `json:"position"`
	PhoneNumber       *string `json:"phoneNumber"`
	Address           *string `json:"address"`
	DateOfBirth       *string `json:"dateOfBirth"`
	JoinDate          string  `json:"joinDate"`
	PredefinedCheckIn string  `json:"predefinedCheckIn"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                e.ID,
		UserID:            e.UserID,
		FullName:          e.FullName,
		Email:             e.Email,
		Position:          e.Position,
		PhoneNumber:       e.PhoneNumber,
		Address:           e.Address,
		JoinDate:          timeutil.DateKey(e.JoinDate),
		PredefinedCheckIn: e.PredefinedCheckIn.String(),
	}
	if e.DateOfBirth != nil {
		dob := timeutil.DateKey(*e.DateOfBirth)
		resp.DateOfBirth = &dob
	}
	return resp
}

// FindQuery selects employees by exact id or by name fragment. Exactly one
// must be given.
type FindQuery struct {
	ID   string
	Name string
}

func (q *FindQuery) Validate() error {
	q.ID = strings.TrimSpace(q.ID)
	q.Name = strings.TrimSpace(q.Name)
	switch {
	case q.ID == "" && q.Name == "":
		return validator.Single("id", "id or name is required")
	case q.ID != "" && q.Name != "":
		return validator.Single("id", "use either id or name, not both")
	case len(q.Name) > 100:
		return validator.Single("name", "name must not exceed 100 characters")
	}
	return nil
}

// UpdateProfileRequest holds the personal fields an employee may change on
// their own profile. Nil fields are left untouched.
type UpdateProfileRequest struct {
	FullName    *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"dateOfBirth"`

	dateOfBirth *time.Time
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil {
		name := strings.TrimSpace(*r.FullName)
		r.FullName = &name
		if validator.IsEmpty(name) {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
		} else if len(name) > 100 {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
		}
	}

	if r.PhoneNumber != nil {
		phone := strings.TrimSpace(*r.PhoneNumber)
		r.PhoneNumber = &phone
		if !validator.IsValidPhoneNumber(phone) {
			errs = append(errs, validator.ValidationError{Field: "phoneNumber", Message: "phone number must be 10 digits"})
		}
	}

	if r.Address != nil {
		address := strings.TrimSpace(*r.Address)
		r.Address = &address
		if len(address) > 500 {
			errs = append(errs, validator.ValidationError{Field: "address", Message: "address must not exceed 500 characters"})
		}
	}

	if r.DateOfBirth != nil {
		dob, err := timeutil.ParseDateParam(*r.DateOfBirth)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "dateOfBirth", Message: err.Error()})
		} else {
			r.dateOfBirth = &dob
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplyTo copies the validated fields onto e.
func (r UpdateProfileRequest) ApplyTo(e *Employee) {
	if r.FullName != nil {
		e.FullName = *r.FullName
	}
	if r.PhoneNumber != nil {
		e.PhoneNumber = r.PhoneNumber
	}
	if r.Address != nil {
		e.Address = r.Address
	}
	if r.dateOfBirth != nil {
		e.DateOfBirth = r.dateOfBirth
	}
}

// AdminUpdateRequest lets HR edit an employee, including the fields that
// drive attendance classification.
type AdminUpdateRequest struct {
	UpdateProfileRequest
	Position          *string `json:"position"`
	JoinDate          *string `json:"joinDate"`
	PredefinedCheckIn *string `json:"predefinedCheckIn"`

	joinDate *time.Time
	checkIn  *timeutil.TimeOfDay
}

func (r *AdminUpdateRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := r.UpdateProfileRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if r.Position != nil {
		position := strings.TrimSpace(*r.Position)
		r.Position = &position
		if len(position) > 100 {
			errs = append(errs, validator.ValidationError{Field: "position", Message: "position must not exceed 100 characters"})
		}
	}

	if r.JoinDate != nil {
		joinDate, err := timeutil.ParseDateParam(*r.JoinDate)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "joinDate", Message: err.Error()})
		} else {
			r.joinDate = &joinDate
		}
	}

	if r.PredefinedCheckIn != nil {
		if !validator.IsValidTimeOfDay(*r.PredefinedCheckIn) {
			errs = append(errs, validator.ValidationError{Field: "predefinedCheckIn", Message: "predefinedCheckIn must be HH:MM (24h)"})
		} else if checkIn, err := timeutil.ParseTimeOfDay(*r.PredefinedCheckIn); err == nil {
			r.checkIn = &checkIn
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r AdminUpdateRequest) ApplyTo(e *Employee) {
	r.UpdateProfileRequest.ApplyTo(e)
	if r.Position != nil {
		e.Position = r.Position
	}
	if r.joinDate != nil {
		e.JoinDate = *r.joinDate
	}
	if r.checkIn != nil {
		e.PredefinedCheckIn = *r.checkIn
	}
}

type AdminProfileResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Role        string  `json:"role"`
}

func NewAdminProfileResponse(u user.User) AdminProfileResponse {
	return AdminProfileResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
	}
}

// UpdateAdminProfileRequest carries only the fields the admin changed.
type UpdateAdminProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

func (r *UpdateAdminProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name == nil && r.Email == nil && r.PhoneNumber == nil {
		return validator.Single("name", "at least one of name, email or phoneNumber is required")
	}

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if validator.IsEmpty(name) {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
		}
	}

	if r.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*r.Email))
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
		}
	}

	if r.PhoneNumber != nil {
		phone := strings.TrimSpace(*r.PhoneNumber)
		r.PhoneNumber = &phone
		if !validator.IsValidPhoneNumber(phone) {
			errs = append(errs, validator.ValidationError{Field: "phoneNumber", Message: "phone number must be 10 digits"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r UpdateAdminProfileRequest) ApplyTo(u *user.User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.PhoneNumber != nil {
		u.PhoneNumber = r.PhoneNumber
	}
}
