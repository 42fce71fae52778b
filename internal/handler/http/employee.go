package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	FindEmployees(w http.ResponseWriter, r *http.Request)
	GetMyProfile(w http.ResponseWriter, r *http.Request)
	UpdateMyProfile(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)

	// Admin profile
	GetAdminProfile(w http.ResponseWriter, r *http.Request)
	UpdateAdminProfile(w http.ResponseWriter, r *http.Request)
}

// adminEnvelope is the shape the dashboard reads admin profiles from.
type adminEnvelope struct {
	Admin employee.AdminProfileResponse `json:"admin"`
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employeeService.ListEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// GetEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	emp, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

// GetMyProfile implements EmployeeHandler.
func (h *employeeHandlerImpl) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	emp, err := h.employeeService.GetMyProfile(r.Context(), session)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

// FindEmployees implements EmployeeHandler. Exactly one of ?id= or ?name=
// is accepted.
func (h *employeeHandlerImpl) FindEmployees(w http.ResponseWriter, r *http.Request) {
	q := employee.FindQuery{
		ID:   r.URL.Query().Get("id"),
		Name: r.URL.Query().Get("name"),
	}

	employees, err := h.employeeService.FindEmployees(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// UpdateMyProfile implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req employee.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateMyProfile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	emp, err := h.employeeService.UpdateMyProfile(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", emp)
}

// UpdateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	var req employee.AdminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	emp, err := h.employeeService.UpdateEmployee(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", emp)
}

// GetAdminProfile implements EmployeeHandler.
func (h *employeeHandlerImpl) GetAdminProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	profile, err := h.employeeService.GetAdminProfile(r.Context(), session)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, adminEnvelope{Admin: profile})
}

// UpdateAdminProfile implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateAdminProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req employee.UpdateAdminProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateAdminProfile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	profile, err := h.employeeService.UpdateAdminProfile(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", adminEnvelope{Admin: profile})
}
