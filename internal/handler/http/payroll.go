package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Salary records
	ListSalaries(w http.ResponseWriter, r *http.Request)
	UpsertSalary(w http.ResponseWriter, r *http.Request)
	FindSalary(w http.ResponseWriter, r *http.Request)
	UpdateSalary(w http.ResponseWriter, r *http.Request)

	// Deductions
	Overview(w http.ResponseWriter, r *http.Request)
	LateDeduction(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// ListSalaries implements PayrollHandler.
func (h *payrollHandlerImpl) ListSalaries(w http.ResponseWriter, r *http.Request) {
	salaries, err := h.payrollService.ListSalaries(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salaries)
}

// UpsertSalary implements PayrollHandler.
func (h *payrollHandlerImpl) UpsertSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpsertSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	salary, err := h.payrollService.UpsertSalary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary saved successfully", salary)
}

// FindSalary implements PayrollHandler.
func (h *payrollHandlerImpl) FindSalary(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	salary, err := h.payrollService.GetSalaryByEmployee(r.Context(), session, chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, salary)
}

// UpdateSalary implements PayrollHandler.
func (h *payrollHandlerImpl) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req payroll.UpdateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	salary, err := h.payrollService.UpdateSalary(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary updated successfully", salary)
}

// Overview implements PayrollHandler.
func (h *payrollHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	overview, err := h.payrollService.GetOverview(r.Context(), session, monthQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, overview)
}

// LateDeduction implements PayrollHandler.
func (h *payrollHandlerImpl) LateDeduction(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetLateDeduction(r.Context(), session, monthQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
