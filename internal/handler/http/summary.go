package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type SummaryHandler interface {
	// Admin
	Date(w http.ResponseWriter, r *http.Request)
	AbsenteeList(w http.ResponseWriter, r *http.Request)

	Monthly(w http.ResponseWriter, r *http.Request)
	MonthlyExport(w http.ResponseWriter, r *http.Request)
	EmployeeAbsenteeList(w http.ResponseWriter, r *http.Request)
	EmployeeHalfDaysList(w http.ResponseWriter, r *http.Request)
}

type summaryHandlerImpl struct {
	summaryService summary.SummaryService
	payrollService payroll.PayrollService
}

func NewSummaryHandler(summaryService summary.SummaryService, payrollService payroll.PayrollService) SummaryHandler {
	return &summaryHandlerImpl{
		summaryService: summaryService,
		payrollService: payrollService,
	}
}

func monthQuery(r *http.Request) summary.MonthQuery {
	q := r.URL.Query()
	return summary.MonthQuery{
		EmployeeID: q.Get("employeeId"),
		Month:      q.Get("month"),
		Year:       q.Get("year"),
	}
}

func rangeQuery(r *http.Request) summary.RangeQuery {
	q := r.URL.Query()
	return summary.RangeQuery{
		EmployeeID: q.Get("employeeId"),
		StartDate:  q.Get("startDate"),
		EndDate:    q.Get("endDate"),
	}
}

// Date implements SummaryHandler.
func (h *summaryHandlerImpl) Date(w http.ResponseWriter, r *http.Request) {
	report, err := h.summaryService.GetDailyReport(r.Context(), summary.DateQuery{Date: r.URL.Query().Get("date")})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

// AbsenteeList implements SummaryHandler.
func (h *summaryHandlerImpl) AbsenteeList(w http.ResponseWriter, r *http.Request) {
	list, err := h.summaryService.GetAbsenteeList(r.Context(), rangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

// Monthly implements SummaryHandler.
func (h *summaryHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := h.summaryService.GetMonthly(r.Context(), session, monthQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MonthlyExport implements SummaryHandler.
func (h *summaryHandlerImpl) MonthlyExport(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	file, err := h.summaryService.ExportMonthly(r.Context(), session, monthQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Name, file.ContentType, file.Content)
}

// EmployeeAbsenteeList implements SummaryHandler.
func (h *summaryHandlerImpl) EmployeeAbsenteeList(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetAbsentDeduction(r.Context(), session, rangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// EmployeeHalfDaysList implements SummaryHandler.
func (h *summaryHandlerImpl) EmployeeHalfDaysList(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.GetHalfDayDeduction(r.Context(), session, rangeQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
