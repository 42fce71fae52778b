package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type HolidayHandler interface {
	ListPredefined(w http.ResponseWriter, r *http.Request)
	AddPredefined(w http.ResponseWriter, r *http.Request)
	DeletePredefined(w http.ResponseWriter, r *http.Request)

	ListSelected(w http.ResponseWriter, r *http.Request)
	Select(w http.ResponseWriter, r *http.Request)
	AddCustom(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
}

func NewHolidayHandler(holidayService holiday.HolidayService) HolidayHandler {
	return &holidayHandlerImpl{
		holidayService: holidayService,
	}
}

// ListPredefined implements HolidayHandler.
func (h *holidayHandlerImpl) ListPredefined(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.holidayService.ListPredefined(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, holidays)
}

// AddPredefined implements HolidayHandler.
func (h *holidayHandlerImpl) AddPredefined(w http.ResponseWriter, r *http.Request) {
	var req holiday.AddPredefinedRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddPredefined decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	holidays, err := h.holidayService.AddPredefined(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Predefined holidays added successfully", holidays)
}

// DeletePredefined implements HolidayHandler.
func (h *holidayHandlerImpl) DeletePredefined(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Holiday ID is required", nil)
		return
	}

	if err := h.holidayService.DeletePredefined(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Predefined holiday deleted successfully", nil)
}

// ListSelected implements HolidayHandler. Without an {employeeId} the
// caller's own selection is returned.
func (h *holidayHandlerImpl) ListSelected(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	holidays, err := h.holidayService.ListSelected(r.Context(), session, chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, holidays)
}

// Select implements HolidayHandler.
func (h *holidayHandlerImpl) Select(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req holiday.SelectHolidaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SelectHolidays decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	holidays, err := h.holidayService.SelectHolidays(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holidays selected successfully", holidays)
}

// AddCustom implements HolidayHandler.
func (h *holidayHandlerImpl) AddCustom(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req holiday.HolidayInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddCustomHoliday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.holidayService.AddCustomHoliday(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Custom holiday added successfully", created)
}
