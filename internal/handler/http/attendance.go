package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

const streamKeepalive = 30 * time.Second

// Subscriber is satisfied by *sse.Hub.
type Subscriber interface {
	Subscribe(topic string) (<-chan sse.Event, func())
}

type AttendanceHandler interface {
	GetStatus(w http.ResponseWriter, r *http.Request)
	Transition(w http.ResponseWriter, r *http.Request)
	FindLateCheckins(w http.ResponseWriter, r *http.Request)

	// Live status
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
	hub               Subscriber
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service, hub Subscriber) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
		hub:               hub,
	}
}

// GetStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	record, err := h.attendanceService.GetStatus(r.Context(), session)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// Transition implements AttendanceHandler.
func (h *attendanceHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	action, err := attendance.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Transition(r.Context(), session, action)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Record.StatusLabel, result)
}

// FindLateCheckins implements AttendanceHandler.
func (h *attendanceHandlerImpl) FindLateCheckins(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := attendance.LateCheckinFilter{
		EmployeeID: query.Get("employeeId"),
		StartDate:  query.Get("startDate"),
		EndDate:    query.Get("endDate"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListLateCheckins(r.Context(), session, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// StreamToken issues a short-lived token for the caller's status stream.
// Admins subscribe to every employee's transitions.
func (h *attendanceHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var topic string
	switch {
	case session.IsAdmin():
		topic = sse.TopicAdmins
	case session.EmployeeID != "":
		topic = sse.TopicForEmployee(session.EmployeeID)
	default:
		response.HandleError(w, attendance.ErrEmployeeProfileMissing)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(session.UserID, topic)
	if err != nil {
		slog.Error("GenerateSSEToken failed", "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, attendance.StreamTokenResponse{
		Token:     token,
		Topic:     topic,
		ExpiresIn: expiresIn,
	})
}

// Stream serves the attendance events of the token's topic as SSE.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token comes in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, topic, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(topic)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"userId\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("dropping unencodable stream event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
