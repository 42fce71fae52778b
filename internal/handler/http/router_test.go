package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmployeeID = "0190f1c2-0000-7000-8000-000000000001"
	testSecret     = "router-test-secret"
)

// Each stub embeds the service interface; methods a test does not set
// panic, which the Recoverer turns into a 500.

type stubAuthService struct {
	auth.AuthService
	login    func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error)
	logout   func(ctx context.Context, session auth.Session) error
	register func(ctx context.Context, req auth.RegisterRequest) (auth.CodeSentResponse, error)
	confirm  func(ctx context.Context, req auth.CodeRequest) error
	forgot   func(ctx context.Context, req auth.ForgotPasswordRequest) (auth.CodeSentResponse, error)
	verify   func(ctx context.Context, req auth.CodeRequest) error
	reset    func(ctx context.Context, req auth.ResetPasswordRequest) error
}

func (s stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.CodeSentResponse, error) {
	return s.register(ctx, req)
}

func (s stubAuthService) ConfirmRegistration(ctx context.Context, req auth.CodeRequest) error {
	return s.confirm(ctx, req)
}

func (s stubAuthService) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) (auth.CodeSentResponse, error) {
	return s.forgot(ctx, req)
}

func (s stubAuthService) VerifyResetCode(ctx context.Context, req auth.CodeRequest) error {
	return s.verify(ctx, req)
}

func (s stubAuthService) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return s.reset(ctx, req)
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	return s.login(ctx, req)
}

func (s stubAuthService) Logout(ctx context.Context, session auth.Session) error {
	return s.logout(ctx, session)
}

type stubAttendanceService struct {
	attendance.AttendanceService
	transition func(ctx context.Context, session auth.Session, action attendance.Action) (attendance.TransitionResponse, error)
}

func (s stubAttendanceService) Transition(ctx context.Context, session auth.Session, action attendance.Action) (attendance.TransitionResponse, error) {
	return s.transition(ctx, session, action)
}

type stubSummaryService struct {
	summary.SummaryService
	daily  func(ctx context.Context, q summary.DateQuery) (summary.DailyReportResponse, error)
	export func(ctx context.Context, session auth.Session, q summary.MonthQuery) (summary.ExportFile, error)
}

func (s stubSummaryService) GetDailyReport(ctx context.Context, q summary.DateQuery) (summary.DailyReportResponse, error) {
	return s.daily(ctx, q)
}

func (s stubSummaryService) ExportMonthly(ctx context.Context, session auth.Session, q summary.MonthQuery) (summary.ExportFile, error) {
	return s.export(ctx, session, q)
}

type stubPayrollService struct {
	payroll.PayrollService
	upsert func(ctx context.Context, req payroll.UpsertSalaryRequest) (payroll.SalaryResponse, error)
}

func (s stubPayrollService) UpsertSalary(ctx context.Context, req payroll.UpsertSalaryRequest) (payroll.SalaryResponse, error) {
	return s.upsert(ctx, req)
}

type stubLeaveService struct {
	leave.LeaveService
	updateStatus    func(ctx context.Context, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error)
	listForEmployee func(ctx context.Context, session auth.Session, employeeID string) ([]leave.LeaveResponse, error)
}

func (s stubLeaveService) ListForEmployee(ctx context.Context, session auth.Session, employeeID string) ([]leave.LeaveResponse, error) {
	return s.listForEmployee(ctx, session, employeeID)
}

func (s stubLeaveService) UpdateStatus(ctx context.Context, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
	return s.updateStatus(ctx, id, req)
}

type stubEmployeeService struct {
	employee.EmployeeService
	find        func(ctx context.Context, q employee.FindQuery) ([]employee.EmployeeResponse, error)
	updateMine  func(ctx context.Context, session auth.Session, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error)
	update      func(ctx context.Context, id string, req employee.AdminUpdateRequest) (employee.EmployeeResponse, error)
	getAdmin    func(ctx context.Context, session auth.Session) (employee.AdminProfileResponse, error)
	updateAdmin func(ctx context.Context, session auth.Session, req employee.UpdateAdminProfileRequest) (employee.AdminProfileResponse, error)
}

func (s stubEmployeeService) FindEmployees(ctx context.Context, q employee.FindQuery) ([]employee.EmployeeResponse, error) {
	return s.find(ctx, q)
}

func (s stubEmployeeService) UpdateMyProfile(ctx context.Context, session auth.Session, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	return s.updateMine(ctx, session, req)
}

func (s stubEmployeeService) UpdateEmployee(ctx context.Context, id string, req employee.AdminUpdateRequest) (employee.EmployeeResponse, error) {
	return s.update(ctx, id, req)
}

func (s stubEmployeeService) GetAdminProfile(ctx context.Context, session auth.Session) (employee.AdminProfileResponse, error) {
	return s.getAdmin(ctx, session)
}

func (s stubEmployeeService) UpdateAdminProfile(ctx context.Context, session auth.Session, req employee.UpdateAdminProfileRequest) (employee.AdminProfileResponse, error) {
	return s.updateAdmin(ctx, session, req)
}

type testDeps struct {
	auth       auth.AuthService
	attendance attendance.AttendanceService
	summary    summary.SummaryService
	holiday    holiday.HolidayService
	payroll    payroll.PayrollService
	leave      leave.LeaveService
	employee   employee.EmployeeService
	hub        *sse.Hub
	loginLimit int
}

func newTestRouter(t *testing.T, deps testDeps) (*chi.Mux, jwt.Service) {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, "1h", nil)
	require.NoError(t, err)

	if deps.hub == nil {
		deps.hub = sse.NewHub()
	}
	router := NewRouter(
		RouterOptions{Env: "test", AllowedOrigins: []string{"http://localhost:5173"}, AuthLimiter: middleware.NewPerMinuteLimiter(deps.loginLimit)},
		jwtService,
		NewAuthHandler(deps.auth),
		NewAttendanceHandler(deps.attendance, jwtService, deps.hub),
		NewSummaryHandler(deps.summary, deps.payroll),
		NewHolidayHandler(deps.holiday),
		NewPayrollHandler(deps.payroll),
		NewLeaveHandler(deps.leave),
		NewEmployeeHandler(deps.employee),
	)
	return router, jwtService
}

func bearer(t *testing.T, svc jwt.Service, role user.Role) string {
	t.Helper()
	employeeID := testEmployeeID
	token, _, err := svc.GenerateAccessToken("user-"+string(role), string(role)+"@example.com", &employeeID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(router http.Handler, method, target, authz, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestLogin(t *testing.T) {
	router, _ := newTestRouter(t, testDeps{
		loginLimit: 2,
		auth: stubAuthService{login: func(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
			if req.Password != "secret" {
				return auth.LoginResponse{}, auth.ErrInvalidCredentials
			}
			return auth.LoginResponse{Token: "tok", Role: "employee", Email: req.Email}, nil
		}},
	})

	rec := do(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":"Emp@Example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"token":"tok","role":"employee","_id":"","email":"emp@example.com","expiresAt":""}`, string(env.Data))

	rec = do(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":"emp@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":"emp@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLogin_MalformedBody(t *testing.T) {
	router, _ := newTestRouter(t, testDeps{auth: stubAuthService{}})

	rec := do(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":"nope","password":""}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "email")
	assert.Contains(t, env.Error.Details, "password")
}

func TestLogoutRevokesToken(t *testing.T) {
	var jwtService jwt.Service
	router, jwtService := newTestRouter(t, testDeps{
		auth: stubAuthService{logout: func(ctx context.Context, session auth.Session) error {
			jwtService.RevokeToken(ctx, session.Token, session.ExpiresAt)
			return nil
		}},
		employee: stubEmployeeService{},
	})
	authz := bearer(t, jwtService, user.RoleEmployee)

	rec := do(router, http.MethodPost, "/api/v1/auth/logout", authz, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/employee/my-profile", authz, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func (stubEmployeeService) GetMyProfile(ctx context.Context, session auth.Session) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{ID: session.EmployeeID}, nil
}

func TestAttendanceTransition(t *testing.T) {
	var gotAction attendance.Action
	router, jwtService := newTestRouter(t, testDeps{
		attendance: stubAttendanceService{transition: func(ctx context.Context, session auth.Session, action attendance.Action) (attendance.TransitionResponse, error) {
			gotAction = action
			if action == attendance.ActionCheckOut {
				return attendance.TransitionResponse{}, attendance.ErrCheckoutDuringRecess
			}
			return attendance.TransitionResponse{
				Action: action,
				Record: attendance.RecordResponse{EmployeeID: session.EmployeeID, Status: attendance.StatusCheckedIn, StatusLabel: "Checked In"},
			}, nil
		}},
	})
	authz := bearer(t, jwtService, user.RoleEmployee)

	t.Run("applies the action", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/api/v1/attendance/checkin", authz, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, attendance.ActionCheckIn, gotAction)
		assert.Equal(t, "Checked In", decode(t, rec).Message)
	})

	t.Run("invalid transition is a conflict", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/api/v1/attendance/checkout", authz, "")
		require.Equal(t, http.StatusConflict, rec.Code)
		env := decode(t, rec)
		assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)
		assert.Contains(t, env.Error.Message, "end your recess")
	})

	t.Run("unknown action", func(t *testing.T) {
		gotAction = ""
		rec := do(router, http.MethodPost, "/api/v1/attendance/lunch", authz, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, gotAction)
	})

	t.Run("requires a token", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/api/v1/attendance/checkin", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDailyReport_AdminOnly(t *testing.T) {
	var gotDate time.Time
	router, jwtService := newTestRouter(t, testDeps{
		summary: stubSummaryService{daily: func(ctx context.Context, q summary.DateQuery) (summary.DailyReportResponse, error) {
			if err := q.Validate(); err != nil {
				return summary.DailyReportResponse{}, err
			}
			gotDate = q.Parsed
			return summary.DailyReportResponse{Date: q.Date, Rows: []summary.DailyRow{}}, nil
		}},
	})

	rec := do(router, http.MethodGet, "/api/v1/attendance-summary/date?date=2024-03-05", bearer(t, jwtService, user.RoleEmployee), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := bearer(t, jwtService, user.RoleAdmin)
	rec = do(router, http.MethodGet, "/api/v1/attendance-summary/date?date=05-03-2024", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), gotDate)

	rec = do(router, http.MethodGet, "/api/v1/attendance-summary/date?date=2024-13-40", admin, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMonthlyExport(t *testing.T) {
	router, jwtService := newTestRouter(t, testDeps{
		summary: stubSummaryService{export: func(ctx context.Context, session auth.Session, q summary.MonthQuery) (summary.ExportFile, error) {
			assert.Equal(t, "3", q.Month)
			assert.Equal(t, "2024", q.Year)
			return summary.ExportFile{Name: "attendance.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Content: []byte("PK")}, nil
		}},
	})

	rec := do(router, http.MethodGet, "/api/v1/attendance-summary/monthly/export?month=3&year=2024", bearer(t, jwtService, user.RoleEmployee), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="attendance.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", rec.Body.String())
}

func TestUpsertSalary(t *testing.T) {
	router, jwtService := newTestRouter(t, testDeps{
		payroll: stubPayrollService{upsert: func(ctx context.Context, req payroll.UpsertSalaryRequest) (payroll.SalaryResponse, error) {
			if err := req.Validate(); err != nil {
				return payroll.SalaryResponse{}, err
			}
			total := req.BaseSalary.Add(req.Bonuses).Sub(req.Deductions)
			return payroll.SalaryResponse{EmployeeID: req.EmployeeID, BaseSalary: req.BaseSalary, TotalSalary: total}, nil
		}},
	})
	admin := bearer(t, jwtService, user.RoleAdmin)
	body := `{"employeeId":"` + testEmployeeID + `","baseSalary":"3100.50","bonuses":200,"deductions":"0"}`

	rec := do(router, http.MethodPatch, "/api/v1/salary", admin, body)
	require.Equal(t, http.StatusOK, rec.Code)
	var got payroll.SalaryResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.True(t, got.TotalSalary.Equal(decimal.RequireFromString("3300.5")))

	rec = do(router, http.MethodPatch, "/api/v1/salary", bearer(t, jwtService, user.RoleEmployee), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodPatch, "/api/v1/salary", admin, `{"employeeId":"`+testEmployeeID+`","baseSalary":"-1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateLeaveStatus_AlreadyProcessed(t *testing.T) {
	router, jwtService := newTestRouter(t, testDeps{
		leave: stubLeaveService{updateStatus: func(ctx context.Context, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
			assert.Equal(t, "leave-1", id)
			return leave.LeaveResponse{}, leave.ErrLeaveRequestAlreadyProcessed
		}},
	})

	rec := do(router, http.MethodPatch, "/api/v1/leaves/update/leave-1", bearer(t, jwtService, user.RoleAdmin), `{"status":"approved"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAttendanceStream(t *testing.T) {
	hub := sse.NewHub()
	router, jwtService := newTestRouter(t, testDeps{hub: hub})

	rec := do(router, http.MethodGet, "/api/v1/attendance/stream-token", bearer(t, jwtService, user.RoleEmployee), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok attendance.StreamTokenResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tok))
	assert.Equal(t, sse.TopicForEmployee(testEmployeeID), tok.Topic)

	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/attendance/stream?token="+tok.Token, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)
	_, _ = reader.ReadString('\n') // data
	_, _ = reader.ReadString('\n') // blank

	hub.Publish(tok.Topic, sse.Event{Event: "checkin", Data: map[string]string{"status": "checked_in"}})

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: checkin\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "data: {\"status\":\"checked_in\"}\n", line)
}

func TestAttendanceStream_RejectsAccessToken(t *testing.T) {
	router, jwtService := newTestRouter(t, testDeps{})
	access := strings.TrimPrefix(bearer(t, jwtService, user.RoleEmployee), "Bearer ")

	rec := do(router, http.MethodGet, "/api/v1/attendance/stream?token="+access, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccountRoutes(t *testing.T) {
	var confirmed auth.CodeRequest
	router, _ := newTestRouter(t, testDeps{
		auth: stubAuthService{
			register: func(ctx context.Context, req auth.RegisterRequest) (auth.CodeSentResponse, error) {
				if req.Email == "taken@example.com" {
					return auth.CodeSentResponse{}, user.ErrEmailAlreadyExists
				}
				return auth.CodeSentResponse{Email: req.Email, ExpiresAt: "2024-03-05T09:10:00Z"}, nil
			},
			confirm: func(ctx context.Context, req auth.CodeRequest) error {
				confirmed = req
				if req.OTP != "123456" {
					return auth.ErrInvalidOTP
				}
				return nil
			},
			forgot: func(ctx context.Context, req auth.ForgotPasswordRequest) (auth.CodeSentResponse, error) {
				return auth.CodeSentResponse{Email: req.Email}, nil
			},
			verify: func(ctx context.Context, req auth.CodeRequest) error {
				return auth.ErrOTPAttemptsExceeded
			},
			reset: func(ctx context.Context, req auth.ResetPasswordRequest) error {
				return auth.ErrResetNotVerified
			},
		},
	})

	rec := do(router, http.MethodPost, "/api/v1/auth/register", "", `{"name":"Asha","email":"asha@example.com","password":"Secret1!"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"email":"asha@example.com","expiresAt":"2024-03-05T09:10:00Z"}`, string(decode(t, rec).Data))

	rec = do(router, http.MethodPost, "/api/v1/auth/register", "", `{"name":"Bima","email":"taken@example.com","password":"Secret1!"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/confirm-registration", "", `{"email":"asha@example.com","otp":"123456"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "123456", confirmed.OTP)

	rec = do(router, http.MethodPost, "/api/v1/auth/confirm-registration", "", `{"email":"asha@example.com","otp":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/forgot-password", "", `{"email":"ghost@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/verify-otp", "", `{"email":"asha@example.com","otp":"111111"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/reset-password", "", `{"email":"asha@example.com","password":"Secret2!"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodPost, "/api/v1/auth/register", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountRoutes_ShareRateLimit(t *testing.T) {
	router, _ := newTestRouter(t, testDeps{
		loginLimit: 1,
		auth: stubAuthService{forgot: func(ctx context.Context, req auth.ForgotPasswordRequest) (auth.CodeSentResponse, error) {
			return auth.CodeSentResponse{Email: req.Email}, nil
		}},
	})

	rec := do(router, http.MethodPost, "/api/v1/auth/forgot-password", "", `{"email":"a@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(router, http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@example.com","password":"x"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestEmployeeProfileRoutes(t *testing.T) {
	phone := "0812345678"
	router, jwtService := newTestRouter(t, testDeps{
		employee: stubEmployeeService{
			find: func(ctx context.Context, q employee.FindQuery) ([]employee.EmployeeResponse, error) {
				return []employee.EmployeeResponse{{ID: "e1", FullName: q.Name}}, nil
			},
			updateMine: func(ctx context.Context, session auth.Session, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
				require.NotNil(t, req.PhoneNumber)
				return employee.EmployeeResponse{ID: session.EmployeeID, PhoneNumber: req.PhoneNumber}, nil
			},
			update: func(ctx context.Context, id string, req employee.AdminUpdateRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
			},
			getAdmin: func(ctx context.Context, session auth.Session) (employee.AdminProfileResponse, error) {
				return employee.AdminProfileResponse{ID: session.UserID, Name: "Root", Email: session.Email, PhoneNumber: &phone, Role: "admin"}, nil
			},
		},
	})
	admin := bearer(t, jwtService, user.RoleAdmin)
	staff := bearer(t, jwtService, user.RoleEmployee)

	rec := do(router, http.MethodGet, "/api/v1/employee/find?name=asha", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"e1","userId":null,"fullName":"asha","email":"","position":null,"phoneNumber":null,"address":null,"dateOfBirth":null,"joinDate":"","predefinedCheckIn":""}]`, string(decode(t, rec).Data))

	rec = do(router, http.MethodGet, "/api/v1/employee/find?name=asha", staff, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodPatch, "/api/v1/employee/update", staff, `{"phoneNumber":"0812345678"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodPatch, "/api/v1/employee/update/missing", admin, `{"joinDate":"2024-01-01"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodGet, "/api/v1/adminProfile/get-profile", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Admin employee.AdminProfileResponse `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Equal(t, "Root", data.Admin.Name)
	assert.Equal(t, "admin@example.com", data.Admin.Email)

	rec = do(router, http.MethodGet, "/api/v1/adminProfile/get-profile", staff, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLeavesForEmployee(t *testing.T) {
	router, jwtService := newTestRouter(t, testDeps{
		leave: stubLeaveService{listForEmployee: func(ctx context.Context, session auth.Session, employeeID string) ([]leave.LeaveResponse, error) {
			if employeeID == "" {
				employeeID = session.EmployeeID
			}
			return []leave.LeaveResponse{{ID: "l1", EmployeeID: employeeID}}, nil
		}},
	})

	rec := do(router, http.MethodGet, "/api/v1/leaves/employee-leaves/e42", bearer(t, jwtService, user.RoleAdmin), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []leave.LeaveResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "e42", got[0].EmployeeID)

	rec = do(router, http.MethodGet, "/api/v1/leaves/employee-leaves", bearer(t, jwtService, user.RoleEmployee), "")
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &got))
	assert.Equal(t, testEmployeeID, got[0].EmployeeID)
}

func TestAttendanceStream_EndsOnShutdown(t *testing.T) {
	hub := sse.NewHub()
	router, jwtService := newTestRouter(t, testDeps{hub: hub})

	rec := do(router, http.MethodGet, "/api/v1/attendance/stream-token", bearer(t, jwtService, user.RoleEmployee), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok attendance.StreamTokenResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tok))

	server := httptest.NewUnstartedServer(router)
	server.Config.RegisterOnShutdown(hub.Close)
	server.Start()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/attendance/stream?token=" + tok.Token)
	require.NoError(t, err)
	defer resp.Body.Close()
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "event: connected\n", line)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	assert.NoError(t, server.Config.Shutdown(ctx))
}
