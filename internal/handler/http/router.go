package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

type RouterOptions struct {
	Env            string
	AllowedOrigins []string

	// AuthLimiter throttles the unauthenticated account routes per client
	// IP. Nil disables throttling.
	AuthLimiter *middleware.IPRateLimiter

	// Redis enables Idempotency-Key support on attendance actions when set.
	Redis          redis.Cmdable
	IdempotencyTTL time.Duration
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	summaryHandler SummaryHandler,
	holidayHandler HolidayHandler,
	payrollHandler PayrollHandler,
	leaveHandler LeaveHandler,
	employeeHandler EmployeeHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.ReplayedHeader},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(opts.AuthLimiter))
				r.Post("/login", authHandler.Login)
				r.Post("/register", authHandler.Register)
				r.Post("/confirm-registration", authHandler.ConfirmRegistration)
				r.Post("/forgot-password", authHandler.ForgotPassword)
				r.Post("/verify-otp", authHandler.VerifyOTP)
				r.Post("/reset-password", authHandler.ResetPassword)
			})

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			// Authorized by the short-lived token in the query string
			r.Get("/stream", attendanceHandler.Stream)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/status", attendanceHandler.GetStatus)
				r.Get("/stream-token", attendanceHandler.StreamToken)
				r.With(middleware.Idempotency(opts.Redis, opts.IdempotencyTTL)).Post("/{action}", attendanceHandler.Transition)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			authenticated(r)

			r.Route("/attendance-summary", func(r chi.Router) {
				r.Get("/monthly", summaryHandler.Monthly)
				r.Get("/monthly/export", summaryHandler.MonthlyExport)
				r.Get("/employee-absentee-list", summaryHandler.EmployeeAbsenteeList)
				r.Get("/employee-halfdays-list", summaryHandler.EmployeeHalfDaysList)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/date", summaryHandler.Date)
					r.Get("/absentee-list", summaryHandler.AbsenteeList)
				})
			})

			r.Route("/late-checkins", func(r chi.Router) {
				r.Get("/find", attendanceHandler.FindLateCheckins)
				r.Get("/deduction", payrollHandler.LateDeduction)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/predefined", holidayHandler.ListPredefined)
				r.Get("/selected", holidayHandler.ListSelected)
				r.Get("/selected/{employeeId}", holidayHandler.ListSelected)
				r.Post("/select", holidayHandler.Select)
				r.Post("/custom", holidayHandler.AddCustom)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/add-predefined-holidays", holidayHandler.AddPredefined)
					r.Delete("/delete-predefined-holidays/{id}", holidayHandler.DeletePredefined)
				})
			})

			r.Route("/salary", func(r chi.Router) {
				r.Get("/find/{employeeId}", payrollHandler.FindSalary)
				r.Get("/overview", payrollHandler.Overview)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", payrollHandler.ListSalaries)
					r.Patch("/", payrollHandler.UpsertSalary)
					r.Patch("/{id}", payrollHandler.UpdateSalary)
				})
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/create", leaveHandler.Create)
				r.Get("/employee-leaves", leaveHandler.ListForEmployee)
				r.Get("/employee-leaves/{employeeId}", leaveHandler.ListForEmployee)
				r.Delete("/delete/{id}", leaveHandler.Delete)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/get-all", leaveHandler.ListAll)
					r.Patch("/update/{id}", leaveHandler.UpdateStatus)
				})
			})

			r.Route("/employee", func(r chi.Router) {
				r.Get("/my-profile", employeeHandler.GetMyProfile)
				r.Patch("/update", employeeHandler.UpdateMyProfile)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/all", employeeHandler.ListEmployees)
					r.Get("/find", employeeHandler.FindEmployees)
					r.Get("/find/{id}", employeeHandler.GetEmployee)
					r.Patch("/update/{id}", employeeHandler.UpdateEmployee)
				})
			})

			r.Route("/adminProfile", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/get-profile", employeeHandler.GetAdminProfile)
				r.Patch("/update-profile", employeeHandler.UpdateAdminProfile)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
