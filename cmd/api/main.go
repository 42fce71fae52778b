package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/employee"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-attendance-go/internal/service/payroll"
	summaryService "github.com/cmlabs-hris/hris-attendance-go/internal/service/summary"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.App.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	defaultCheckIn, err := timeutil.ParseTimeOfDay(cfg.Policy.DefaultCheckIn)
	if err != nil {
		log.Fatal("Invalid POLICY_DEFAULT_CHECKIN: ", err)
	}
	latePolicy, err := payroll.NewLatePolicy(payroll.LatePolicyConfig{
		Name:          cfg.Policy.LateDeduction,
		FreeIncidents: cfg.Policy.LateFreeIncidents,
		Amount:        cfg.Policy.LateAmount,
		DailyFraction: cfg.Policy.LateDailyFraction,
		PerMinuteRate: cfg.Policy.LatePerMinuteRate,
	})
	if err != nil {
		log.Fatal("Invalid late deduction policy: ", err)
	}
	loc := cfg.Location()

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db, defaultCheckIn)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	salaryRepo := postgresql.NewSalaryRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	codeRepo := postgresql.NewOneTimeCodeRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, postgresql.NewRevokedTokenRepository(db))
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}
	mailer, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	if cfg.SMTP.Host == "" {
		slog.Warn("SMTP_HOST not set, verification and reset codes will not be mailed")
	}
	hub := sse.NewHub()

	authSvc := serviceAuth.NewAuthService(
		transactor,
		userRepo,
		employeeRepo,
		codeRepo,
		JWTService,
		mailer,
		serviceAuth.AccountPolicy{
			CodeLifetime:    cfg.Policy.OTPLifetime,
			CodeMaxAttempts: cfg.Policy.OTPMaxAttempts,
			ResetWindow:     cfg.Policy.PasswordResetWindow,
			DefaultCheckIn:  defaultCheckIn,
		},
		loc,
		time.Now,
	)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, employeeRepo, hub, loc, time.Now)
	holidaySvc := holidayService.NewHolidayService(transactor, holidayRepo, employeeRepo, cfg.Policy.MaxSelectedHolidays, loc, time.Now)
	summarySvc := summaryService.NewSummaryService(
		attendanceRepo,
		holidayRepo,
		employeeRepo,
		summary.Policy{HalfDayThreshold: cfg.Policy.HalfDayThreshold},
		loc,
		time.Now,
	)
	payrollSvc := payrollService.NewPayrollService(
		salaryRepo,
		employeeRepo,
		attendanceRepo,
		summarySvc,
		payroll.NewEngine(latePolicy),
		loc,
	)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, employeeRepo, hub)

	// Idempotency keys are optional
	var rdb redis.Cmdable
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to redis: ", err)
		}
		defer client.Close()
		rdb = client
	} else {
		slog.Warn("REDIS_ADDR not set, Idempotency-Key support disabled")
	}

	authLimiter := middleware.NewPerMinuteLimiter(cfg.Policy.LoginRequestsPerMin)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			AuthLimiter:    authLimiter,
			Redis:          rdb,
			IdempotencyTTL: cfg.Policy.IdempotencyKeyTTL,
		},
		JWTService,
		appHTTP.NewAuthHandler(authSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc, JWTService, hub),
		appHTTP.NewSummaryHandler(summarySvc, payrollSvc),
		appHTTP.NewHolidayHandler(holidaySvc),
		appHTTP.NewPayrollHandler(payrollSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
	)

	scheduler := cron.NewScheduler()
	cron.NewTokenJobs(JWTService, codeRepo).RegisterJobs(scheduler, cfg.Policy.RevokedTokenPruneEach)
	if authLimiter != nil {
		cron.NewRateLimitJobs(cfg.Policy.IdleLimiterAfter, authLimiter).RegisterJobs(scheduler)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Open event streams never go idle on their own
	server.RegisterOnShutdown(hub.Close)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	fmt.Printf("Server running at http://localhost%s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Println("Server error:", err)
	}
}

func logLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
