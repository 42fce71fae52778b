package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Policy   PolicyConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// RedisConfig is optional; an empty Addr disables idempotency keys.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SMTPConfig holds outgoing mail settings. An empty Host logs mails
// instead of sending them.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// PolicyConfig holds the attendance and payroll rules that vary per deployment.
type PolicyConfig struct {
	HalfDayThreshold      time.Duration
	DefaultCheckIn        string
	MaxSelectedHolidays   int
	LateDeduction         string
	LateFreeIncidents     int
	LateAmount            string
	LateDailyFraction     string
	LatePerMinuteRate     string
	LoginRequestsPerMin   int
	IdempotencyKeyTTL     time.Duration
	RevokedTokenPruneEach time.Duration
	OTPLifetime           time.Duration
	OTPMaxAttempts        int
	PasswordResetWindow   time.Duration
	IdleLimiterAfter      time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment only")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName: getEnv("SMTP_FROM_NAME", "HRIS Attendance"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	// Attendance & payroll policy
	halfDay, err := time.ParseDuration(getEnv("POLICY_HALF_DAY_THRESHOLD", "4h"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLICY_HALF_DAY_THRESHOLD: %w", err)
	}
	maxHolidays, err := strconv.Atoi(getEnv("POLICY_MAX_SELECTED_HOLIDAYS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLICY_MAX_SELECTED_HOLIDAYS: %w", err)
	}
	freeIncidents, err := strconv.Atoi(getEnv("POLICY_LATE_FREE_INCIDENTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLICY_LATE_FREE_INCIDENTS: %w", err)
	}
	loginRate, err := strconv.Atoi(getEnv("LOGIN_REQUESTS_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOGIN_REQUESTS_PER_MINUTE: %w", err)
	}
	idemTTL, err := time.ParseDuration(getEnv("IDEMPOTENCY_KEY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_KEY_TTL: %w", err)
	}
	otpLifetime, err := time.ParseDuration(getEnv("OTP_LIFETIME", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_LIFETIME: %w", err)
	}
	otpAttempts, err := strconv.Atoi(getEnv("OTP_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_MAX_ATTEMPTS: %w", err)
	}
	resetWindow, err := time.ParseDuration(getEnv("PASSWORD_RESET_WINDOW", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PASSWORD_RESET_WINDOW: %w", err)
	}

	config.Policy = PolicyConfig{
		HalfDayThreshold:      halfDay,
		DefaultCheckIn:        getEnv("POLICY_DEFAULT_CHECKIN", "09:00"),
		MaxSelectedHolidays:   maxHolidays,
		LateDeduction:         getEnv("POLICY_LATE_DEDUCTION", "allowance"),
		LateFreeIncidents:     freeIncidents,
		LateAmount:            getEnv("POLICY_LATE_AMOUNT", "0"),
		LateDailyFraction:     getEnv("POLICY_LATE_DAILY_FRACTION", "0.5"),
		LatePerMinuteRate:     getEnv("POLICY_LATE_PER_MINUTE_RATE", "0"),
		LoginRequestsPerMin:   loginRate,
		IdempotencyKeyTTL:     idemTTL,
		RevokedTokenPruneEach: time.Hour,
		OTPLifetime:           otpLifetime,
		OTPMaxAttempts:        otpAttempts,
		PasswordResetWindow:   resetWindow,
		IdleLimiterAfter:      10 * time.Minute,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return errors.New("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	if c.Policy.HalfDayThreshold <= 0 {
		return errors.New("POLICY_HALF_DAY_THRESHOLD must be positive")
	}
	if c.Policy.MaxSelectedHolidays <= 0 {
		return errors.New("POLICY_MAX_SELECTED_HOLIDAYS must be positive")
	}
	if c.Policy.LateFreeIncidents < 0 {
		return errors.New("POLICY_LATE_FREE_INCIDENTS must not be negative")
	}
	if c.Policy.OTPLifetime <= 0 || c.Policy.PasswordResetWindow <= 0 {
		return errors.New("OTP_LIFETIME and PASSWORD_RESET_WINDOW must be positive")
	}
	if c.Policy.OTPMaxAttempts <= 0 {
		return errors.New("OTP_MAX_ATTEMPTS must be positive")
	}
	switch c.Policy.LateDeduction {
	case "none", "flat", "allowance", "per_minute":
	default:
		return fmt.Errorf("POLICY_LATE_DEDUCTION %q is not one of none, flat, allowance, per_minute", c.Policy.LateDeduction)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the business timezone; Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
