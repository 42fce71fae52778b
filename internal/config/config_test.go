package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Password: "secret"},
		JWT:      JWTConfig{Secret: "jwt", AccessExpiration: "1h"},
		App:      AppConfig{Timezone: "Asia/Kolkata"},
		Policy: PolicyConfig{
			HalfDayThreshold:    4 * time.Hour,
			MaxSelectedHolidays: 10,
			LateDeduction:       "allowance",
			LateFreeIncidents:   3,
			OTPLifetime:         10 * time.Minute,
			OTPMaxAttempts:      5,
			PasswordResetWindow: 15 * time.Minute,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(c *Config){
		"missing db password": func(c *Config) { c.Database.Password = "" },
		"missing jwt secret":  func(c *Config) { c.JWT.Secret = "" },
		"bad expiration":      func(c *Config) { c.JWT.AccessExpiration = "soon" },
		"bad timezone":        func(c *Config) { c.App.Timezone = "Mars/Olympus" },
		"zero threshold":      func(c *Config) { c.Policy.HalfDayThreshold = 0 },
		"zero holiday limit":  func(c *Config) { c.Policy.MaxSelectedHolidays = 0 },
		"unknown late policy": func(c *Config) { c.Policy.LateDeduction = "tiered" },
		"zero otp lifetime":   func(c *Config) { c.Policy.OTPLifetime = 0 },
		"zero otp attempts":   func(c *Config) { c.Policy.OTPMaxAttempts = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")
	t.Setenv("POLICY_HALF_DAY_THRESHOLD", "3h30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Hour+30*time.Minute, cfg.Policy.HalfDayThreshold)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	assert.Equal(t, 10*time.Minute, cfg.Policy.OTPLifetime)
	assert.Empty(t, cfg.SMTP.Host)
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/hris-attendance?sslmode=disable", cfg.DatabaseURL())
}
