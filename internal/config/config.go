package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/sebuszqo/FinanceControl/internal/database"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
	// DriverMemory keeps everything in process memory; nothing survives a restart.
	DriverMemory = "memory"
)

type Config struct {
	// HTTP Server
	HTTPAddr           string
	CORSAllowedOrigins []string
	CookieSecure       bool

	// Database
	DBDriver           string
	DBConnectionString string

	// Authentication
	RememberMeKey          string
	RememberMeExpiration   time.Duration
	SessionDuration        time.Duration
	SessionCleanupSchedule string
	BcryptCost             int

	// Logging
	LogLevel  string
	LogPretty bool
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, continuing with system environment variables")
	}

	return &Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		CookieSecure:       getEnvBool("COOKIE_SECURE", false),

		DBDriver:           getEnv("DB_DRIVER", DriverPostgres),
		DBConnectionString: getEnv("DB_CONNECTION_STRING", ""),

		RememberMeKey:          getEnv("REMEMBER_ME_KEY", ""),
		RememberMeExpiration:   getEnvDuration("REMEMBER_ME_EXPIRATION", 720*time.Hour),
		SessionDuration:        getEnvDuration("SESSION_DURATION", 30*time.Minute),
		SessionCleanupSchedule: getEnv("SESSION_CLEANUP_SCHEDULE", "@every 10m"),
		BcryptCost:             getEnvInt("BCRYPT_COST", 12),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
	}
}

// Validate returns every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.HTTPAddr == "" {
		errs = append(errs, "HTTP_ADDR cannot be empty")
	}

	validDrivers := []string{DriverPostgres, DriverSQLite, DriverMemory}
	isValidDriver := false
	for _, driver := range validDrivers {
		if c.DBDriver == driver {
			isValidDriver = true
			break
		}
	}
	if !isValidDriver {
		errs = append(errs, fmt.Sprintf("invalid database driver '%s': must be one of %v", c.DBDriver, validDrivers))
	}
	if c.DBDriver != DriverMemory && c.DBConnectionString == "" {
		errs = append(errs, "DB_CONNECTION_STRING is required")
	} else if c.DBDriver == DriverSQLite && database.IsInMemorySQLite(c.DBConnectionString) {
		errs = append(errs, fmt.Sprintf("DB_CONNECTION_STRING '%s': %v", c.DBConnectionString, database.ErrInMemorySQLite))
	}

	if len(c.RememberMeKey) < 32 {
		errs = append(errs, "REMEMBER_ME_KEY is required and must be at least 32 characters")
	}
	if c.RememberMeExpiration < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid remember-me expiration %v: must be at least 1 minute", c.RememberMeExpiration))
	}
	if c.SessionDuration < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid session duration %v: must be at least 1 minute", c.SessionDuration))
	}
	if _, err := cron.ParseStandard(c.SessionCleanupSchedule); err != nil {
		errs = append(errs, fmt.Sprintf("invalid session cleanup schedule '%s': %v", c.SessionCleanupSchedule, err))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("invalid bcrypt cost %d: must be between %d and %d", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
