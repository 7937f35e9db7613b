// Package config loads server configuration from the environment. A .env file
// in the working directory is read first when present; variables already set
// in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// Store drivers.
const (
	DriverMemory    = "memory"
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	JWT      JWTConfig
	Firebase FirebaseConfig
	Auth     AuthConfig
	Log      LogConfig
	Static   StaticConfig
	// Location is the zone calendar days and months are computed in.
	Location *time.Location
}

type ServerConfig struct {
	Port            int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type StoreConfig struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
}

type JWTConfig struct {
	Secret   string
	Duration time.Duration
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// Enabled reports whether a Firebase project is configured.
func (f FirebaseConfig) Enabled() bool {
	return f.ProjectID != ""
}

type AuthConfig struct {
	// SignInRate is the per-email refill rate of sign-in attempts, per second.
	SignInRate  rate.Limit
	SignInBurst int
}

type LogConfig struct {
	Level slog.Level
	JSON  bool
}

type StaticConfig struct {
	Path string
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}
	shutdown, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	jwtDuration, err := time.ParseDuration(getEnv("JWT_DURATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_DURATION: %w", err)
	}
	signInRate, err := strconv.ParseFloat(getEnv("SIGNIN_RATE", "0.2"), 64)
	if err != nil || signInRate <= 0 {
		return nil, fmt.Errorf("invalid SIGNIN_RATE %q", os.Getenv("SIGNIN_RATE"))
	}
	signInBurst, err := strconv.Atoi(getEnv("SIGNIN_BURST", "5"))
	if err != nil || signInBurst <= 0 {
		return nil, fmt.Errorf("invalid SIGNIN_BURST %q", os.Getenv("SIGNIN_BURST"))
	}
	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            port,
			AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
			ShutdownTimeout: shutdown,
		},
		Store: StoreConfig{
			Driver:      strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
			SQLitePath:  getEnv("DB_PATH", "./data/ekkora.db"),
			PostgresDSN: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Duration: jwtDuration,
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Auth: AuthConfig{
			SignInRate:  rate.Limit(signInRate),
			SignInBurst: signInBurst,
		},
		Log: LogConfig{
			Level: level,
			JSON:  strings.EqualFold(getEnv("LOG_FORMAT", "text"), "json"),
		},
		Static: StaticConfig{
			Path: getEnv("STATIC_PATH", "./static"),
		},
		Location: loc,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("DB_PATH is required for the sqlite store")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverFirestore:
		if !c.Firebase.Enabled() {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
