// Package config resolves runtime settings for the calldesk binaries.
//
// Values are layered: built-in defaults, then an optional YAML or JSONC file,
// then CALLDESK_* environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/calldesk/internal/model"
)

const (
	DefaultAPIBaseURL = "http://localhost:8000"
	DefaultTimeout    = 15 * time.Second
	DefaultServerAddr = ":8000"
	DefaultDBPath     = "calldesk.db"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	APIBaseURL           string
	RequestTimeout       time.Duration
	Days                 int
	DesktopNotifications bool
	LogLevel             slog.Level
	LogFile              string
	Server               ServerConfig
}

type ServerConfig struct {
	Addr           string
	DatabasePath   string
	AllowedOrigins []string
}

func Default() Config {
	return Config{
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: DefaultTimeout,
		Days:           model.DefaultDays,
		LogLevel:       slog.LevelInfo,
		Server: ServerConfig{
			Addr:           DefaultServerAddr,
			DatabasePath:   DefaultDBPath,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
	}
}

// FromEnv overlays environment variables on base. Unset or malformed values
// leave the base value in place.
func FromEnv(base Config) Config {
	cfg := base
	if v := firstEnv("CALLDESK_API_BASE_URL", "VITE_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := getEnvDuration("CALLDESK_REQUEST_TIMEOUT"); ok && v > 0 {
		cfg.RequestTimeout = v
	}
	if v, ok := getEnvInt("CALLDESK_DAYS"); ok && model.ValidateDays(v) == nil {
		cfg.Days = v
	}
	if v, ok := getEnvBool("CALLDESK_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvLevel("CALLDESK_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v := firstEnv("CALLDESK_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := firstEnv("CALLDESK_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := firstEnv("CALLDESK_DB_PATH"); v != "" {
		cfg.Server.DatabasePath = v
	}
	if v := firstEnv("CALLDESK_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	return cfg
}

func (c Config) Validate() error {
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: api base url %q", ErrInvalidConfig, c.APIBaseURL)
	}
	if err := model.ValidateDays(c.Days); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	return parseBool(os.Getenv(name))
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvLevel(name string) (slog.Level, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	level, err := ParseLevel(raw)
	if err != nil {
		return 0, false
	}
	return level, true
}

func parseBool(raw string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// ParseLevel accepts slog level names such as "debug" or "warn+2".
func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, raw)
	}
	return level, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
