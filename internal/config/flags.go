package config

import (
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Flags binds command-line overrides to a flag set. Only flags the user
// actually set override file and environment values.
type Flags struct {
	fs         *pflag.FlagSet
	configPath string
	apiURL     string
	timeout    time.Duration
	days       int
	desktop    bool
	logLevel   string
	logFile    string
	addr       string
	dbPath     string
	origins    []string
}

func newFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.configPath, "config", "", "path to a YAML or JSONC config file (env CALLDESK_CONFIG)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	return f
}

// AddClientFlags registers the flags of the terminal client.
func AddClientFlags(fs *pflag.FlagSet) *Flags {
	f := newFlags(fs)
	fs.StringVar(&f.apiURL, "api-url", "", "API base URL (default "+DefaultAPIBaseURL+")")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-request timeout")
	fs.IntVar(&f.days, "days", 0, "initial call list window in days (1-30)")
	fs.BoolVar(&f.desktop, "desktop-notifications", false, "mirror notifications to the desktop")
	fs.StringVar(&f.logFile, "log-file", "", "write JSON logs to this file")
	return f
}

// AddServerFlags registers the flags of the reference API server.
func AddServerFlags(fs *pflag.FlagSet) *Flags {
	f := newFlags(fs)
	fs.StringVar(&f.addr, "addr", "", "listen address (default "+DefaultServerAddr+")")
	fs.StringVar(&f.dbPath, "db", "", "SQLite database path (default "+DefaultDBPath+")")
	fs.StringSliceVar(&f.origins, "allowed-origin", nil, "CORS allowed origin, repeatable")
	return f
}

// Load resolves defaults, the config file, the environment and the flags,
// in that order, and validates the result.
func (f *Flags) Load() (Config, error) {
	cfg := Default()
	path := f.configPath
	if path == "" {
		path = os.Getenv("CALLDESK_CONFIG")
	}
	if path != "" {
		var err error
		if cfg, err = LoadFile(path, cfg); err != nil {
			return Config{}, err
		}
	}
	cfg = FromEnv(cfg)

	changed := f.fs.Changed
	if changed("api-url") {
		cfg.APIBaseURL = f.apiURL
	}
	if changed("timeout") {
		cfg.RequestTimeout = f.timeout
	}
	if changed("days") {
		cfg.Days = f.days
	}
	if changed("desktop-notifications") {
		cfg.DesktopNotifications = f.desktop
	}
	if changed("log-level") {
		level, err := ParseLevel(f.logLevel)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if changed("db") {
		cfg.Server.DatabasePath = f.dbPath
	}
	if changed("allowed-origin") {
		cfg.Server.AllowedOrigins = f.origins
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
