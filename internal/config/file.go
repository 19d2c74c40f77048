package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Durations and levels are strings so the
// YAML and JSONC forms read the same.
type fileConfig struct {
	APIBaseURL           string `yaml:"api_base_url" json:"api_base_url"`
	RequestTimeout       string `yaml:"request_timeout" json:"request_timeout"`
	Days                 *int   `yaml:"days" json:"days"`
	DesktopNotifications *bool  `yaml:"desktop_notifications" json:"desktop_notifications"`
	LogLevel             string `yaml:"log_level" json:"log_level"`
	LogFile              string `yaml:"log_file" json:"log_file"`
	Server               struct {
		Addr           string   `yaml:"addr" json:"addr"`
		DatabasePath   string   `yaml:"database_path" json:"database_path"`
		AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	} `yaml:"server" json:"server"`
}

// LoadFile overlays the file at path on base. Files ending in .json or
// .jsonc are read as JSON with comments; anything else as YAML.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	default:
		err = yaml.Unmarshal(data, &fc)
	}
	if err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc.apply(base)
}

func (fc fileConfig) apply(base Config) (Config, error) {
	cfg := base
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = strings.TrimSpace(fc.APIBaseURL)
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return base, fmt.Errorf("%w: request_timeout %q", ErrInvalidConfig, fc.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}
	if fc.Days != nil {
		cfg.Days = *fc.Days
	}
	if fc.DesktopNotifications != nil {
		cfg.DesktopNotifications = *fc.DesktopNotifications
	}
	if fc.LogLevel != "" {
		level, err := ParseLevel(fc.LogLevel)
		if err != nil {
			return base, err
		}
		cfg.LogLevel = level
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.Server.Addr != "" {
		cfg.Server.Addr = fc.Server.Addr
	}
	if fc.Server.DatabasePath != "" {
		cfg.Server.DatabasePath = fc.Server.DatabasePath
	}
	if len(fc.Server.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = fc.Server.AllowedOrigins
	}
	return cfg, nil
}
