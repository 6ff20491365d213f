package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding the database and config file.
const DirName = ".timetracker"

// Config defines application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Report    ReportConfig    `yaml:"report"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path sends logs to a size-capped file instead of stderr.
	Path string `yaml:"path"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http".
	Mode string `yaml:"mode"`
}

type AuthConfig struct {
	// Token enables bearer-token auth on the HTTP transport when set.
	Token string `yaml:"token"`
}

type ReportConfig struct {
	// Timezone is an IANA name; empty means the machine's local zone.
	Timezone  string `yaml:"timezone"`
	ExportDir string `yaml:"export_dir"`
}

// Default returns the built-in configuration rooted at home.
func Default(home string) Config {
	dir := filepath.Join(home, DirName)
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		DB: DBConfig{
			Path: filepath.Join(dir, "timetracker.db"),
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Report: ReportConfig{
			ExportDir: home,
		},
	}
}

// LoadEnvFile loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg := Default(home)

	path := os.Getenv("TIMETRACK_CONFIG_PATH")
	if path == "" {
		candidate := filepath.Join(home, DirName, "config.yml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("TIMETRACK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("TIMETRACK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TIMETRACK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("TIMETRACK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("TIMETRACK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("TIMETRACK_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("TIMETRACK_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if token := os.Getenv("TIMETRACK_AUTH_TOKEN"); token != "" {
		cfg.Auth.Token = token
	}
	if tz := os.Getenv("TIMETRACK_TIMEZONE"); tz != "" {
		cfg.Report.Timezone = tz
	}
	if dir := os.Getenv("TIMETRACK_EXPORT_DIR"); dir != "" {
		cfg.Report.ExportDir = dir
	}

	cfg.DB.Path = expandHome(cfg.DB.Path, home)
	cfg.Log.Path = expandHome(cfg.Log.Path, home)
	cfg.Report.ExportDir = expandHome(cfg.Report.ExportDir, home)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the reporting time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Report.Timezone == "" || strings.EqualFold(c.Report.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Report.Timezone, err)
	}
	return loc, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
