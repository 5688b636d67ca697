package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Storage selects and configures the persistence backend.
type Storage struct {
	Backend     string
	Path        string
	RedisAddr   string
	RedisPrefix string
}

// Config captures everything the storefront needs at startup.
type Config struct {
	BaseURL      string
	DataDir      string
	LogLevel     string
	LogFile      string
	Storage      Storage
	MetricsAddr  string
	FetchRetries int
}

// Storage backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	defaultConfigPath   = "~/.config/storefront/config.toml"
	defaultDataDir      = "~/.local/share/storefront"
	defaultBaseURL      = "https://fakestoreapi.com"
	defaultLogLevel     = "info"
	defaultRedisAddr    = "127.0.0.1:6379"
	defaultRedisPrefix  = "storefront:"
	defaultFetchRetries = 3
)

type rawStorage struct {
	Backend     string `toml:"backend" yaml:"backend"`
	Path        string `toml:"path" yaml:"path"`
	RedisAddr   string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix" yaml:"redis_prefix"`
}

type rawConfig struct {
	BaseURL      string     `toml:"base_url" yaml:"base_url"`
	DataDir      string     `toml:"data_dir" yaml:"data_dir"`
	LogLevel     string     `toml:"log_level" yaml:"log_level"`
	LogFile      string     `toml:"log_file" yaml:"log_file"`
	Storage      rawStorage `toml:"storage" yaml:"storage"`
	MetricsAddr  string     `toml:"metrics_addr" yaml:"metrics_addr"`
	FetchRetries *int       `toml:"fetch_retries" yaml:"fetch_retries"`
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the storefront config, falling back to defaults
// when the file is missing. Paths ending in .yaml or .yml are read as YAML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		return normalize(raw)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if isYAML(resolved) {
		err = yaml.Unmarshal(bytes, &raw)
	} else {
		err = toml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return normalize(raw)
}

func normalize(raw rawConfig) (Config, error) {
	cfg := Config{
		BaseURL:     orDefault(raw.BaseURL, defaultBaseURL),
		DataDir:     mustExpand(orDefault(raw.DataDir, defaultDataDir)),
		LogLevel:    strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel)),
		MetricsAddr: strings.TrimSpace(raw.MetricsAddr),
	}

	cfg.LogFile = strings.TrimSpace(raw.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "storefront.log")
	} else {
		cfg.LogFile = mustExpand(cfg.LogFile)
	}

	cfg.Storage.Backend = strings.ToLower(orDefault(raw.Storage.Backend, BackendSQLite))
	switch cfg.Storage.Backend {
	case BackendSQLite, BackendFile, BackendRedis, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	cfg.Storage.Path = strings.TrimSpace(raw.Storage.Path)
	switch {
	case cfg.Storage.Path != "":
		cfg.Storage.Path = mustExpand(cfg.Storage.Path)
	case cfg.Storage.Backend == BackendSQLite:
		cfg.Storage.Path = filepath.Join(cfg.DataDir, "store.db")
	case cfg.Storage.Backend == BackendFile:
		cfg.Storage.Path = filepath.Join(cfg.DataDir, "store.toml")
	}
	cfg.Storage.RedisAddr = orDefault(raw.Storage.RedisAddr, defaultRedisAddr)
	cfg.Storage.RedisPrefix = raw.Storage.RedisPrefix
	if cfg.Storage.RedisPrefix == "" {
		cfg.Storage.RedisPrefix = defaultRedisPrefix
	}

	cfg.FetchRetries = defaultFetchRetries
	if raw.FetchRetries != nil {
		cfg.FetchRetries = *raw.FetchRetries
		if cfg.FetchRetries < 0 {
			cfg.FetchRetries = 0
		}
	}

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
