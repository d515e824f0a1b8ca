package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything showroom reads from config.toml.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	BreakerFailures uint32
	BreakerCooldown time.Duration
	StoragePath     string
	LogFile         string
	LogLevel        string
	// RetainOnError keeps showing the last good snapshot after a failed reload.
	RetainOnError bool
}

const (
	defaultConfigPath      = "~/.config/showroom/config.toml"
	defaultAPIBaseURL      = "https://fakestoreapi.com"
	defaultRequestTimeout  = 10 * time.Second
	defaultRateLimitRPS    = 5
	defaultRateLimitBurst  = 5
	defaultBreakerFailures = 3
	defaultBreakerCooldown = 15 * time.Second
	defaultStoragePath     = "~/.local/share/showroom/storage.toml"
	defaultLogFile         = "~/.local/share/showroom/showroom.log"
	defaultLogLevel        = "info"
)

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		APIBaseURL:      defaultAPIBaseURL,
		RequestTimeout:  defaultRequestTimeout,
		RateLimitRPS:    defaultRateLimitRPS,
		RateLimitBurst:  defaultRateLimitBurst,
		BreakerFailures: defaultBreakerFailures,
		BreakerCooldown: defaultBreakerCooldown,
		StoragePath:     mustExpand(defaultStoragePath),
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        defaultLogLevel,
	}
}

type rawConfig struct {
	APIBaseURL      string  `toml:"api_base_url"`
	RequestTimeout  string  `toml:"request_timeout"`
	RateLimitRPS    float64 `toml:"rate_limit_rps"`
	RateLimitBurst  int     `toml:"rate_limit_burst"`
	BreakerFailures int     `toml:"breaker_failures"`
	BreakerCooldown string  `toml:"breaker_cooldown"`
	StoragePath     string  `toml:"storage_path"`
	LogFile         string  `toml:"log_file"`
	LogLevel        string  `toml:"log_level"`
	RetainOnError   bool    `toml:"retain_on_error"`
}

// Load locates and parses the showroom config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Default()

	if base := strings.TrimSpace(raw.APIBaseURL); base != "" {
		u, err := url.Parse(base)
		if err != nil || u.Host == "" {
			return Config{}, fmt.Errorf("parse api_base_url %q: invalid url", base)
		}
		cfg.APIBaseURL = strings.TrimRight(base, "/")
	}

	if d, err := parseDuration("request_timeout", raw.RequestTimeout); err != nil {
		return Config{}, err
	} else if d > 0 {
		cfg.RequestTimeout = d
	}
	if d, err := parseDuration("breaker_cooldown", raw.BreakerCooldown); err != nil {
		return Config{}, err
	} else if d > 0 {
		cfg.BreakerCooldown = d
	}

	if raw.RateLimitRPS > 0 {
		cfg.RateLimitRPS = raw.RateLimitRPS
	}
	if raw.RateLimitBurst > 0 {
		cfg.RateLimitBurst = raw.RateLimitBurst
	}
	if raw.BreakerFailures > 0 {
		cfg.BreakerFailures = uint32(raw.BreakerFailures)
	}

	if p := strings.TrimSpace(raw.StoragePath); p != "" {
		cfg.StoragePath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.LogFile); p != "" {
		cfg.LogFile = mustExpand(p)
	}
	if lvl := strings.ToLower(strings.TrimSpace(raw.LogLevel)); lvl != "" {
		cfg.LogLevel = lvl
	}
	cfg.RetainOnError = raw.RetainOnError

	return cfg, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
