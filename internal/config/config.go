// Package config loads client and server settings from TOML files.
// Command-line flags override file values in the mains.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvToken is the environment variable consulted when no token is stored
const EnvToken = "KEEPSAKE_TOKEN"

// Client is the ~/.keepsake/client.toml file
type Client struct {
	ServerURL string      `toml:"server_url"`
	DBPath    string      `toml:"db_path"`
	LogLevel  string      `toml:"log_level"`
	Cache     CacheConfig `toml:"cache"`
	Sync      SyncConfig  `toml:"sync"`
}

// CacheConfig configures the collection cache
type CacheConfig struct {
	MaxAge     time.Duration `toml:"max_age"`
	HotEntries int           `toml:"hot_entries"`
}

// SyncConfig configures connectivity probing and queue delivery
type SyncConfig struct {
	ProbeInterval  time.Duration `toml:"probe_interval"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxRetries     int           `toml:"max_retries"`
	// MaxAttempts moves an item to dead after that many failed drains; 0 retries forever
	MaxAttempts    int  `toml:"max_attempts"`
	DrainOnStart   bool `toml:"drain_on_start"`
	DrainOnEnqueue bool `toml:"drain_on_enqueue"`
}

// Server is the server.toml file
type Server struct {
	Addr         string    `toml:"addr"`
	DBPath       string    `toml:"db_path"`
	LogLevel     string    `toml:"log_level"`
	JWTSecret    string    `toml:"jwt_secret"`
	RateLimit    RateLimit `toml:"rate_limit"`
	MaxBlobBytes int64     `toml:"max_blob_bytes"`
}

// RateLimit allows Requests per Window per client IP
type RateLimit struct {
	Requests int           `toml:"requests"`
	Window   time.Duration `toml:"window"`
}

// DefaultClient returns the settings used when no file is present
func DefaultClient() Client {
	return Client{
		ServerURL: "http://localhost:8080",
		DBPath:    "keepsake.db",
		LogLevel:  "info",
		Cache: CacheConfig{
			MaxAge:     24 * time.Hour,
			HotEntries: 64,
		},
		Sync: SyncConfig{
			ProbeInterval:  15 * time.Second,
			RequestTimeout: 30 * time.Second,
			MaxRetries:     3,
			DrainOnStart:   true,
			DrainOnEnqueue: true,
		},
	}
}

// DefaultServer returns the settings used when no file is present
func DefaultServer() Server {
	return Server{
		Addr:         ":8080",
		DBPath:       "keepsake-server.db",
		LogLevel:     "info",
		MaxBlobBytes: 64 << 20,
		RateLimit: RateLimit{
			Requests: 600,
			Window:   time.Minute,
		},
	}
}

// LoadClient reads path over the defaults. An empty path, or a missing file
// when optional is true, yields the defaults.
func LoadClient(path string, optional bool) (Client, error) {
	cfg := DefaultClient()
	if err := decode(path, optional, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadServer reads path over the defaults
func LoadServer(path string, optional bool) (Server, error) {
	cfg := DefaultServer()
	if err := decode(path, optional, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(path string, optional bool, v any) error {
	if path == "" {
		return nil
	}

	md, err := toml.DecodeFile(path, v)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks the client settings
func (c Client) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server_url must be an http(s) URL, got %q", c.ServerURL)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Cache.MaxAge < 0 || c.Sync.ProbeInterval < 0 || c.Sync.RequestTimeout < 0 {
		return fmt.Errorf("durations cannot be negative")
	}
	if c.Sync.MaxAttempts < 0 || c.Sync.MaxRetries < 0 {
		return fmt.Errorf("max_attempts and max_retries cannot be negative")
	}
	return nil
}

// Validate checks the server settings. The JWT secret is checked by the
// server itself because it may come from the environment.
func (s Server) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	if s.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.RateLimit.Requests < 0 || s.RateLimit.Window < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	if s.MaxBlobBytes <= 0 {
		return fmt.Errorf("max_blob_bytes must be positive")
	}
	return nil
}

// ParseLevel converts a log_level value into a slog level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("invalid log_level %q: use debug, info, warn or error", level)
	}
	return l, nil
}

// Save writes cfg to path, creating parent dirs as needed
func Save(path string, cfg any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// DefaultClientPath returns ~/.keepsake/client.toml, or "" when the home
// directory is unknown
func DefaultClientPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".keepsake", "client.toml")
}
