package config

import "os"

// Default configuration values.
const (
	DefaultListenAddr = ":3001"
)

// Config holds the relay process configuration.
type Config struct {
	// ListenAddr is the address the relay listens on.
	ListenAddr string

	// AllowedOrigin restricts websocket upgrades to one Origin header
	// value. Empty allows all origins.
	AllowedOrigin string

	// LogLevel is the slog level name ("debug", "info", "warn", "error").
	LogLevel string
}

// Options for loading config with CLI flag overrides.
type Options struct {
	ListenAddr    string
	AllowedOrigin string
	LogLevel      string
}

// Load reads configuration with the following priority:
// 1. CLI flags (passed via Options) - highest priority
// 2. Environment variables
// 3. Hardcoded defaults - lowest priority
func Load(opts Options) *Config {
	addr := opts.ListenAddr
	if addr == "" {
		addr = os.Getenv("LISTEN_ADDR")
	}
	if addr == "" {
		addr = DefaultListenAddr
	}

	origin := opts.AllowedOrigin
	if origin == "" {
		origin = os.Getenv("ALLOWED_ORIGIN")
	}

	level := opts.LogLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}

	return &Config{
		ListenAddr:    addr,
		AllowedOrigin: origin,
		LogLevel:      level,
	}
}
