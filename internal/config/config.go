package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config aggregates every setting of the service.
type Config struct {
	Server  ServerConfig
	Chat    ChatConfig
	Theme   ThemeConfig
	NavFile string `env:"GURU_NAV_FILE"`
	Log     LogConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	Addr         string
	DevMode      bool          `env:"GURU_DEV" envDefault:"false"`
	CORSOrigins  []string      `env:"GURU_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	SSEHeartbeat time.Duration `env:"GURU_SSE_HEARTBEAT" envDefault:"15s"`
}

// ChatConfig describes transcript mounts.
type ChatConfig struct {
	BotReply      string        `env:"GURU_BOT_REPLY"`
	IdleTTL       time.Duration `env:"GURU_SESSION_IDLE_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"GURU_SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

// ThemeConfig feeds theme.NewProvider.
type ThemeConfig struct {
	Default      string   `env:"GURU_THEME_DEFAULT" envDefault:"system"`
	Themes       []string `env:"GURU_THEMES" envSeparator:"," envDefault:"orange,dark,light"`
	EnableSystem bool     `env:"GURU_THEME_ENABLE_SYSTEM" envDefault:"true"`
}

// LogConfig selects the zap level.
type LogConfig struct {
	Level string `env:"GURU_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := listenAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if cfg.Chat.IdleTTL <= 0 {
		cfg.Chat.IdleTTL = 30 * time.Minute
	}
	if cfg.Chat.SweepInterval <= 0 {
		cfg.Chat.SweepInterval = time.Minute
	}
	if cfg.Server.SSEHeartbeat < time.Second {
		cfg.Server.SSEHeartbeat = 15 * time.Second
	}

	return &cfg, nil
}

// listenAddr accepts "8080", ":8080" or "127.0.0.1:8080".
func listenAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// NewLogger builds the process logger. Dev mode switches to the console encoder.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid GURU_LOG_LEVEL %q: %w", c.Log.Level, err)
	}

	zc := zap.NewProductionConfig()
	if c.Server.DevMode {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
