package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/shlex"
)

// Config holds service and CLI settings. Layers: defaults < TOML file < env.
type Config struct {
	Port           int           `toml:"port"`
	Environment    string        `toml:"environment"`
	LogLevel       string        `toml:"log_level"`
	Timezone       string        `toml:"timezone"`
	Year           int           `toml:"year"`
	MaxUploadMB    int           `toml:"max_upload_mb"`
	RenderCommand  string        `toml:"render_command"`
	RenderDir      string        `toml:"render_dir"`
	OutputDir      string        `toml:"output_dir"`
	Composition    string        `toml:"composition"`
	RenderTimeout  time.Duration `toml:"-"`
	RenderTimeoutS string        `toml:"render_timeout"`
	ServerURL      string        `toml:"server_url"`
}

func Default() Config {
	return Config{
		Port:          8080,
		Environment:   "local",
		LogLevel:      "info",
		MaxUploadMB:   100,
		RenderCommand: "npx remotion render",
		RenderDir:     "chatwrapped-video",
		Composition:   "ChatWrapped",
		RenderTimeout: 10 * time.Minute,
	}
}

// Load reads the optional TOML file and then the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := configPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
			if cfg.RenderTimeoutS != "" {
				d, err := time.ParseDuration(cfg.RenderTimeoutS)
				if err != nil {
					return cfg, fmt.Errorf("parse render_timeout: %w", err)
				}
				cfg.RenderTimeout = d
			}
		}
	}

	cfg.loadEnv()
	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.RenderDir
	}
	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func configPath() string {
	if p := os.Getenv("CHATWRAPPED_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatwrapped", "config.toml")
}

func (c *Config) loadEnv() {
	c.Port = envInt("PORT", c.Port)
	c.Environment = envStr("ENVIRONMENT", c.Environment)
	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.Timezone = envStr("CHATWRAPPED_TZ", c.Timezone)
	c.Year = envInt("CHATWRAPPED_YEAR", c.Year)
	c.MaxUploadMB = envInt("MAX_UPLOAD_MB", c.MaxUploadMB)
	c.RenderCommand = envStr("RENDER_COMMAND", c.RenderCommand)
	c.RenderDir = envStr("RENDER_DIR", c.RenderDir)
	c.OutputDir = envStr("VIDEO_OUTPUT_DIR", c.OutputDir)
	c.Composition = envStr("RENDER_COMPOSITION", c.Composition)
	c.RenderTimeout = envDuration("RENDER_TIMEOUT", c.RenderTimeout)
	c.ServerURL = envStr("CHATWRAPPED_SERVER", c.ServerURL)
}

// Location resolves Timezone; empty means the process-local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RenderArgs splits RenderCommand the way a shell would.
func (c Config) RenderArgs() ([]string, error) {
	args, err := shlex.Split(c.RenderCommand)
	if err != nil {
		return nil, fmt.Errorf("split render command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("render command is empty")
	}
	return args, nil
}

// MaxUploadBytes is the request body cap for uploads.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
