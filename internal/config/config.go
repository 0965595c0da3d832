package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

type Config struct {
	Addr            string        `env:"ADDR"             envDefault:":8000"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL"    envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	GoogleModel   string `env:"GOOGLE_MODEL"    envDefault:"gemini-2.0-flash"`
	GoogleBaseURL string `env:"GOOGLE_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`

	AllowedOrigins    []string `env:"ALLOWED_ORIGINS"     envDefault:"http://localhost:5173" envSeparator:","`
	RateLimitRPS      float64  `env:"RATE_LIMIT_RPS"      envDefault:"1"`
	RateLimitBurst    int      `env:"RATE_LIMIT_BURST"    envDefault:"5"`
	BodyLimit         string   `env:"BODY_LIMIT"          envDefault:"2M"`
	RejectPersonalIDs bool     `env:"REJECT_PERSONAL_IDS" envDefault:"true"`
}

// LoadConfig reads the optional .env file and then parses the environment.
// Variables already present in the environment win over the file.
func LoadConfig() (Config, error) {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %q: %w", path, err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.AllowedOrigins = trimAll(cfg.AllowedOrigins)
	if cfg.RateLimitRPS < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", cfg.RateLimitRPS)
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", cfg.RateLimitBurst)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, falling back to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
