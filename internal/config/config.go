package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Oracle backends.
const (
	OracleSAT    = "sat"
	OracleRemote = "remote"
	OracleMock   = "mock"
)

// Narrative providers.
const (
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config is the full runtime configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Oracle  Oracle  `yaml:"oracle"`
	WhatIf  WhatIf  `yaml:"whatif"`
	Explain Explain `yaml:"explain"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
}

// Storage locates the run database.
type Storage struct {
	Path string `yaml:"path" validate:"required"`
}

// Oracle selects and tunes the solver backend.
type Oracle struct {
	Type string `yaml:"type" validate:"required,oneof=sat remote mock"`
	URL  string `yaml:"url" validate:"required_if=Type remote,omitempty,url"`

	// Timeout bounds one remote call. Zero keeps the client default.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// MaxSteps caps the SAT oracle's objective search.
	MaxSteps int `yaml:"max_steps" validate:"gte=0"`

	// Primary solves retry transport failures.
	SolveRetries int           `yaml:"solve_retries" validate:"gte=0,lte=10"`
	SolveBackoff time.Duration `yaml:"solve_backoff" validate:"gte=0"`
}

// WhatIf tunes the what-if orchestrator. Retries default to zero.
type WhatIf struct {
	Retries int           `yaml:"retries" validate:"gte=0,lte=10"`
	Backoff time.Duration `yaml:"backoff" validate:"gte=0"`

	// Timeout bounds one what-if oracle call. Zero means none.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// Explain configures the optional narrative.
type Explain struct {
	Provider    string  `yaml:"provider" validate:"oneof=gemini none"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gte=0"`
	APIKey      string  `yaml:"api_key"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Logging selects the slog handler.
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: Storage{Path: "whatif.db"},
		Oracle: Oracle{
			Type:         OracleSAT,
			SolveRetries: 2,
			SolveBackoff: time.Second,
		},
		WhatIf: WhatIf{Backoff: time.Second},
		Explain: Explain{
			Provider:    ProviderNone,
			Model:       "gemini-2.5-flash",
			Temperature: 0.3,
			MaxTokens:   1024,
		},
		Server:  Server{Addr: ":8080"},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and the environment. A missing .env file is ignored.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("WHATIF_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := getenv("WHATIF_ORACLE"); v != "" {
		c.Oracle.Type = strings.ToLower(v)
	}
	if v := getenv("WHATIF_ORACLE_URL"); v != "" {
		c.Oracle.URL = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.Explain.APIKey = v
	}
	if v := getenv("WHATIF_LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := getenv("WHATIF_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError lists every invalid field.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Fields, "; ")
}

// Validate checks field constraints and collects every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %v", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// Logger builds a slog logger writing to w.
func (l Logging) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (l Logging) level() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
