package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvPrefix is prepended to every environment override key.
const EnvPrefix = "CALLSCRIBE_"

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir" env:"LOG_DIR"`
	StateDir string `toml:"state_dir" env:"STATE_DIR"`
}

// LLM contains the chat endpoint connection and retry settings.
type LLM struct {
	Backend        string `toml:"backend" env:"BACKEND" validate:"oneof=http openai"`
	BaseURL        string `toml:"base_url" env:"BASE_URL" validate:"required,url"`
	Model          string `toml:"model" env:"MODEL" validate:"required"`
	APIKey         string `toml:"api_key" env:"API_KEY"`
	VerifyTLS      bool   `toml:"verify_tls" env:"VERIFY_TLS"`
	MaxAttempts    int    `toml:"max_attempts" env:"MAX_ATTEMPTS" validate:"gte=1,lte=20"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"TIMEOUT_SECONDS" validate:"gte=1"`
	RetryDelayMS   int    `toml:"retry_delay_ms" env:"RETRY_DELAY_MS" validate:"gte=0"`
}

// Input describes how record files are laid out.
type Input struct {
	Layout           string `toml:"layout" env:"LAYOUT" validate:"oneof=columns comma-split"`
	Encoding         string `toml:"encoding" env:"ENCODING"`
	TranscriptColumn int    `toml:"transcript_column" env:"TRANSCRIPT_COLUMN" validate:"gte=0"`
	SummaryColumn    int    `toml:"summary_column" env:"SUMMARY_COLUMN" validate:"gte=0"`
	KeepColumns      int    `toml:"keep_columns" env:"KEEP_COLUMNS" validate:"gte=0"`
}

// Catalog locates the category catalog file.
type Catalog struct {
	Path       string `toml:"path" env:"PATH"`
	MainColumn int    `toml:"main_column" env:"MAIN_COLUMN" validate:"gte=0"`
	SubColumn  int    `toml:"sub_column" env:"SUB_COLUMN" validate:"gte=0"`
}

// Batch contains row processing settings.
type Batch struct {
	Concurrency   int `toml:"concurrency" env:"CONCURRENCY" validate:"gte=1,lte=64"`
	ProgressEvery int `toml:"progress_every" env:"PROGRESS_EVERY" validate:"gte=0"`
}

// Server contains the HTTP API settings.
type Server struct {
	Bind                  string `toml:"bind" env:"BIND" validate:"required,hostname_port"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds" env:"REQUEST_TIMEOUT_SECONDS" validate:"gte=1"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"FORMAT" validate:"oneof=console json"`
	Level  string `toml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
}

// Config encapsulates all configuration values for callscribe.
//
// Configuration sections by subsystem:
//   - Paths: log and state directories
//   - LLM: chat endpoint, model, TLS and retry policy
//   - Input: record file layout and column positions
//   - Catalog: category catalog location
//   - Batch: worker pool size and progress cadence
//   - Server: HTTP API bind address
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths" envPrefix:"PATHS_"`
	LLM     LLM     `toml:"llm" envPrefix:"LLM_"`
	Input   Input   `toml:"input" envPrefix:"INPUT_"`
	Catalog Catalog `toml:"catalog" envPrefix:"CATALOG_"`
	Batch   Batch   `toml:"batch" envPrefix:"BATCH_"`
	Server  Server  `toml:"server" envPrefix:"SERVER_"`
	Logging Logging `toml:"logging" envPrefix:"LOGGING_"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and environment overrides applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, "", false, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("callscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryPath returns the run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "callscribe.log")
}

// RequestTimeout returns the per-request LLM timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// RetryDelay returns the fixed delay between LLM attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.LLM.RetryDelayMS) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
