package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"callscribe/internal/config"
	"callscribe/internal/logging"
	"callscribe/internal/records"
	"callscribe/internal/services"
	"callscribe/internal/services/llm"
	"callscribe/internal/topics"
)

const defaultEnvFile = ".env"

type globalFlags struct {
	configPath string
	envFiles   []string
	logLevel   string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// loadEnvFiles applies --env-file values, or ./.env when it exists. Variables
// already set in the process environment win.
func (c *commandContext) loadEnvFiles() error {
	files := c.flags.envFiles
	if len(files) == 0 {
		if _, err := os.Stat(defaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		files = []string{defaultEnvFile}
	}
	if err := godotenv.Load(files...); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "load env file", strings.Join(files, ", "), err)
	}
	return nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.configPath))
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if level := strings.ToLower(strings.TrimSpace(c.flags.logLevel)); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = services.Wrap(services.ErrConfiguration, "config", "log level override", "", err)
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// llmClient builds a client from the [llm] config section.
func (c *commandContext) llmClient() (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return llm.NewClient(llmConfigFrom(cfg), llm.WithLogger(logger)), nil
}

func llmConfigFrom(cfg *config.Config) llm.Config {
	return llm.Config{
		Backend:     cfg.LLM.Backend,
		Endpoint:    cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		VerifyTLS:   cfg.LLM.VerifyTLS,
		MaxAttempts: cfg.LLM.MaxAttempts,
		Timeout:     cfg.RequestTimeout(),
		RetryDelay:  cfg.RetryDelay(),
	}
}

// loadCatalog reads the catalog from override or catalog.path.
func (c *commandContext) loadCatalog(override string) (*topics.Catalog, string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	path := strings.TrimSpace(override)
	if path == "" {
		path = cfg.Catalog.Path
	}
	if path == "" {
		return nil, "", services.Wrap(services.ErrConfiguration, "catalog", "resolve path", "set catalog.path or pass --catalog", nil)
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, "", services.Wrap(services.ErrConfiguration, "catalog", "resolve path", path, err)
	}
	catalog, err := records.LoadCatalog(expanded, cfg.Input.Encoding, cfg.Catalog.MainColumn, cfg.Catalog.SubColumn)
	if err != nil {
		return nil, "", err
	}
	if catalog.Len() == 0 {
		return nil, "", services.Wrap(services.ErrSchema, "catalog", "load", fmt.Sprintf("%s has no subcategories", expanded), nil)
	}
	return catalog, expanded, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func expandRequiredPath(flag, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", services.Wrap(services.ErrValidation, "cli", "flags", "--"+flag+" is required", nil)
	}
	expanded, err := config.ExpandPath(value)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "cli", "flags", "--"+flag, err)
	}
	return expanded, nil
}
