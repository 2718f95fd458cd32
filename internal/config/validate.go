package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("toml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		return describeValidationError(err)
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.Backend == backendOpenAI && c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key must be set when llm.backend is %q (or set %s)", backendOpenAI, openAIAPIKeyEnv)
	}
	return nil
}

func (c *Config) validateInput() error {
	if c.Input.Layout == layoutColumns && c.Input.TranscriptColumn == c.Input.SummaryColumn {
		return errors.New("input.transcript_column and input.summary_column must differ")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.MainColumn == c.Catalog.SubColumn {
		return errors.New("catalog.main_column and catalog.sub_column must differ")
	}
	return nil
}

// describeValidationError reports the first failing field using its TOML key.
func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	fe := verrs[0]
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must be set", key)
	case "url":
		return fmt.Errorf("%s must be an absolute URL (got %q)", key, fmt.Sprint(fe.Value()))
	case "oneof":
		return fmt.Errorf("%s must be one of [%s] (got %q)", key, fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return fmt.Errorf("%s must be >= %s", key, fe.Param())
	case "lte":
		return fmt.Errorf("%s must be <= %s", key, fe.Param())
	case "hostname_port":
		return fmt.Errorf("%s must be host:port (got %q)", key, fmt.Sprint(fe.Value()))
	default:
		return fmt.Errorf("%s failed %q validation", key, fe.Tag())
	}
}
