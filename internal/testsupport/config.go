package testsupport

import (
	"path/filepath"
	"testing"

	"callscribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Retries are instant so failure paths stay fast.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.LLM.RetryDelayMS = 0
	cfgVal.LLM.TimeoutSeconds = 5
	cfgVal.Server.Bind = "127.0.0.1:17490"
	cfgVal.Batch.ProgressEvery = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithLLMEndpoint points the config at a test chat-completions endpoint.
func WithLLMEndpoint(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithCatalogRows writes a catalog CSV (header plus main,sub rows) under the
// temp directory and points the config at it.
func WithCatalogRows(rows ...[2]string) ConfigOption {
	return func(b *configBuilder) {
		records := [][]string{{"category_name", "sub_category_name"}}
		for _, row := range rows {
			records = append(records, []string{row[0], row[1]})
		}
		path := filepath.Join(b.baseDir, "categories.csv")
		WriteCSV(b.t, path, records)
		b.cfg.Catalog.Path = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
