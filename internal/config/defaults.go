package config

const (
	defaultConfigPath           = "~/.config/callscribe/config.toml"
	defaultLogDir               = "~/.local/share/callscribe/logs"
	defaultStateDir             = "~/.local/share/callscribe"
	defaultLLMBackend           = "http"
	defaultLLMBaseURL           = "http://localhost:4000/v1/chat/completions"
	defaultLLMModel             = "llama3"
	defaultLLMMaxAttempts       = 2
	defaultLLMTimeoutSeconds    = 120
	defaultLLMRetryDelayMS      = 1000
	defaultInputLayout          = "columns"
	defaultTranscriptColumn     = 5
	defaultSummaryColumn        = 6
	defaultKeepColumns          = 6
	defaultCatalogMainColumn    = 0
	defaultCatalogSubColumn     = 1
	defaultBatchConcurrency     = 1
	defaultBatchProgressEvery   = 10
	defaultServerBind           = "127.0.0.1:7490"
	defaultServerRequestTimeout = 300
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	layoutColumns               = "columns"
	backendHTTP                 = "http"
	backendOpenAI               = "openai"
	legacyAPIKeyEnv             = "LLM_API_KEY"
	openAIAPIKeyEnv             = "OPENAI_API_KEY"
)

// Default returns a Config populated with repository defaults.
//
// TLS verification is off by default: the usual deployment target is an
// internal LiteLLM-style gateway with a self-signed certificate.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		LLM: LLM{
			Backend:        defaultLLMBackend,
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			VerifyTLS:      false,
			MaxAttempts:    defaultLLMMaxAttempts,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryDelayMS:   defaultLLMRetryDelayMS,
		},
		Input: Input{
			Layout:           defaultInputLayout,
			TranscriptColumn: defaultTranscriptColumn,
			SummaryColumn:    defaultSummaryColumn,
			KeepColumns:      defaultKeepColumns,
		},
		Catalog: Catalog{
			MainColumn: defaultCatalogMainColumn,
			SubColumn:  defaultCatalogSubColumn,
		},
		Batch: Batch{
			Concurrency:   defaultBatchConcurrency,
			ProgressEvery: defaultBatchProgressEvery,
		},
		Server: Server{
			Bind:                  defaultServerBind,
			RequestTimeoutSeconds: defaultServerRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
