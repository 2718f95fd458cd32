package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"callscribe/internal/config"
	"callscribe/internal/services/llm"
	"callscribe/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	server     *testsupport.ChatServer
}

// setupCLITestEnv writes a config file pointing at a fake chat endpoint and
// a two-entry catalog. HOME is isolated so no user config is picked up.
func setupCLITestEnv(t *testing.T, reply func([]llm.Message) testsupport.ChatReply) *cliTestEnv {
	t.Helper()

	server := testsupport.NewChatServer(t, reply)
	cfg := testsupport.NewConfig(t,
		testsupport.WithLLMEndpoint(server.Endpoint()),
		testsupport.WithCatalogRows([2]string{"Billing", "Refund"}, [2]string{"Cards", "Card Blocked"}),
	)
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)

	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, server: server}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if env != nil && env.configPath != "" {
		flags = append(flags, "--config", env.configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// echoReply answers summary prompts with a fixed summary (502 when the
// transcript mentions "fail") and classification prompts with two labels.
func echoReply(messages []llm.Message) testsupport.ChatReply {
	user := testsupport.UserContent(messages)
	if strings.Contains(user, "Please provide only the summary.") {
		if strings.Contains(user, "fail") {
			return testsupport.ChatReply{Status: 502, Content: "gateway down"}
		}
		return testsupport.ChatReply{Content: "\nCaller asked about a refund.\n"}
	}
	if user == "ping" {
		return testsupport.ChatReply{Content: " pong\n"}
	}
	return testsupport.ChatReply{Content: `{"subcategories": ["Refund", "Card Blocked", "Refund"]}`}
}
