package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"callscribe/internal/api"
	"callscribe/internal/preflight"
	"callscribe/internal/records"
	"callscribe/internal/services"
	"callscribe/internal/testsupport"
)

func writeTranscripts(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	path := filepath.Join(env.baseDir, "calls.csv")
	testsupport.WriteCSV(t, path, [][]string{
		{"id", "date", "agent", "queue", "duration", "transcript", "notes"},
		{"1", "2024-05-01", "ayse", "billing", "120", "Caller wants a refund.", "n1"},
		{"2", "2024-05-01", "mert", "cards", "30", "", "n2"},
		{"3", "2024-05-02", "ayse", "cards", "45", "this call will fail", "n3"},
	})
	return path
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.server.Endpoint())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigValidateReportsInvalidConfig(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	if err := os.WriteFile(env.configPath, []byte("[llm]\nmax_attempts = 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, env, "config", "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2 (%v)", code, err)
	}
}

func TestSummarizeWritesOutputAndRecordsRun(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	input := writeTranscripts(t, env)
	output := filepath.Join(env.baseDir, "out", "summaries.csv")

	out, _, err := runCLI(t, env, "summarize", "--input", input, "--output", output, "--json")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	var result batchResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode result %q: %v", out, err)
	}
	if result.RunID == "" || result.Stats.Rows != 3 || result.Stats.Summarized != 1 ||
		result.Stats.SummarySkipped != 1 || result.Stats.SummaryDegraded != 1 {
		t.Fatalf("unexpected result: %#v", result)
	}

	rows := testsupport.ReadCSV(t, output)
	wantHeader := []string{"id", "date", "agent", "queue", "duration", "transcript", "summary"}
	if len(rows) != 4 || len(rows[0]) != len(wantHeader) {
		t.Fatalf("unexpected output shape: %v", rows)
	}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}
	if rows[1][6] != "Caller asked about a refund." {
		t.Fatalf("summary row 1 = %q", rows[1][6])
	}
	if rows[2][6] != "" {
		t.Fatalf("blank transcript should yield empty summary, got %q", rows[2][6])
	}
	requireContains(t, rows[3][6], "[SUMMARY_ERROR] llm request: http 502")

	out, _, err = runCLI(t, env, "runs", "--json")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var runs []api.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != result.RunID || runs[0].Status != "succeeded" || runs[0].SummaryDegraded != 1 {
		t.Fatalf("unexpected runs: %#v", runs)
	}

	out, _, err = runCLI(t, env, "runs")
	if err != nil {
		t.Fatalf("runs table: %v", err)
	}
	requireContains(t, out, result.RunID[:8])
	requireContains(t, out, "summarize")
}

func TestClassifyAppendsTopicColumns(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	input := filepath.Join(env.baseDir, "summaries.csv")
	testsupport.WriteCSV(t, input, [][]string{
		{"id", "date", "agent", "queue", "duration", "transcript", "summary"},
		{"1", "d", "a", "q", "1", "t", "Refund requested."},
		{"2", "d", "a", "q", "1", "t", "[SUMMARY_ERROR] llm request: timeout"},
	})
	output := filepath.Join(env.baseDir, "classified.csv")

	out, _, err := runCLI(t, env, "classify", "-i", input, "-o", output)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	requireContains(t, out, "1 classified")

	rows := testsupport.ReadCSV(t, output)
	if got := rows[0][7:]; len(got) != len(records.TopicColumns) || got[0] != "sub_category_1" {
		t.Fatalf("unexpected topic header: %v", rows[0])
	}
	want := []string{"Refund", "Billing", "Card Blocked", "Cards", "Refund", "Billing"}
	for i, cell := range want {
		if rows[1][7+i] != cell {
			t.Fatalf("row 1 topic cell %d = %q, want %q", i, rows[1][7+i], cell)
		}
	}
	for i, cell := range rows[2][7:] {
		if cell != "" {
			t.Fatalf("degraded summary should leave topics empty, cell %d = %q", i, cell)
		}
	}
}

func TestRunCommaSplitLayout(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	input := filepath.Join(env.baseDir, "raw.csv")
	testsupport.WriteCSV(t, input, [][]string{
		{"raw"},
		{"1, 2024-05-01, ayse, billing, 120, Caller wants a refund."},
	})
	output := filepath.Join(env.baseDir, "run.csv")

	if _, _, err := runCLI(t, env, "run", "-i", input, "-o", output, "--layout", "comma_split"); err != nil {
		t.Fatalf("run: %v", err)
	}

	rows := testsupport.ReadCSV(t, output)
	wantHeader := []string{"col1", "col2", "col3", "col4", "col5", "col6", "summary",
		"sub_category_1", "main_category_1", "sub_category_2", "main_category_2", "sub_category_3", "main_category_3"}
	if len(rows[0]) != len(wantHeader) {
		t.Fatalf("header = %v", rows[0])
	}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}
	if rows[1][5] != "Caller wants a refund." || rows[1][6] != "Caller asked about a refund." || rows[1][7] != "Refund" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

func TestSchemaErrorFailsBeforeOutput(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	input := filepath.Join(env.baseDir, "narrow.csv")
	testsupport.WriteCSV(t, input, [][]string{{"id", "text"}, {"1", "hello"}})
	output := filepath.Join(env.baseDir, "never.csv")

	_, _, err := runCLI(t, env, "summarize", "-i", input, "-o", output)
	if !errors.Is(err, services.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("output should not exist, stat err = %v", statErr)
	}
	if len(env.server.Requests()) != 0 {
		t.Fatalf("expected no LLM calls, got %d", len(env.server.Requests()))
	}

	out, _, err := runCLI(t, env, "runs", "--json")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var runs []api.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != "failed" || runs[0].ErrorKind != "schema" {
		t.Fatalf("unexpected runs: %#v", runs)
	}
}

func TestLockedOutputIsRejected(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	input := writeTranscripts(t, env)
	output := filepath.Join(env.baseDir, "busy.csv")

	lock, err := records.LockOutput(output)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer lock.Unlock()

	_, _, err = runCLI(t, env, "summarize", "-i", input, "-o", output)
	if !errors.Is(err, services.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if code := services.ExitCode(err); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestClassifyWithoutCatalog(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	env.cfg.Catalog.Path = ""
	writeTestConfig(t, env.configPath, env.cfg)
	input := writeTranscripts(t, env)

	_, _, err := runCLI(t, env, "run", "-i", input, "-o", filepath.Join(env.baseDir, "x.csv"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestCatalogShow(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)

	out, _, err := runCLI(t, env, "catalog", "show")
	if err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	requireContains(t, out, "2 subcategories")
	requireContains(t, out, "Card Blocked")
	requireContains(t, out, "Billing")

	out, _, err = runCLI(t, env, "catalog", "show", "--json")
	if err != nil {
		t.Fatalf("catalog show --json: %v", err)
	}
	var catalog api.CatalogResponse
	if err := json.Unmarshal([]byte(out), &catalog); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if catalog.Count != 2 || catalog.Entries[0].SubCategory != "Refund" {
		t.Fatalf("unexpected catalog: %#v", catalog)
	}
}

func TestLLMPing(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)

	out, _, err := runCLI(t, env, "llm", "ping")
	if err != nil {
		t.Fatalf("llm ping: %v", err)
	}
	requireContains(t, out, `Reply:    "pong"`)
}

func TestEnvFileOverridesModel(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	envFile := filepath.Join(env.baseDir, "test.env")
	if err := os.WriteFile(envFile, []byte("CALLSCRIBE_LLM_MODEL=from-env-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALLSCRIBE_LLM_MODEL", "")
	os.Unsetenv("CALLSCRIBE_LLM_MODEL")

	out, _, err := runCLI(t, env, "--env-file", envFile, "llm", "ping")
	if err != nil {
		t.Fatalf("llm ping: %v", err)
	}
	requireContains(t, out, "from-env-file")
}

func TestMissingEnvFileIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)

	_, _, err := runCLI(t, env, "--env-file", filepath.Join(env.baseDir, "absent.env"), "runs")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestPreflightPasses(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)

	out, _, err := runCLI(t, env, "preflight", "--json")
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	var results []preflight.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode preflight output: %v\n%s", err, out)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestPreflightReportsBadCatalog(t *testing.T) {
	env := setupCLITestEnv(t, echoReply)
	env.cfg.Catalog.Path = filepath.Join(env.baseDir, "missing.csv")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, env, "preflight", "--skip-llm")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	requireContains(t, out, "FAIL")
	if got := len(env.server.Requests()); got != 0 {
		t.Fatalf("expected no LLM requests with --skip-llm, got %d", got)
	}
}
