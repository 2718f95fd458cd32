package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestPretty(buf *bytes.Buffer, color bool) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelInfo)
	return slog.New(newPrettyHandler(buf, lvl, false, color))
}

func TestPrettyHandlerRendersSubjectAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, false)

	logger.With(String(FieldComponent, "batch"), String(FieldRunID, "3f2a9c1e-aaaa-bbbb")).
		Info("row done", Int(FieldRow, 12), String("status", "summarized"))

	line := buf.String()
	if !strings.Contains(line, " INFO batch: [run 3f2a9c1e · row 12] row done") {
		t.Fatalf("unexpected header: %q", line)
	}
	if !strings.Contains(line, "status=summarized") {
		t.Fatalf("expected attribute, got %q", line)
	}
	if strings.Contains(line, "component=") || strings.Contains(line, "run_id=") {
		t.Fatalf("subject fields should not repeat as attributes: %q", line)
	}
}

func TestPrettyHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, false)

	logger.Warn("failed", Error(errors.New("status 502: bad gateway")), String("empty", ""))

	line := buf.String()
	if !strings.Contains(line, `error="status 502: bad gateway"`) {
		t.Fatalf("expected quoted error, got %q", line)
	}
	if !strings.Contains(line, `empty=""`) {
		t.Fatalf("expected quoted empty value, got %q", line)
	}
}

func TestPrettyHandlerColorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, true)

	logger.Error("boom")

	if !strings.Contains(buf.String(), ansiRed+"ERROR"+ansiReset) {
		t.Fatalf("expected coloured level, got %q", buf.String())
	}
}

func TestPrettyHandlerGroupsAndDedupes(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestPretty(&buf, false)

	logger.With(String("stage", "a")).WithGroup("llm").Info("call", String("model", "m1"), String("model", "m2"))

	line := buf.String()
	if !strings.Contains(line, "llm.model=m2") {
		t.Fatalf("expected grouped, deduplicated key, got %q", line)
	}
	if strings.Count(line, "llm.model=") != 1 {
		t.Fatalf("expected single model attribute, got %q", line)
	}
	if !strings.Contains(line, "stage=a") {
		t.Fatalf("expected pre-group attribute, got %q", line)
	}
}

func TestFanoutHandlerDeliversToAll(t *testing.T) {
	var first, second bytes.Buffer
	infoLevel := new(slog.LevelVar)
	h := newFanoutHandler(
		newPrettyHandler(&first, infoLevel, false, false),
		slog.NewJSONHandler(&second, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	logger := slog.New(h)

	logger.Info("info only")
	logger.Warn("both")

	if !strings.Contains(first.String(), "info only") || !strings.Contains(first.String(), "both") {
		t.Fatalf("console handler missed records: %q", first.String())
	}
	if strings.Contains(second.String(), "info only") || !strings.Contains(second.String(), "both") {
		t.Fatalf("json handler should only see warn: %q", second.String())
	}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("fanout should be enabled when any handler is")
	}
}

func TestNewFanoutHandlerCollapses(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when all handlers are nil")
	}
	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if h := newFanoutHandler(nil, inner); h != inner {
		t.Fatal("expected single handler to be returned unwrapped")
	}
}

func TestFormatSubject(t *testing.T) {
	tests := []struct {
		run, row, want string
	}{
		{"", "", ""},
		{"abc", "", "run abc"},
		{"", "4", "row 4"},
		{"0123456789", "7", "run 01234567 · row 7"},
	}
	for _, tt := range tests {
		if got := formatSubject(tt.run, tt.row); got != tt.want {
			t.Errorf("formatSubject(%q, %q) = %q, want %q", tt.run, tt.row, got, tt.want)
		}
	}
}
