package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestWriteJSONKeepsAmpersandsAndAngles(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	if err := writeJSON(cmd, map[string]string{"mainCategory": "Billing & Refunds <VIP>"}); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"Billing & Refunds <VIP>"`) {
		t.Fatalf("expected unescaped text, got %s", out)
	}
	if !strings.HasPrefix(out, "{\n  \"mainCategory\"") {
		t.Fatalf("expected indented output, got %s", out)
	}
}

func TestWriteJSONReportsEncodeFailure(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := writeJSON(cmd, map[string]any{"bad": make(chan int)})
	if err == nil || !strings.Contains(err.Error(), "encode json output") {
		t.Fatalf("expected wrapped encode error, got %v", err)
	}
}
