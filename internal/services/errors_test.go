package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"callscribe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrSchema, "records", "read input", "missing column", base)
	if !errors.Is(err, services.ErrSchema) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"records", "read input", "missing column"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKindAndExitCode(t *testing.T) {
	tests := []struct {
		err  error
		kind string
		code int
	}{
		{nil, "", 0},
		{services.Wrap(services.ErrConfiguration, "cli", "load", "bad", nil), "configuration", 2},
		{fmt.Errorf("outer: %w", services.Wrap(services.ErrSchema, "records", "read", "", nil)), "schema", 2},
		{services.Wrap(services.ErrLocked, "records", "lock", "", nil), "locked", 1},
		{errors.New("plain"), "internal", 1},
	}
	for _, tt := range tests {
		if got := services.Kind(tt.err); got != tt.kind {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.kind)
		}
		if got := services.ExitCode(tt.err); got != tt.code {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.code)
		}
	}
}
