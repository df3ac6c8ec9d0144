package main

import (
	"testing"

	"nmpwm/core"
)

func TestNewLogger(t *testing.T) {
	t.Cleanup(func() {
		core.SetDebugEnabled(false)
		core.SetDebugWriter(nil)
	})

	if _, err := newLogger("debug"); err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	if !core.IsDebugEnabled() {
		t.Error("Expected core debug output at debug level")
	}

	if _, err := newLogger("warn"); err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	if core.IsDebugEnabled() {
		t.Error("Expected core debug output off above debug level")
	}

	if _, err := newLogger("loud"); err == nil {
		t.Error("Expected an invalid level to be rejected")
	}
}

func TestCalcRequiresFrequency(t *testing.T) {
	t.Cleanup(func() { core.SetDebugWriter(nil) })
	if err := runCalc([]string{"--level", "error"}); err == nil {
		t.Error("Expected calc without frequencies to fail")
	}
	if err := runCalc([]string{"--level", "error", "abc"}); err == nil {
		t.Error("Expected a non-numeric frequency to fail")
	}
}
