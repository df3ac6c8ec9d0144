package plan

import (
	"bytes"
	"strings"
	"testing"

	"nmpwm/board"
	"nmpwm/core"
)

func TestRunDefaultConfig(t *testing.T) {
	r, err := Run(board.DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(r.Channels) != 2 {
		t.Fatalf("Expected 2 channels, got %d", len(r.Channels))
	}
	for _, c := range r.Channels {
		if c.ErrorPercent != 0 {
			t.Errorf("ch%d: expected an exact frequency, got %+.3f%%", c.Channel, c.ErrorPercent)
		}
	}
	if len(r.Registers) != len(core.Registers()) {
		t.Errorf("Expected a full register dump, got %d entries", len(r.Registers))
	}
	if r.Writes == 0 {
		t.Error("Expected the write count to be recorded")
	}

	var ctl uint32
	for _, reg := range r.Registers {
		if reg.Offset == core.RegCTL {
			ctl = reg.Value
		}
	}
	if ctl&core.PWM_CTL_CNTEN0_Msk == 0 {
		t.Errorf("Expected ch0 running in the snapshot, CTL=0x%08X", ctl)
	}
}

func TestRunQuantizationError(t *testing.T) {
	cfg, err := board.LoadConfig([]byte(`{"channels": [{"channel": 5, "frequency_hz": 7000000, "duty_percent": 50}]}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	r, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 24MHz / 7MHz rounds to 3 counts: 8MHz
	c := r.Channels[0]
	if c.ActualHz != 8000000 {
		t.Errorf("Expected 8MHz, got %d", c.ActualHz)
	}
	if c.ErrorPercent < 14.28 || c.ErrorPercent > 14.29 {
		t.Errorf("Expected +14.29%% error, got %f", c.ErrorPercent)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := board.DefaultConfig()
	cfg.Mode = "bogus"
	if _, err := Run(cfg); err == nil || !strings.Contains(err.Error(), "invalid board configuration") {
		t.Errorf("Expected a wrapped validation error, got %v", err)
	}
}

func TestWriteReport(t *testing.T) {
	r, err := Run(board.DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var buf bytes.Buffer
	if err := r.WriteChannels(&buf); err != nil {
		t.Fatalf("WriteChannels failed: %v", err)
	}
	if err := r.WriteRegisters(&buf, false); err != nil {
		t.Fatalf("WriteRegisters failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Source clock: 24 MHz", "20 kHz", "PERIOD0", "0x000004AF", "register writes"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in report:\n%s", want, out)
		}
	}
	if strings.Contains(out, "PERIOD5") {
		t.Error("Registers at 0 must be skipped")
	}
	t.Logf("report:\n%s", out)
}

func TestFormatHz(t *testing.T) {
	for hz, want := range map[uint32]string{1: "1 Hz", 1000: "1 kHz", 24000000: "24 MHz"} {
		if got := FormatHz(hz); got != want {
			t.Errorf("FormatHz(%d) = %q, want %q", hz, got, want)
		}
	}
}
