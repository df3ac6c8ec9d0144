package board

import (
	"strings"
	"testing"

	"nmpwm/core"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{
		"channels": [
			{"channel": 1, "duty_percent": 40},
			{"channel": 4, "frequency_hz": 50, "duty_percent": 5}
		]
	}`))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.SourceClockHz != core.DefaultSourceClock {
		t.Errorf("Expected default source clock, got %d", cfg.SourceClockHz)
	}
	if cfg.Aligned != "edge" || cfg.Mode != "independent" {
		t.Errorf("Expected edge/independent defaults, got %s/%s", cfg.Aligned, cfg.Mode)
	}
	if cfg.Channels[0].FrequencyHz != DefaultFrequencyHz {
		t.Errorf("Expected default frequency, got %d", cfg.Channels[0].FrequencyHz)
	}
	if cfg.Channels[1].FrequencyHz != 50 {
		t.Errorf("Explicit frequency must be kept, got %d", cfg.Channels[1].FrequencyHz)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected a valid config, got %v", err)
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	if _, err := LoadConfig([]byte(`{"channels": [`)); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig is invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"bad channel", func(c *Config) {
			c.Channels = append(c.Channels, ChannelConfig{Channel: 6, FrequencyHz: 1000})
		}, "channel 6"},
		{"duplicate channel", func(c *Config) {
			c.Channels = append(c.Channels, ChannelConfig{Channel: 2, FrequencyHz: 1000})
		}, "configured twice"},
		{"duty", func(c *Config) { c.Channels[0].DutyPercent = 101 }, "duty"},
		{"frequency", func(c *Config) { c.Channels[0].FrequencyHz = 30000000 }, "frequency"},
		{"prescaler conflict", func(c *Config) {
			c.Channels = append(c.Channels, ChannelConfig{Channel: 1, FrequencyHz: 100, DutyPercent: 50})
		}, "share pair 0"},
		{"mode", func(c *Config) { c.Mode = "mirror" }, "unknown mode"},
		{"aligned", func(c *Config) { c.Aligned = "left" }, "unknown aligned"},
		{"trigger", func(c *Config) { c.Channels[1].ADCTrigger = []string{"middle"} }, "unknown ADC trigger"},
		{"period int conflict", func(c *Config) { c.Channels[1].PeriodInt = "underflow" }, "conflicts"},
		{"output", func(c *Config) { c.Outputs = append(c.Outputs, -1) }, "outputs"},
		{"dead zone ticks", func(c *Config) { c.DeadZones[0].Ticks = 300 }, "exceeds"},
		{"dead zone pair", func(c *Config) { c.DeadZones[0].Pair = 3 }, "pair 3"},
		{"brake source", func(c *Config) { c.Brakes[0].Source = "eint2" }, "unknown brake source"},
		{"exclusive brake sources", func(c *Config) {
			c.Brakes = append(c.Brakes, BrakeConfig{Source: "acmp1"})
		}, "exclusive"},
		{"high outside channels", func(c *Config) { c.Brakes[0].High = []int{3} }, "not in its channel list"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error mentioning %q, got %v", tc.want, err)
			}
			t.Logf("%s: %v", tc.name, err)
		})
	}
}

func TestApplyDefaultConfig(t *testing.T) {
	sim := core.NewSimBus()
	p := core.New(sim, 1)

	results, err := DefaultConfig().Apply(p)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if p.SourceClock() != core.DefaultSourceClock {
		t.Errorf("Expected the board clock applied, got %d", p.SourceClock())
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if r := results[0]; r.Channel != 0 || r.ActualHz != 20000 || r.Settings.Period != 1199 {
		t.Errorf("Unexpected ch0 result %+v", r)
	}
	if r := results[1]; r.Channel != 2 || r.ActualHz != 1000 || r.Settings.Compare != 5999 {
		t.Errorf("Unexpected ch2 result %+v", r)
	}

	if p.Running() != core.Mask(0, 2) {
		t.Errorf("Expected channels 0 and 2 running, got 0b%06b", p.Running())
	}
	if p.Mode() != core.ModeComplementary {
		t.Errorf("Expected complementary mode, got %d", p.Mode())
	}
	if p.OutputEnabled() != core.Mask(0, 1, 2) {
		t.Errorf("Expected outputs 0-2, got 0b%06b", p.OutputEnabled())
	}
	if ticks, enabled := p.DeadZone(1); ticks != 24 || !enabled {
		t.Errorf("Expected 24-tick dead zone on pair 0, got %d %v", ticks, enabled)
	}
	if !p.FaultBrakeEnabled(core.BrakeEINT0) {
		t.Error("Expected the EINT0 brake armed")
	}
	if p.ADCTriggerConditions(2) != core.TriggerPeriod {
		t.Error("Expected ch2 to trigger the ADC on period")
	}

	sim.Step(2)
	if p.ADCTriggerFlag(2) != core.TriggerPeriod {
		t.Error("Expected a period trigger after one simulated period")
	}
}

func TestApplyInvalidWritesNothing(t *testing.T) {
	sim := core.NewSimBus()
	p := core.New(sim, core.DefaultSourceClock)
	cfg := DefaultConfig()
	cfg.Channels[0].DutyPercent = 200

	if _, err := cfg.Apply(p); err == nil {
		t.Fatal("Expected Apply to fail")
	}
	if sim.Writes() != 0 {
		t.Errorf("Expected no writes for an invalid plan, got %d", sim.Writes())
	}
}
