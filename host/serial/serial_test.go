package serial

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	if cfg.Device != "/dev/ttyUSB0" {
		t.Errorf("Expected device to be kept, got %q", cfg.Device)
	}
	if cfg.Baud != DefaultBaud {
		t.Errorf("Expected %d baud, got %d", DefaultBaud, cfg.Baud)
	}
	if cfg.ReadTimeout != 100*time.Millisecond {
		t.Errorf("Expected 100ms read timeout, got %s", cfg.ReadTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name string
		cfg  *Config
	}{
		{"nil", nil},
		{"empty device", DefaultConfig("")},
		{"zero baud", &Config{Device: "/dev/ttyUSB0"}},
		{"negative timeout", &Config{Device: "/dev/ttyUSB0", Baud: DefaultBaud, ReadTimeout: -time.Second}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Error("Expected a validation error")
			}
			if _, err := Open(tc.cfg); err == nil {
				t.Error("Expected Open to refuse the config")
			}
		})
	}
}

func TestConfigValidateBlockingRead(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	cfg.ReadTimeout = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("A blocking read should be allowed: %v", err)
	}
}
