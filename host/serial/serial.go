package serial

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// Port is a serial connection to the board's debug console.
// Native ports use github.com/tarm/serial; tests use an in-memory port.
type Port interface {
	io.ReadWriteCloser

	// Flush discards received bytes that were not read yet
	Flush() error
}

// The firmware console runs UART0 at 8N1
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 100 * time.Millisecond
)

// Config selects the console device and its line settings
type Config struct {
	Device string
	Baud   int

	// ReadTimeout bounds each Read so the monitor can notice cancellation.
	// Zero blocks until data arrives.
	ReadTimeout time.Duration
}

// DefaultConfig returns the settings matching the firmware console on device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
	}
}

// Validate checks that cfg can be opened
func (cfg *Config) Validate() error {
	switch {
	case cfg == nil:
		return errors.New("serial config cannot be nil")
	case cfg.Device == "":
		return errors.New("no serial device given")
	case cfg.Baud <= 0:
		return errors.Errorf("invalid baud rate %d", cfg.Baud)
	case cfg.ReadTimeout < 0:
		return errors.Errorf("invalid read timeout %s", cfg.ReadTimeout)
	}
	return nil
}
