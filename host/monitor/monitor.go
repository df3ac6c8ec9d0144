// Package monitor follows the firmware debug console over a serial port and
// turns its lines into structured log records.
package monitor

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"nmpwm/host/serial"
)

// Console commands understood by the firmware
const (
	cmdDumpEvents  = "d\n"
	cmdToggleDebug = "v\n"
)

// Kind classifies a console line
type Kind string

const (
	KindConfigure Kind = "configure" // "pwm: ch0 div=1 psc=1 period=23999 cmp=11999 hz=1000"
	KindWrite     Kind = "write"     // "pwm: CTL <- 0x00000001"
	KindEvent     Kind = "event"     // "[PWM] IRQ ch=0 v1=1 v2=0"
	KindDump      Kind = "dump"      // "[PWM] === Event Ring Dump ==="
	KindText      Kind = "text"
)

// Record is a parsed console line
type Record struct {
	Kind   Kind
	Name   string            // Register name for writes, event name for events
	Fields map[string]string // key=value pairs of the line
	Line   string
}

// Stats counts the records seen since the monitor was created
type Stats struct {
	Lines      int
	Configures int
	Writes     int
	Events     int
}

// Monitor represents a connection to the firmware console
type Monitor struct {
	port    serial.Port
	log     zerolog.Logger
	partial []byte
	stats   Stats
}

// New creates a monitor that logs through log (not yet connected)
func New(log zerolog.Logger) *Monitor {
	return &Monitor{log: log}
}

// Connect opens the console on device with the firmware's default settings
func (m *Monitor) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the console with a custom serial config
func (m *Monitor) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to open console")
	}
	m.Attach(port)
	m.log.Info().Str("device", cfg.Device).Int("baud", cfg.Baud).Msg("Console connected")
	return nil
}

// Attach uses an already open port
func (m *Monitor) Attach(port serial.Port) {
	m.port = port
	m.partial = m.partial[:0]
}

// Close closes the console port
func (m *Monitor) Close() error {
	if m.port == nil {
		return nil
	}
	err := m.port.Close()
	m.port = nil
	return errors.WithStack(err)
}

// IsConnected returns whether a port is attached
func (m *Monitor) IsConnected() bool {
	return m.port != nil
}

// Stats returns the record counters
func (m *Monitor) Stats() Stats {
	return m.stats
}

// RequestDump asks the firmware to print its event ring
func (m *Monitor) RequestDump() error {
	return m.send(cmdDumpEvents)
}

// ToggleDebug asks the firmware to switch its debug output on or off
func (m *Monitor) ToggleDebug() error {
	return m.send(cmdToggleDebug)
}

func (m *Monitor) send(cmd string) error {
	if m.port == nil {
		return errors.New("not connected")
	}
	if _, err := io.WriteString(m.port, cmd); err != nil {
		return errors.Wrap(err, "failed to send console command")
	}
	return nil
}

// Run logs console lines until ctx is cancelled. Read timeouts of the port
// (reported as io.EOF by native ports) are treated as idle time.
func (m *Monitor) Run(ctx context.Context) error {
	port := m.port
	if port == nil {
		return errors.New("not connected")
	}
	buf := make([]byte, 256)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := port.Read(buf)
		m.feed(buf[:n])
		if err != nil && err != io.EOF {
			if ctx.Err() != nil {
				// Port closed to stop us
				return nil
			}
			return errors.Wrap(err, "console read failed")
		}
	}
}

// Process logs every line of r until it ends, for replaying captured consoles
func (m *Monitor) Process(r io.Reader) error {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		m.feed(buf[:n])
		if err == io.EOF {
			if len(m.partial) > 0 {
				m.handleLine(string(m.partial))
				m.partial = m.partial[:0]
			}
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read failed")
		}
	}
}

// feed splits data into lines, keeping an unterminated tail for the next call
func (m *Monitor) feed(data []byte) {
	m.partial = append(m.partial, data...)
	for {
		i := bytes.IndexByte(m.partial, '\n')
		if i < 0 {
			return
		}
		line := strings.TrimRight(string(m.partial[:i]), "\r")
		m.partial = m.partial[i+1:]
		if line != "" {
			m.handleLine(line)
		}
	}
}

func (m *Monitor) handleLine(line string) {
	rec := ParseLine(line)
	m.stats.Lines++

	switch rec.Kind {
	case KindConfigure:
		m.stats.Configures++
		ev := m.log.Info().Str("channel", rec.Fields["ch"])
		for _, k := range []string{"div", "psc", "period", "cmp"} {
			ev = ev.Str(k, rec.Fields[k])
		}
		if hz, err := strconv.ParseFloat(rec.Fields["hz"], 64); err == nil {
			ev = ev.Str("frequency", humanize.SIWithDigits(hz, 3, "Hz"))
		}
		ev.Msg("Channel configured")
	case KindWrite:
		m.stats.Writes++
		m.log.Debug().Str("register", rec.Name).Str("value", rec.Fields["value"]).Msg("Register write")
	case KindEvent:
		m.stats.Events++
		m.log.Info().Str("event", rec.Name).
			Str("channel", rec.Fields["ch"]).
			Str("v1", rec.Fields["v1"]).
			Str("v2", rec.Fields["v2"]).
			Msg("Event")
	case KindDump:
		m.log.Debug().Msg(rec.Line)
	default:
		m.log.Info().Msg(rec.Line)
	}
}

// ParseLine classifies one console line and extracts its fields
func ParseLine(line string) Record {
	rec := Record{Kind: KindText, Line: line, Fields: map[string]string{}}

	switch {
	case strings.HasPrefix(line, "[PWM] ==="):
		rec.Kind = KindDump
	case strings.HasPrefix(line, "[PWM] "):
		words := strings.Fields(strings.TrimPrefix(line, "[PWM] "))
		if len(words) == 0 {
			return rec
		}
		rec.Kind = KindEvent
		rec.Name = words[0]
		parseFields(rec.Fields, words[1:])
	case strings.HasPrefix(line, "pwm: "):
		rest := strings.TrimPrefix(line, "pwm: ")
		if reg, value, ok := strings.Cut(rest, " <- "); ok {
			rec.Kind = KindWrite
			rec.Name = reg
			rec.Fields["value"] = value
			return rec
		}
		words := strings.Fields(rest)
		if len(words) > 0 && strings.HasPrefix(words[0], "ch") {
			rec.Kind = KindConfigure
			rec.Fields["ch"] = strings.TrimPrefix(words[0], "ch")
			parseFields(rec.Fields, words[1:])
		}
	}
	return rec
}

func parseFields(fields map[string]string, words []string) {
	for _, w := range words {
		if k, v, ok := strings.Cut(w, "="); ok {
			fields[k] = v
		}
	}
}
