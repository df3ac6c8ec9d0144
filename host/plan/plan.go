// Package plan dry-runs a board configuration against a simulated PWM block
// and reports what the hardware would produce.
package plan

import (
	"fmt"
	"io"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"nmpwm/board"
	"nmpwm/core"
)

// ChannelReport is the outcome of one configured channel
type ChannelReport struct {
	board.ChannelResult
	ErrorPercent float64 // Signed deviation of the achieved from the requested frequency
}

// RegisterValue is one register of the resulting block state
type RegisterValue struct {
	Offset core.Offset
	Name   string
	Value  uint32
}

// Report is the result of applying a board configuration
type Report struct {
	SourceClockHz uint32
	Channels      []ChannelReport
	Registers     []RegisterValue
	Writes        int // Register writes the plan took
}

// Run applies cfg to a fresh simulated block and collects the report
func Run(cfg *board.Config) (*Report, error) {
	sim := core.NewSimBus()
	p := core.New(sim, cfg.SourceClockHz)

	results, err := cfg.Apply(p)
	if err != nil {
		return nil, errors.Wrap(err, "invalid board configuration")
	}

	r := &Report{
		SourceClockHz: cfg.SourceClockHz,
		Writes:        sim.Writes(),
	}
	for _, res := range results {
		r.Channels = append(r.Channels, ChannelReport{
			ChannelResult: res,
			ErrorPercent:  errorPercent(res.RequestedHz, res.ActualHz),
		})
	}
	r.Registers = Snapshot(sim)
	return r, nil
}

// Snapshot reads every register of the block
func Snapshot(bus core.Bus) []RegisterValue {
	regs := core.Registers()
	values := make([]RegisterValue, 0, len(regs))
	for _, off := range regs {
		values = append(values, RegisterValue{
			Offset: off,
			Name:   core.RegisterName(off),
			Value:  bus.Load(off),
		})
	}
	return values
}

func errorPercent(requested, actual uint32) float64 {
	if requested == 0 {
		return 0
	}
	return (float64(actual) - float64(requested)) * 100 / float64(requested)
}

// FormatHz renders a frequency with an SI prefix, e.g. "20 kHz"
func FormatHz(hz uint32) string {
	return humanize.SIWithDigits(float64(hz), 3, "Hz")
}

// WriteChannels prints the channel table
func (r *Report) WriteChannels(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Source clock: %s\n", FormatHz(r.SourceClockHz))
	fmt.Fprintln(tw, "CH\tREQUESTED\tACTUAL\tERROR\tDUTY\tDIV\tPSC\tPERIOD\tCMP")
	for _, c := range r.Channels {
		actual := FormatHz(c.ActualHz)
		if c.Settings.Halted() {
			actual = "halted"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%+.3f%%\t%d%%\t%d\t%d\t%d\t%d\n",
			c.Channel, FormatHz(c.RequestedHz), actual, c.ErrorPercent, c.DutyPercent,
			c.Settings.Divider.Factor(), c.Settings.Prescaler, c.Settings.Period, c.Settings.Compare)
	}
	return tw.Flush()
}

// WriteRegisters prints the register dump, skipping registers left at 0
// unless all is set
func (r *Report) WriteRegisters(w io.Writer, all bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tREGISTER\tVALUE")
	for _, reg := range r.Registers {
		if reg.Value == 0 && !all {
			continue
		}
		fmt.Fprintf(tw, "0x%02X\t%s\t0x%08X\n", uint32(reg.Offset), reg.Name, reg.Value)
	}
	fmt.Fprintf(tw, "%s register writes\n", humanize.Comma(int64(r.Writes)))
	return tw.Flush()
}
