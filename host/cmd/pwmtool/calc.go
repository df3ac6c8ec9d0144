package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"

	"nmpwm/core"
	"nmpwm/host/plan"
)

func runCalc(args []string) error {
	var levelFlag string
	var clock uint32
	var duty uint32

	fs := newFlagSet("calc", &levelFlag)
	fs.Uint32VarP(&clock, "clock", "c", core.DefaultSourceClock, "PWM engine clock in Hz")
	fs.Uint32VarP(&duty, "duty", "d", 50, "Duty cycle in percent")
	if err := fs.Parse(args); err != nil {
		return maskAny(err)
	}
	log, err := newLogger(levelFlag)
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("give at least one frequency in Hz")
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Source clock: %s, lowest frequency: %s\n",
		plan.FormatHz(clock), plan.FormatHz(core.MinFrequency(clock)))
	fmt.Fprintln(tw, "REQUESTED\tACTUAL\tDIV\tPSC\tPERIOD\tCMP")
	for _, arg := range fs.Args() {
		freq, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid frequency %q", arg)
		}
		s, err := core.ComputeSettings(clock, uint32(freq), duty)
		if err != nil {
			log.Warn().Err(err).Uint64("frequency", freq).Msg("Cannot produce frequency")
			continue
		}
		actual := plan.FormatHz(s.Frequency(clock))
		if s.Halted() {
			actual = "halted"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			plan.FormatHz(uint32(freq)), actual, s.Divider.Factor(), s.Prescaler, s.Period, s.Compare)
	}
	return maskAny(tw.Flush())
}
