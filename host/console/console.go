// Package console is an interactive command interpreter over a simulated
// PWM block, for trying out register sequences without hardware.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"nmpwm/board"
	"nmpwm/core"
	"nmpwm/host/plan"
)

// ErrQuit is returned by Exec for the quit command
var ErrQuit = errors.New("quit")

const prompt = "pwm> "

// Console executes command lines against a simulated block
type Console struct {
	pwm *core.PWM
	sim *core.SimBus
	out io.Writer
	log zerolog.Logger
}

// New creates a console over a fresh simulated block clocked at clockHz.
// Register writes go through a core.TraceBus, so "trace on" shows them.
func New(clockHz uint32, out io.Writer, log zerolog.Logger) *Console {
	sim := core.NewSimBus()
	return &Console{
		pwm: core.New(core.TraceBus{Bus: sim}, clockHz),
		sim: sim,
		out: out,
		log: log,
	}
}

// PWM returns the handle the console drives
func (c *Console) PWM() *core.PWM {
	return c.pwm
}

// Sim returns the simulated block
func (c *Console) Sim() *core.SimBus {
	return c.sim
}

// Run executes lines from in until it ends or quit is entered. Command
// errors are printed and do not stop the loop.
func (c *Console) Run(in io.Reader, interactive bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(c.out, prompt)
		}
		if !scanner.Scan() {
			return errors.WithStack(scanner.Err())
		}
		err := c.Exec(scanner.Text())
		if err == ErrQuit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			c.log.Debug().Err(err).Str("line", scanner.Text()).Msg("Command failed")
		}
	}
}

// Exec runs one command line. Empty lines and lines starting with # are ignored.
func (c *Console) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return errors.Wrap(err, "cannot parse command line")
	}
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
		return nil
	case "quit", "exit":
		return ErrQuit
	case "config":
		return c.doConfig(args)
	case "start", "stop", "forcestop":
		return c.doRun(cmd, args)
	case "step":
		return c.doStep(args)
	case "period", "compare":
		return c.doRaw(cmd, args)
	case "prescaler":
		return c.doPrescaler(args)
	case "divider":
		return c.doDivider(args)
	case "output", "invert":
		return c.doOutput(cmd, args)
	case "mode":
		return c.doMode(args)
	case "aligned":
		return c.doAligned(args)
	case "group":
		return c.doGroup(args)
	case "deadzone":
		return c.doDeadZone(args)
	case "trigger":
		return c.doTrigger(args)
	case "int":
		return c.doInt(args)
	case "brake":
		return c.doBrake(args)
	case "fault":
		return c.doFault(args)
	case "clear":
		return c.doClear(args)
	case "irq":
		return c.doIRQ()
	case "status":
		return c.printStatus()
	case "regs":
		return c.printRegisters(len(args) > 0 && args[0] == "all")
	case "events":
		core.DumpEvents()
		return nil
	case "trace":
		return c.doTrace(args)
	case "load":
		return c.doLoad(args)
	}
	return errors.Errorf("unknown command %q (try help)", cmd)
}

var helpText = []struct{ usage, help string }{
	{"config <ch> <hz> <duty%>", "configure a channel"},
	{"start|stop|forcestop <mask>", "run control; mask is all, 0,2,5, 0b101 or 0x2D"},
	{"step <ch> [n]", "simulate n periods of a channel"},
	{"period|compare <ch> <value>", "write a raw period or compare register"},
	{"prescaler <pair> <1-256>", "set a pair's prescaler"},
	{"divider <ch> <1|2|4|8|16>", "set a channel's clock divider"},
	{"output|invert <mask> on|off", "route outputs to pins or invert them"},
	{"mode independent|complementary|synchronous", "pair operation mode"},
	{"aligned edge|center", "counter type"},
	{"group on|off", "pairs 1 and 2 follow pair 0"},
	{"deadzone <ch> <ticks>|off", "dead-zone insertion for a channel's pair"},
	{"trigger <ch> <cond>...|off", "ADC trigger: zero compare_down period compare_up"},
	{"int period|duty <ch> <type>|off", "period (underflow|period) or duty (down|up) interrupt"},
	{"int brake on|off", "fault brake interrupt"},
	{"brake <source> <mask> [high-mask]", "arm a fault brake (eint0 acmp1 eint1 acmp0)"},
	{"fault <source>", "simulate a fault on a brake input"},
	{"clear period|duty <ch> | brake <source> | brakeint <source> | trigger <ch>", "clear flags"},
	{"irq", "show and acknowledge pending interrupts"},
	{"status", "channel summary"},
	{"regs [all]", "register dump"},
	{"events", "dump the event ring"},
	{"trace on|off", "log register writes"},
	{"load <file.json>", "apply a board configuration"},
	{"quit", "leave the console"},
}

func (c *Console) printHelp() {
	for _, h := range helpText {
		fmt.Fprintf(c.out, "  %-48s %s\n", h.usage, h.help)
	}
}

func (c *Console) doConfig(args []string) error {
	if len(args) != 3 {
		return errors.New("usage: config <ch> <hz> <duty%>")
	}
	ch, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	hz, err := parseUint(args[1], 32)
	if err != nil {
		return err
	}
	duty, err := parseUint(strings.TrimSuffix(args[2], "%"), 32)
	if err != nil {
		return err
	}
	actual, err := c.pwm.ConfigureOutputChannel(ch, uint32(hz), uint32(duty))
	if err != nil {
		return errors.Wrapf(err, "config ch%d", ch)
	}
	s, _ := c.pwm.ChannelSettings(ch)
	if s.Halted() {
		fmt.Fprintf(c.out, "ch%d: period 0, counter halted\n", ch)
		return nil
	}
	fmt.Fprintf(c.out, "ch%d: %s (div=%d psc=%d period=%d cmp=%d)\n",
		ch, plan.FormatHz(actual), s.Divider.Factor(), s.Prescaler, s.Period, s.Compare)
	return nil
}

func (c *Console) doRun(cmd string, args []string) error {
	if len(args) != 1 {
		return errors.Errorf("usage: %s <mask>", cmd)
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return err
	}
	switch cmd {
	case "start":
		c.pwm.Start(mask)
	case "stop":
		c.pwm.Stop(mask)
	case "forcestop":
		c.pwm.ForceStop(mask)
	}
	fmt.Fprintf(c.out, "running: %s\n", formatMask(c.pwm.Running()))
	return nil
}

func (c *Console) doStep(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: step <ch> [n]")
	}
	ch, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	n := uint64(1)
	if len(args) == 2 {
		if n, err = parseUint(args[1], 16); err != nil {
			return err
		}
	}
	done := 0
	for i := uint64(0); i < n; i++ {
		if !c.sim.Step(ch) {
			break
		}
		done++
	}
	fmt.Fprintf(c.out, "ch%d: %d period(s)\n", ch, done)
	return nil
}

func (c *Console) doRaw(cmd string, args []string) error {
	if len(args) != 2 {
		return errors.Errorf("usage: %s <ch> <value>", cmd)
	}
	ch, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	v, err := parseUint(args[1], 16)
	if err != nil {
		return err
	}
	if cmd == "period" {
		return c.pwm.SetPeriod(ch, uint16(v))
	}
	return c.pwm.SetCompare(ch, uint16(v))
}

func (c *Console) doPrescaler(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: prescaler <pair> <1-256>")
	}
	pair, err := parseUint(args[0], 8)
	if err != nil {
		return err
	}
	psc, err := parseUint(args[1], 32)
	if err != nil {
		return err
	}
	return c.pwm.SetPrescaler(core.Pair(pair), uint32(psc))
}

func (c *Console) doDivider(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: divider <ch> <1|2|4|8|16>")
	}
	ch, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	factor, err := parseUint(args[1], 32)
	if err != nil {
		return err
	}
	d, err := core.DividerFor(uint32(factor))
	if err != nil {
		return err
	}
	return c.pwm.SetDivider(ch, d)
}

func (c *Console) doOutput(cmd string, args []string) error {
	if len(args) != 2 {
		return errors.Errorf("usage: %s <mask> on|off", cmd)
	}
	mask, err := ParseMask(args[0])
	if err != nil {
		return err
	}
	on, err := parseOnOff(args[1])
	if err != nil {
		return err
	}
	switch {
	case cmd == "output" && on:
		c.pwm.EnableOutput(mask)
	case cmd == "output":
		c.pwm.DisableOutput(mask)
	case on:
		c.pwm.EnableOutputInverter(mask)
	default:
		c.pwm.DisableOutputInverter(mask)
	}
	return nil
}

func (c *Console) doMode(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: mode independent|complementary|synchronous")
	}
	m, ok := board.ParseMode(args[0])
	if !ok {
		return errors.Errorf("unknown mode %q", args[0])
	}
	c.pwm.SetMode(m)
	return nil
}

func (c *Console) doAligned(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: aligned edge|center")
	}
	t, ok := board.ParseAligned(args[0])
	if !ok {
		return errors.Errorf("unknown aligned type %q", args[0])
	}
	c.pwm.SetAlignedType(t)
	return nil
}

func (c *Console) doGroup(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: group on|off")
	}
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	if on {
		c.pwm.EnableGroupMode()
	} else {
		c.pwm.DisableGroupMode()
	}
	return nil
}

func (c *Console) doDeadZone(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: deadzone <ch> <ticks>|off")
	}
	ch, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	if args[1] == "off" {
		c.pwm.DisableDeadZone(ch)
		return nil
	}
	ticks, err := parseUint(args[1], 32)
	if err != nil {
		return err
	}
	if ticks > core.MaxDeadZone {
		fmt.Fprintf(c.out, "warning: %d ticks truncated to %d\n", ticks, ticks&core.MaxDeadZone)
	}
	c.pwm.EnableDeadZone(ch, uint32(ticks))
	return nil
}

func (c *Console) doTrigger(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: trigger <ch> <cond>...|off")
	}
	ch, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	if args[1] == "off" {
		c.pwm.DisableADCTrigger(ch)
		return nil
	}
	var cond core.TriggerCondition
	for _, name := range args[1:] {
		tc, ok := board.ParseTrigger(name)
		if !ok {
			return errors.Errorf("unknown trigger condition %q", name)
		}
		cond |= tc
	}
	c.pwm.EnableADCTrigger(ch, cond)
	return nil
}

func (c *Console) doInt(args []string) error {
	if len(args) == 2 && args[0] == "brake" {
		on, err := parseOnOff(args[1])
		if err != nil {
			return err
		}
		if on {
			c.pwm.EnableFaultBrakeInt(core.BrakeEINT0)
		} else {
			c.pwm.DisableFaultBrakeInt(core.BrakeEINT0)
		}
		return nil
	}
	if len(args) != 3 || (args[0] != "period" && args[0] != "duty") {
		return errors.New("usage: int period|duty <ch> <type>|off, int brake on|off")
	}
	ch, err := parseChannel(args[1])
	if err != nil {
		return err
	}

	if args[0] == "period" {
		if args[2] == "off" {
			c.pwm.DisablePeriodInt(ch)
			return nil
		}
		t, ok := board.ParsePeriodIntType(args[2])
		if !ok {
			return errors.Errorf("unknown period interrupt type %q", args[2])
		}
		c.pwm.EnablePeriodInt(ch, t)
		return nil
	}

	if args[2] == "off" {
		c.pwm.DisableDutyInt(ch)
		return nil
	}
	t, ok := board.ParseDutyIntType(args[2])
	if !ok {
		return errors.Errorf("unknown duty interrupt type %q", args[2])
	}
	c.pwm.EnableDutyInt(ch, t)
	return nil
}

func (c *Console) doBrake(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: brake <source> <mask> [high-mask]")
	}
	src, err := parseBrakeSource(args[0])
	if err != nil {
		return err
	}
	mask, err := ParseMask(args[1])
	if err != nil {
		return err
	}
	var high core.ChannelMask
	if len(args) == 3 {
		if high, err = ParseMask(args[2]); err != nil {
			return err
		}
	}
	c.pwm.EnableFaultBrake(mask, high, src)
	return nil
}

func (c *Console) doFault(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: fault <source>")
	}
	src, err := parseBrakeSource(args[0])
	if err != nil {
		return err
	}
	if !c.sim.Fault(src) {
		fmt.Fprintf(c.out, "%s is not armed, no effect\n", src)
		return nil
	}
	fmt.Fprintf(c.out, "brake %d tripped by %s\n", src.Brake(), src)
	return nil
}

func (c *Console) doClear(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: clear period|duty|trigger <ch>, clear brake|brakeint <source>")
	}
	switch args[0] {
	case "brake", "brakeint":
		src, err := parseBrakeSource(args[1])
		if err != nil {
			return err
		}
		if args[0] == "brake" {
			c.pwm.ClearFaultBrakeFlag(src)
		} else {
			c.pwm.ClearFaultBrakeIntFlag(src)
		}
		return nil
	}

	ch, err := parseChannel(args[1])
	if err != nil {
		return err
	}
	switch args[0] {
	case "period":
		c.pwm.ClearPeriodIntFlag(ch)
	case "duty":
		c.pwm.ClearDutyIntFlag(ch)
	case "trigger":
		c.pwm.ClearADCTriggerFlag(ch, core.TriggerAll)
	default:
		return errors.Errorf("unknown flag %q", args[0])
	}
	return nil
}

func (c *Console) doIRQ() error {
	s := c.pwm.PendingInterrupts()
	if s.Empty() {
		fmt.Fprintln(c.out, "no interrupt pending")
		return nil
	}
	c.pwm.AcknowledgeInterrupts(s)
	core.RecordEvent(core.EvtIRQ, 0, uint32(s.Period)|uint32(s.Duty)<<8, 0)
	fmt.Fprintf(c.out, "period=%s duty=%s brake0=%v brake1=%v (acknowledged)\n",
		formatMask(s.Period), formatMask(s.Duty), s.Brake0, s.Brake1)
	return nil
}

func (c *Console) printStatus() error {
	running := c.pwm.Running()
	outputs := c.pwm.OutputEnabled()
	for ch := core.Channel(0); ch < core.NumChannels; ch++ {
		s, err := c.pwm.ChannelSettings(ch)
		if err != nil {
			return err
		}
		cnt, _ := c.pwm.Counter(ch)
		state := "stopped"
		if running.Has(ch) {
			state = "running"
		}
		fmt.Fprintf(c.out, "ch%d %-7s out=%-5v %9s duty=%3d%% div=%-2d psc=%-3d period=%-5d cmp=%-5d cnt=%d\n",
			ch, state, outputs.Has(ch), plan.FormatHz(s.Frequency(c.pwm.SourceClock())),
			s.DutyPercent(), s.Divider.Factor(), s.Prescaler, s.Period, s.Compare, cnt)
	}
	return nil
}

func (c *Console) printRegisters(all bool) error {
	r := &plan.Report{Registers: plan.Snapshot(c.sim), Writes: c.sim.Writes()}
	return r.WriteRegisters(c.out, all)
}

func (c *Console) doTrace(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: trace on|off")
	}
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	core.SetDebugEnabled(on)
	return nil
}

func (c *Console) doLoad(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <file.json>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.WithStack(err)
	}
	cfg, err := board.LoadConfig(data)
	if err != nil {
		return errors.Wrapf(err, "cannot parse %s", args[0])
	}
	results, err := cfg.Apply(c.pwm)
	if err != nil {
		return errors.Wrapf(err, "cannot apply %s", args[0])
	}
	for _, r := range results {
		fmt.Fprintf(c.out, "ch%d: %s\n", r.Channel, plan.FormatHz(r.ActualHz))
	}
	return nil
}

// ParseMask parses a channel mask: "all", a comma separated channel list
// ("0,2,5"), or a number in binary ("0b101"), hex ("0x2D") or decimal
func ParseMask(s string) (core.ChannelMask, error) {
	switch {
	case s == "all":
		return core.AllChannels, nil
	case strings.Contains(s, ","):
		var m core.ChannelMask
		for _, part := range strings.Split(s, ",") {
			ch, err := parseChannel(part)
			if err != nil {
				return 0, err
			}
			m |= ch.Mask()
		}
		return m, nil
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0x"):
		v, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return 0, errors.Errorf("invalid mask %q", s)
		}
		return core.ChannelMask(v), nil
	}
	ch, err := parseChannel(s)
	if err != nil {
		return 0, err
	}
	return ch.Mask(), nil
}

func formatMask(m core.ChannelMask) string {
	return fmt.Sprintf("0b%06b", uint32(m&core.AllChannels))
}

func parseChannel(s string) (core.Channel, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "ch"), 10, 8)
	if err != nil || !core.Channel(v).Valid() {
		return 0, errors.Wrapf(core.ErrInvalidChannel, "%q", s)
	}
	return core.Channel(v), nil
}

func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, errors.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, errors.Errorf("expected on or off, got %q", s)
}

func parseBrakeSource(s string) (core.BrakeSource, error) {
	src, ok := core.ParseBrakeSource(strings.ToLower(s))
	if !ok {
		return 0, errors.Errorf("unknown brake source %q", s)
	}
	return src, nil
}
