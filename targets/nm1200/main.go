//go:build tinygo && nm1200

package main

import (
	"runtime/volatile"

	"nmpwm/board"
	"nmpwm/core"
)

var pwm *core.PWM

func main() {
	InitClock()
	InitConsole()

	core.SetDebugWriter(ConsolePrintln)
	core.SetDebugEnabled(true)
	ConsolePrintln("nm1200 pwm firmware")

	pwm = core.New(core.NewMMIOBus(core.PWMBase), sourceClockHz)
	if _, err := board.DefaultConfig().Apply(pwm); err != nil {
		ConsolePrintln("pwm: board config rejected: " + err.Error())
		halt()
	}
	InitPWMInterrupt()
	printStatus()

	for {
		handleConsole()

		if tripped := volatile.LoadUint32(&brakeLatch); tripped != 0 {
			pwm.Atomic(func() {
				volatile.StoreUint32(&brakeLatch, volatile.LoadUint32(&brakeLatch)&^tripped)
			})
			ConsolePrintln("pwm: fault brake tripped, mask=" + itoa(int(tripped)) + " (send r to release)")
			core.DumpEvents()
		}
	}
}

// releaseBrakes clears the brake latches so the outputs resume
func releaseBrakes() {
	for _, src := range []core.BrakeSource{core.BrakeEINT0, core.BrakeEINT1, core.BrakeACMP0, core.BrakeACMP1} {
		if pwm.FaultBrakeEnabled(src) && pwm.FaultBrakeActive(src) {
			pwm.ClearFaultBrakeFlag(src)
			ConsolePrintln("pwm: released " + src.String())
		}
	}
}

// printStatus prints the running mask and each running channel's frequency
func printStatus() {
	running := pwm.Running()
	ConsolePrintln("pwm: running=" + itoa(int(running)) +
		" periods=" + itoa(int(volatile.LoadUint32(&periodCount))))
	for ch := core.Channel(0); ch < core.NumChannels; ch++ {
		if !running.Has(ch) {
			continue
		}
		hz, _ := pwm.OutputFrequency(ch)
		ConsolePrintln("pwm: ch" + itoa(int(ch)) + " hz=" + itoa(int(hz)))
	}
}

// halt stops all channels and parks the CPU, keeping the console alive
func halt() {
	pwm.ForceStop(core.AllChannels)
	core.DumpEvents()
	for {
		handleConsole()
	}
}

// itoa converts int to string without importing strconv (for embedded)
func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	negative := i < 0
	if negative {
		i = -i
	}

	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}
