package core

// ClockDivider is the CLKDIV selector code of a channel.
// The codes are not in divide order: divide-by-1 is 4.
type ClockDivider uint8

const (
	ClockDiv2  ClockDivider = 0
	ClockDiv4  ClockDivider = 1
	ClockDiv8  ClockDivider = 2
	ClockDiv16 ClockDivider = 3
	ClockDiv1  ClockDivider = 4
)

// Limits of the clock chain
const (
	MinPrescaler = 1
	MaxPrescaler = 256
	MaxPeriod    = 0xFFFF
	MaxDivide    = 16 * MaxPrescaler * (MaxPeriod + 1) // Slowest source clock to output ratio
)

// dividerSearchOrder is the order in which the configurator tries dividers:
// smallest divide first
var dividerSearchOrder = [...]ClockDivider{ClockDiv1, ClockDiv2, ClockDiv4, ClockDiv8, ClockDiv16}

// Valid reports whether d is one of the five selector codes
func (d ClockDivider) Valid() bool {
	return d <= ClockDiv1
}

// Factor returns the divide ratio of d, or 0 for an invalid code
func (d ClockDivider) Factor() uint32 {
	switch d {
	case ClockDiv1:
		return 1
	case ClockDiv2:
		return 2
	case ClockDiv4:
		return 4
	case ClockDiv8:
		return 8
	case ClockDiv16:
		return 16
	}
	return 0
}

// DividerFor returns the selector code for a divide ratio of 1, 2, 4, 8 or 16
func DividerFor(factor uint32) (ClockDivider, error) {
	for _, d := range dividerSearchOrder {
		if d.Factor() == factor {
			return d, nil
		}
	}
	return 0, ErrInvalidDivider
}

// Settings is the register quadruple that produces one channel's waveform
type Settings struct {
	Divider   ClockDivider
	Prescaler uint32 // Effective divide, 1-256 (CLKPSC holds Prescaler-1)
	Period    uint32 // PERIOD value, 0-65535. 0 halts the counter.
	Compare   uint32 // CMPDAT value, 0-Period
}

// Halted reports whether the settings stop the counter (period of 0)
func (s Settings) Halted() bool {
	return s.Period == 0
}

// Frequency returns the output frequency the settings produce from a clk Hz
// source: clk / (divider * prescaler * (period+1)), rounded down.
// A halted counter produces no output and reports 0.
func (s Settings) Frequency(clk uint32) uint32 {
	if s.Halted() || s.Prescaler == 0 || !s.Divider.Valid() {
		return 0
	}
	den := uint64(s.Divider.Factor()) * uint64(s.Prescaler) * (uint64(s.Period) + 1)
	return uint32(uint64(clk) / den)
}

// DutyPercent returns the duty cycle in percent the compare value represents
func (s Settings) DutyPercent() uint32 {
	if s.Halted() {
		return 0
	}
	return s.Compare * 100 / s.Period
}

// MinFrequency returns the lowest whole frequency in Hz reachable from a clk Hz source
func MinFrequency(clk uint32) uint32 {
	f := (uint64(clk) + MaxDivide - 1) / MaxDivide
	if f == 0 {
		f = 1
	}
	return uint32(f)
}

// ComputeSettings finds the divider, prescaler, period and compare values for
// a freq Hz output with duty percent on-time from a clk Hz source.
//
// Dividers are tried smallest first; for each one the smallest prescaler that
// keeps the period within 16 bits is used, and the first divider that admits
// such a prescaler wins. The period is round(clk/(div*psc*freq)) - 1.
//
// A frequency above 2/3 of the source clock rounds to a period of 0, which
// halts the counter. That is returned as valid settings with Halted() true.
func ComputeSettings(clk, freq, duty uint32) (Settings, error) {
	if duty > 100 {
		return Settings{}, ErrInvalidDuty
	}
	if freq == 0 || freq > clk {
		return Settings{}, ErrFrequencyOutOfRange
	}

	for _, div := range dividerSearchOrder {
		// Source clocks per prescaler step at this divider
		step := uint64(div.Factor()) * uint64(freq)

		// Smallest prescaler with clk/(step*psc) <= MaxPeriod+1
		span := step * (MaxPeriod + 1)
		psc := (uint64(clk) + span - 1) / span
		if psc < MinPrescaler {
			psc = MinPrescaler
		}
		if psc > MaxPrescaler {
			continue
		}

		den := step * psc
		period := (2*uint64(clk) + den) / (2 * den) // round(clk/den)
		if period > 0 {
			period--
		}
		if period > MaxPeriod {
			period = MaxPeriod
		}

		return Settings{
			Divider:   div,
			Prescaler: uint32(psc),
			Period:    uint32(period),
			Compare:   uint32(period * uint64(duty) / 100),
		}, nil
	}

	// Even divide-by-16 with the full prescaler cannot slow the clock enough
	return Settings{}, ErrFrequencyOutOfRange
}
