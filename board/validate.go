package board

import (
	"fmt"

	aerr "github.com/ewoutp/go-aggregate-error"

	"nmpwm/core"
)

var alignedTypes = map[string]core.AlignedType{
	"edge":   core.EdgeAligned,
	"center": core.CenterAligned,
}

var modes = map[string]core.Mode{
	"independent":   core.ModeIndependent,
	"complementary": core.ModeComplementary,
	"synchronous":   core.ModeSynchronous,
}

var triggerConditions = map[string]core.TriggerCondition{
	"zero":         core.TriggerZero,
	"compare_down": core.TriggerCompareDown,
	"period":       core.TriggerPeriod,
	"compare_up":   core.TriggerCompareUp,
}

var periodIntTypes = map[string]core.PeriodIntType{
	"underflow": core.PeriodIntUnderflow,
	"period":    core.PeriodIntMatchPeriod,
}

var dutyIntTypes = map[string]core.DutyIntType{
	"down": core.DutyIntDownCount,
	"up":   core.DutyIntUpCount,
}

// Validate checks the whole plan and reports every problem found.
//
// Besides range checks it catches plans the hardware cannot produce: two
// channels of a pair needing different prescalers, conflicting block-wide
// interrupt types, and two sources configured on the same brake.
func (c *Config) Validate() error {
	var ae aerr.AggregateError

	if c.SourceClockHz == 0 {
		ae.Add(fmt.Errorf("source clock must be set"))
	}
	if _, ok := alignedTypes[c.Aligned]; !ok {
		ae.Add(fmt.Errorf("unknown aligned type %q", c.Aligned))
	}
	if _, ok := modes[c.Mode]; !ok {
		ae.Add(fmt.Errorf("unknown mode %q", c.Mode))
	}

	type pairUse struct {
		channel   int
		prescaler uint32
	}
	seen := make(map[int]bool)
	pairs := make(map[core.Pair]pairUse)
	var periodInt, dutyInt string

	for _, cc := range c.Channels {
		if !validChannel(cc.Channel) {
			ae.Add(fmt.Errorf("channel %d: %w", cc.Channel, core.ErrInvalidChannel))
			continue
		}
		if seen[cc.Channel] {
			ae.Add(fmt.Errorf("channel %d configured twice", cc.Channel))
			continue
		}
		seen[cc.Channel] = true

		if c.SourceClockHz != 0 {
			s, err := core.ComputeSettings(c.SourceClockHz, cc.FrequencyHz, cc.DutyPercent)
			if err != nil {
				ae.Add(fmt.Errorf("channel %d: %w", cc.Channel, err))
			} else {
				pair := core.Channel(cc.Channel).Pair()
				if prev, ok := pairs[pair]; ok && prev.prescaler != s.Prescaler {
					ae.Add(fmt.Errorf("channels %d and %d share pair %d but need prescalers %d and %d",
						prev.channel, cc.Channel, pair, prev.prescaler, s.Prescaler))
				} else if !ok {
					pairs[pair] = pairUse{cc.Channel, s.Prescaler}
				}
			}
		}

		for _, name := range cc.ADCTrigger {
			if _, ok := triggerConditions[name]; !ok {
				ae.Add(fmt.Errorf("channel %d: unknown ADC trigger %q", cc.Channel, name))
			}
		}
		if cc.PeriodInt != "" {
			if _, ok := periodIntTypes[cc.PeriodInt]; !ok {
				ae.Add(fmt.Errorf("channel %d: unknown period interrupt type %q", cc.Channel, cc.PeriodInt))
			} else if periodInt != "" && periodInt != cc.PeriodInt {
				ae.Add(fmt.Errorf("channel %d: period interrupt type %q conflicts with %q", cc.Channel, cc.PeriodInt, periodInt))
			} else {
				periodInt = cc.PeriodInt
			}
		}
		if cc.DutyInt != "" {
			if _, ok := dutyIntTypes[cc.DutyInt]; !ok {
				ae.Add(fmt.Errorf("channel %d: unknown duty interrupt type %q", cc.Channel, cc.DutyInt))
			} else if dutyInt != "" && dutyInt != cc.DutyInt {
				ae.Add(fmt.Errorf("channel %d: duty interrupt type %q conflicts with %q", cc.Channel, cc.DutyInt, dutyInt))
			} else {
				dutyInt = cc.DutyInt
			}
		}
	}

	checkChannels(&ae, "outputs", c.Outputs)
	checkChannels(&ae, "inverted", c.Inverted)

	deadZones := make(map[int]bool)
	for _, dz := range c.DeadZones {
		if dz.Pair < 0 || !core.Pair(dz.Pair).Valid() {
			ae.Add(fmt.Errorf("dead zone pair %d: %w", dz.Pair, core.ErrInvalidPair))
			continue
		}
		if deadZones[dz.Pair] {
			ae.Add(fmt.Errorf("dead zone for pair %d configured twice", dz.Pair))
		}
		deadZones[dz.Pair] = true
		if dz.Ticks > core.MaxDeadZone {
			ae.Add(fmt.Errorf("dead zone for pair %d: %d ticks exceeds %d", dz.Pair, dz.Ticks, core.MaxDeadZone))
		}
	}

	brakes := make(map[int]string)
	for _, bc := range c.Brakes {
		src, ok := core.ParseBrakeSource(bc.Source)
		if !ok {
			ae.Add(fmt.Errorf("unknown brake source %q", bc.Source))
			continue
		}
		if prev, ok := brakes[src.Brake()]; ok {
			ae.Add(fmt.Errorf("brake %d: sources %s and %s are exclusive", src.Brake(), prev, bc.Source))
		}
		brakes[src.Brake()] = bc.Source
		checkChannels(&ae, "brake "+bc.Source, bc.Channels)
		checkChannels(&ae, "brake "+bc.Source+" high", bc.High)
		if outside := maskOf(bc.High) &^ maskOf(bc.Channels); outside != 0 {
			ae.Add(fmt.Errorf("brake %s: high channels 0b%06b are not in its channel list", bc.Source, outside))
		}
	}

	return ae.AsError()
}

func validChannel(ch int) bool {
	return ch >= 0 && core.Channel(ch).Valid()
}

func checkChannels(ae *aerr.AggregateError, what string, channels []int) {
	for _, ch := range channels {
		if !validChannel(ch) {
			ae.Add(fmt.Errorf("%s: channel %d: %w", what, ch, core.ErrInvalidChannel))
		}
	}
}

// maskOf turns a channel list into a mask; invalid entries are dropped
func maskOf(channels []int) core.ChannelMask {
	var m core.ChannelMask
	for _, ch := range channels {
		if validChannel(ch) {
			m |= core.Channel(ch).Mask()
		}
	}
	return m
}

// ParseAligned maps "edge" or "center" to its aligned type
func ParseAligned(name string) (core.AlignedType, bool) {
	t, ok := alignedTypes[name]
	return t, ok
}

// ParseMode maps a mode name to its core.Mode
func ParseMode(name string) (core.Mode, bool) {
	m, ok := modes[name]
	return m, ok
}

// ParseTrigger maps an ADC trigger condition name to its condition
func ParseTrigger(name string) (core.TriggerCondition, bool) {
	cond, ok := triggerConditions[name]
	return cond, ok
}

// ParsePeriodIntType maps "underflow" or "period" to a period interrupt type
func ParsePeriodIntType(name string) (core.PeriodIntType, bool) {
	t, ok := periodIntTypes[name]
	return t, ok
}

// ParseDutyIntType maps "down" or "up" to a duty interrupt type
func ParseDutyIntType(name string) (core.DutyIntType, bool) {
	t, ok := dutyIntTypes[name]
	return t, ok
}
