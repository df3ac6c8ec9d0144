package board

import (
	"fmt"

	"nmpwm/core"
)

// ChannelResult is what a configured channel ended up producing
type ChannelResult struct {
	Channel     core.Channel
	RequestedHz uint32
	DutyPercent uint32
	Settings    core.Settings
	ActualHz    uint32 // Edge-aligned output frequency; 0 when the counter is halted
}

// Apply validates the plan and programs it onto p: block modes, channels,
// triggers, interrupts, outputs, dead zones and brakes, and finally starts
// the channels marked to start with a single write. The results are read
// back from the registers once every channel is configured.
func (c *Config) Apply(p *core.PWM) ([]ChannelResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	p.SetSourceClock(c.SourceClockHz)
	p.SetAlignedType(alignedTypes[c.Aligned])
	p.SetMode(modes[c.Mode])
	if c.Group {
		p.EnableGroupMode()
	} else {
		p.DisableGroupMode()
	}

	var start core.ChannelMask
	for _, cc := range c.Channels {
		ch := core.Channel(cc.Channel)
		if _, err := p.ConfigureOutputChannel(ch, cc.FrequencyHz, cc.DutyPercent); err != nil {
			return nil, fmt.Errorf("channel %d: %w", cc.Channel, err)
		}

		var cond core.TriggerCondition
		for _, name := range cc.ADCTrigger {
			cond |= triggerConditions[name]
		}
		if cond != 0 {
			p.EnableADCTrigger(ch, cond)
		} else {
			p.DisableADCTrigger(ch)
		}

		if t, ok := periodIntTypes[cc.PeriodInt]; ok {
			p.EnablePeriodInt(ch, t)
		}
		if t, ok := dutyIntTypes[cc.DutyInt]; ok {
			p.EnableDutyInt(ch, t)
		}
		if cc.Start {
			start |= ch.Mask()
		}
	}

	p.EnableOutput(maskOf(c.Outputs))
	p.EnableOutputInverter(maskOf(c.Inverted))

	for _, dz := range c.DeadZones {
		even, _ := core.Pair(dz.Pair).Channels()
		p.EnableDeadZone(even, dz.Ticks)
	}

	for _, bc := range c.Brakes {
		src, _ := core.ParseBrakeSource(bc.Source)
		p.EnableFaultBrake(maskOf(bc.Channels), maskOf(bc.High), src)
		if bc.Interrupt {
			p.EnableFaultBrakeInt(src)
		}
	}

	results := make([]ChannelResult, 0, len(c.Channels))
	for _, cc := range c.Channels {
		ch := core.Channel(cc.Channel)
		s, err := p.ChannelSettings(ch)
		if err != nil {
			return nil, err
		}
		results = append(results, ChannelResult{
			Channel:     ch,
			RequestedHz: cc.FrequencyHz,
			DutyPercent: cc.DutyPercent,
			Settings:    s,
			ActualHz:    s.Frequency(c.SourceClockHz),
		})
	}

	p.Start(start)
	return results, nil
}
