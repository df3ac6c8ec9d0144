package core

// ConfigureOutputChannel programs channel ch for a freq Hz output with duty
// percent on-time and returns the frequency actually produced after integer
// rounding.
//
// It writes the channel's divider, its pair's prescaler, auto-reload mode,
// compare and period. The prescaler is shared with ch.Partner(): the
// partner keeps its own divider, period and compare but its output
// frequency follows the new prescaler. Period and compare take effect on the
// next period boundary. The channel is not started and the block-wide
// aligned type is left alone; the returned frequency assumes edge-aligned
// counting.
//
// If the request rounds to a period of 0 the counter will halt: the
// registers are still written and 0 is returned with a nil error.
func (p *PWM) ConfigureOutputChannel(ch Channel, freq, duty uint32) (uint32, error) {
	if !ch.Valid() {
		return 0, ErrInvalidChannel
	}
	s, err := ComputeSettings(p.clock, freq, duty)
	if err != nil {
		return 0, err
	}

	p.ApplySettings(ch, s)

	actual := s.Frequency(p.clock)
	recordEvent(EvtConfigure, ch, actual, s.Period)
	if debugEnabled {
		debugPrintln("pwm: ch" + utoa(uint32(ch)) +
			" div=" + utoa(s.Divider.Factor()) +
			" psc=" + utoa(s.Prescaler) +
			" period=" + utoa(s.Period) +
			" cmp=" + utoa(s.Compare) +
			" hz=" + utoa(actual))
	}
	return actual, nil
}

// ApplySettings writes precomputed settings for channel ch without validation
// of the frequency range. Invalid channels are ignored.
func (p *PWM) ApplySettings(ch Channel, s Settings) {
	if !ch.Valid() {
		return
	}
	p.writePrescaler(ch.Pair(), s.Prescaler)
	p.writeDivider(ch, s.Divider)
	p.setBits(RegCTL, PWM_CTL_CNTMODE0_Msk<<(4*uint(ch)))
	p.bus.Store(compareReg(ch), s.Compare&MaxPeriod)
	p.bus.Store(periodReg(ch), s.Period&MaxPeriod)
}

// ChannelSettings reads back the register quadruple of channel ch
func (p *PWM) ChannelSettings(ch Channel) (Settings, error) {
	if !ch.Valid() {
		return Settings{}, ErrInvalidChannel
	}
	return Settings{
		Divider:   p.readDivider(ch),
		Prescaler: p.readPrescaler(ch.Pair()),
		Period:    p.bus.Load(periodReg(ch)) & MaxPeriod,
		Compare:   p.bus.Load(compareReg(ch)) & MaxPeriod,
	}, nil
}

// OutputFrequency returns the frequency channel ch produces with the current
// register contents, including its pair's shared prescaler. A halted
// counter reports 0.
func (p *PWM) OutputFrequency(ch Channel) (uint32, error) {
	s, err := p.ChannelSettings(ch)
	if err != nil {
		return 0, err
	}
	return s.Frequency(p.clock), nil
}

// SetPrescaler sets the prescaler (1-256) of pair. Both channels of the pair change.
func (p *PWM) SetPrescaler(pair Pair, prescaler uint32) error {
	if !pair.Valid() {
		return ErrInvalidPair
	}
	if prescaler < MinPrescaler || prescaler > MaxPrescaler {
		return ErrInvalidPrescaler
	}
	p.writePrescaler(pair, prescaler)
	return nil
}

// Prescaler returns the effective prescaler (1-256) of pair
func (p *PWM) Prescaler(pair Pair) (uint32, error) {
	if !pair.Valid() {
		return 0, ErrInvalidPair
	}
	return p.readPrescaler(pair), nil
}

// SetDivider sets the clock divider selector of channel ch
func (p *PWM) SetDivider(ch Channel, d ClockDivider) error {
	if !ch.Valid() {
		return ErrInvalidChannel
	}
	if !d.Valid() {
		return ErrInvalidDivider
	}
	p.writeDivider(ch, d)
	return nil
}

// Divider returns the clock divider selector of channel ch
func (p *PWM) Divider(ch Channel) (ClockDivider, error) {
	if !ch.Valid() {
		return 0, ErrInvalidChannel
	}
	return p.readDivider(ch), nil
}

// SetPeriod writes the period register of channel ch. The new value takes
// effect on the next period; 0 halts the counter.
func (p *PWM) SetPeriod(ch Channel, period uint16) error {
	if !ch.Valid() {
		return ErrInvalidChannel
	}
	p.bus.Store(periodReg(ch), uint32(period))
	return nil
}

// SetCompare writes the compare register of channel ch. The new value takes
// effect on the next period. A compare above the period is not rejected;
// the output then stays at its active level for the whole period.
func (p *PWM) SetCompare(ch Channel, compare uint16) error {
	if !ch.Valid() {
		return ErrInvalidChannel
	}
	p.bus.Store(compareReg(ch), uint32(compare))
	return nil
}

// Period returns the period register of channel ch
func (p *PWM) Period(ch Channel) (uint16, error) {
	if !ch.Valid() {
		return 0, ErrInvalidChannel
	}
	return uint16(p.bus.Load(periodReg(ch))), nil
}

// Compare returns the compare register of channel ch
func (p *PWM) Compare(ch Channel) (uint16, error) {
	if !ch.Valid() {
		return 0, ErrInvalidChannel
	}
	return uint16(p.bus.Load(compareReg(ch))), nil
}

// Counter returns the live counter value of channel ch
func (p *PWM) Counter(ch Channel) (uint16, error) {
	if !ch.Valid() {
		return 0, ErrInvalidChannel
	}
	return uint16(p.bus.Load(counterReg(ch))), nil
}

func (p *PWM) writePrescaler(pair Pair, prescaler uint32) {
	shift := 8 * uint(pair)
	p.modify(RegCLKPSC, PWM_CLKPSC_CLKPSC01_Msk<<shift, ((prescaler-1)&PWM_CLKPSC_CLKPSC01_Msk)<<shift)
}

func (p *PWM) readPrescaler(pair Pair) uint32 {
	return (p.bus.Load(RegCLKPSC)>>(8*uint(pair)))&PWM_CLKPSC_CLKPSC01_Msk + 1
}

func (p *PWM) writeDivider(ch Channel, d ClockDivider) {
	shift := 4 * uint(ch)
	p.modify(RegCLKDIV, PWM_CLKDIV_CLKDIV0_Msk<<shift, uint32(d)<<shift)
}

func (p *PWM) readDivider(ch Channel) ClockDivider {
	return ClockDivider((p.bus.Load(RegCLKDIV) >> (4 * uint(ch))) & PWM_CLKDIV_CLKDIV0_Msk)
}
