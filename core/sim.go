package core

// SimBus is an in-memory PWM block for host tools and tests.
//
// It keeps the hardware semantics the layer depends on: INTSTS, ADCTSTS0/1
// and the BRKCTL latches are write-1-to-clear, CNT registers are read only,
// CNTCLR is write only and zeroes the selected counters, and PERIOD/CMPDAT
// writes are buffered until the channel reaches a period boundary.
type SimBus struct {
	regs   [regBlockSize / 4]uint32
	active [NumChannels]struct{ period, compare uint32 }
	writes int
}

// NewSimBus returns a simulated PWM block in its reset state
func NewSimBus() *SimBus {
	return &SimBus{}
}

func (s *SimBus) index(off Offset) (int, bool) {
	if off%4 != 0 || off >= regBlockSize {
		return 0, false
	}
	return int(off / 4), true
}

// Load reads a register
func (s *SimBus) Load(off Offset) uint32 {
	i, ok := s.index(off)
	if !ok || off == RegCNTCLR {
		return 0
	}
	return s.regs[i]
}

// Store writes a register with hardware semantics
func (s *SimBus) Store(off Offset, value uint32) {
	i, ok := s.index(off)
	if !ok {
		return
	}
	s.writes++

	switch {
	case off == RegINTSTS || off == RegADCTSTS0 || off == RegADCTSTS1:
		s.regs[i] &^= value
	case off == RegBRKCTL:
		latched := s.regs[i] & pwmBrkctlW1CMsk &^ value
		s.regs[i] = value&^pwmBrkctlW1CMsk | latched
	case off >= RegCNT0 && off < RegINTEN:
		// Counters are read only
	case off == RegCNTCLR:
		for ch := Channel(0); ch < NumChannels; ch++ {
			if value&(1<<ch) != 0 {
				s.regs[counterReg(ch)/4] = 0
			}
		}
	case off >= RegPERIOD0 && off < RegCNT0:
		s.regs[i] = value & MaxPeriod
	default:
		s.regs[i] = value
	}
}

// Writes returns the number of register writes since creation
func (s *SimBus) Writes() int {
	return s.writes
}

// Raise sets hardware-owned bits, as the hardware does when an event fires
// (flags in INTSTS/ADCTSTS, brake latches in BRKCTL, counter values)
func (s *SimBus) Raise(off Offset, bits uint32) {
	if i, ok := s.index(off); ok {
		s.regs[i] |= bits
	}
}

// Reload latches the buffered PERIOD and CMPDAT of ch, as at a period boundary
func (s *SimBus) Reload(ch Channel) {
	if !ch.Valid() {
		return
	}
	s.active[ch].period = s.regs[periodReg(ch)/4]
	s.active[ch].compare = s.regs[compareReg(ch)/4]
}

// Active returns the period and compare values ch is currently counting with
func (s *SimBus) Active(ch Channel) (period, compare uint32) {
	if !ch.Valid() {
		return 0, 0
	}
	return s.active[ch].period, s.active[ch].compare
}

// Step runs channel ch up to its next period boundary. It returns false
// without changing anything when the channel is stopped, and false after
// latching when the new period is 0 (counter halted). Otherwise the period
// and duty flags are raised, along with the ADC trigger flags of the
// channel's enabled conditions.
func (s *SimBus) Step(ch Channel) bool {
	if !ch.Valid() {
		return false
	}
	if s.regs[RegCTL/4]&(PWM_CTL_CNTEN0_Msk<<(4*uint(ch))) == 0 {
		return false
	}
	s.Reload(ch)
	period, compare := s.Active(ch)
	if period == 0 {
		return false
	}

	s.regs[counterReg(ch)/4] = period
	s.regs[RegINTSTS/4] |= 1 << (PWM_INTSTS_PIF0_Pos + uint(ch))
	if compare <= period {
		s.regs[RegINTSTS/4] |= 1 << (PWM_INTSTS_DIF0_Pos + uint(ch))
	}
	ctl, sts, shift := triggerRegs(ch)
	s.regs[sts/4] |= s.regs[ctl/4] & (uint32(TriggerAll) << shift)
	return true
}

// Fault simulates a fault on src: the brake latches and raises its interrupt
// flag if src is the enabled input of its brake
func (s *SimBus) Fault(src BrakeSource) bool {
	enable, selMsk, sel := src.ctlBits()
	v := s.regs[RegBRKCTL/4]
	if v&enable == 0 || v&selMsk != sel {
		return false
	}
	s.regs[RegBRKCTL/4] |= src.statusBit()
	s.regs[RegINTSTS/4] |= src.intFlag()
	return true
}
