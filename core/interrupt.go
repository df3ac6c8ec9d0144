package core

// PeriodIntType selects when period interrupts fire. It is shared by all channels.
type PeriodIntType uint32

const (
	PeriodIntUnderflow   PeriodIntType = 0                      // Counter underflow
	PeriodIntMatchPeriod PeriodIntType = PWM_INTEN_PINTTYPE_Msk // Counter matches PERIOD
)

// DutyIntType selects the counting direction of duty interrupts in
// center-aligned mode. It is shared by all channels.
type DutyIntType uint32

const (
	DutyIntDownCount DutyIntType = 0
	DutyIntUpCount   DutyIntType = PWM_INTEN_DINTTYPE_Msk
)

// EnablePeriodInt enables the period interrupt of channel ch and sets the
// block-wide period interrupt type
func (p *PWM) EnablePeriodInt(ch Channel, t PeriodIntType) {
	if !ch.Valid() {
		return
	}
	p.modify(RegINTEN, PWM_INTEN_PINTTYPE_Msk,
		1<<(PWM_INTEN_PIEN0_Pos+uint(ch))|uint32(t)&PWM_INTEN_PINTTYPE_Msk)
}

// DisablePeriodInt disables the period interrupt of channel ch
func (p *PWM) DisablePeriodInt(ch Channel) {
	if !ch.Valid() {
		return
	}
	p.clearBits(RegINTEN, 1<<(PWM_INTEN_PIEN0_Pos+uint(ch)))
}

// ClearPeriodIntFlag clears the period interrupt flag of channel ch
func (p *PWM) ClearPeriodIntFlag(ch Channel) {
	if !ch.Valid() {
		return
	}
	p.bus.Store(RegINTSTS, 1<<(PWM_INTSTS_PIF0_Pos+uint(ch)))
}

// PeriodIntFlag reports whether the period interrupt flag of channel ch is set
func (p *PWM) PeriodIntFlag(ch Channel) bool {
	if !ch.Valid() {
		return false
	}
	return p.bus.Load(RegINTSTS)&(1<<(PWM_INTSTS_PIF0_Pos+uint(ch))) != 0
}

// EnableDutyInt enables the duty interrupt of channel ch and sets the
// block-wide duty interrupt type
func (p *PWM) EnableDutyInt(ch Channel, t DutyIntType) {
	if !ch.Valid() {
		return
	}
	p.modify(RegINTEN, PWM_INTEN_DINTTYPE_Msk,
		1<<(PWM_INTEN_DIEN0_Pos+uint(ch))|uint32(t)&PWM_INTEN_DINTTYPE_Msk)
}

// DisableDutyInt disables the duty interrupt of channel ch
func (p *PWM) DisableDutyInt(ch Channel) {
	if !ch.Valid() {
		return
	}
	p.clearBits(RegINTEN, 1<<(PWM_INTEN_DIEN0_Pos+uint(ch)))
}

// ClearDutyIntFlag clears the duty interrupt flag of channel ch
func (p *PWM) ClearDutyIntFlag(ch Channel) {
	if !ch.Valid() {
		return
	}
	p.bus.Store(RegINTSTS, 1<<(PWM_INTSTS_DIF0_Pos+uint(ch)))
}

// DutyIntFlag reports whether the duty interrupt flag of channel ch is set
func (p *PWM) DutyIntFlag(ch Channel) bool {
	if !ch.Valid() {
		return false
	}
	return p.bus.Load(RegINTSTS)&(1<<(PWM_INTSTS_DIF0_Pos+uint(ch))) != 0
}

// EnableFaultBrakeInt enables the fault brake interrupt. The enable bit is
// shared by both brakes, so src only documents the caller's intent.
func (p *PWM) EnableFaultBrakeInt(src BrakeSource) {
	p.setBits(RegINTEN, PWM_INTEN_BRKIEN_Msk)
}

// DisableFaultBrakeInt disables the fault brake interrupt of both brakes
func (p *PWM) DisableFaultBrakeInt(src BrakeSource) {
	p.clearBits(RegINTEN, PWM_INTEN_BRKIEN_Msk)
}

// ClearFaultBrakeIntFlag clears the interrupt flag of the brake src feeds.
// The other brake's flag is left untouched.
func (p *PWM) ClearFaultBrakeIntFlag(src BrakeSource) {
	p.bus.Store(RegINTSTS, src.intFlag())
}

// FaultBrakeIntFlag reports whether the brake src feeds has raised its interrupt flag
func (p *PWM) FaultBrakeIntFlag(src BrakeSource) bool {
	return p.bus.Load(RegINTSTS)&src.intFlag() != 0
}

// IRQStatus is a snapshot of the enabled interrupt flags of the block
type IRQStatus struct {
	Period ChannelMask // Channels with a pending period interrupt
	Duty   ChannelMask // Channels with a pending duty interrupt
	Brake0 bool
	Brake1 bool
}

// Empty reports whether nothing is pending
func (s IRQStatus) Empty() bool {
	return s.Period == 0 && s.Duty == 0 && !s.Brake0 && !s.Brake1
}

// bits returns the INTSTS bits covered by the snapshot
func (s IRQStatus) bits() uint32 {
	bits := uint32(s.Period&AllChannels)<<PWM_INTSTS_PIF0_Pos |
		uint32(s.Duty&AllChannels)<<PWM_INTSTS_DIF0_Pos
	if s.Brake0 {
		bits |= PWM_INTSTS_BRKIF0_Msk
	}
	if s.Brake1 {
		bits |= PWM_INTSTS_BRKIF1_Msk
	}
	return bits
}

// PendingInterrupts returns the flags that are set and whose interrupt is enabled
func (p *PWM) PendingInterrupts() IRQStatus {
	sts := p.bus.Load(RegINTSTS)
	en := p.bus.Load(RegINTEN)
	s := IRQStatus{
		Period: ChannelMask(sts>>PWM_INTSTS_PIF0_Pos&(en>>PWM_INTEN_PIEN0_Pos)) & AllChannels,
		Duty:   ChannelMask(sts>>PWM_INTSTS_DIF0_Pos&(en>>PWM_INTEN_DIEN0_Pos)) & AllChannels,
	}
	if en&PWM_INTEN_BRKIEN_Msk != 0 {
		s.Brake0 = sts&PWM_INTSTS_BRKIF0_Msk != 0
		s.Brake1 = sts&PWM_INTSTS_BRKIF1_Msk != 0
	}
	return s
}

// AcknowledgeInterrupts clears every flag in s with a single write
func (p *PWM) AcknowledgeInterrupts(s IRQStatus) {
	if bits := s.bits(); bits != 0 {
		p.bus.Store(RegINTSTS, bits)
	}
}
