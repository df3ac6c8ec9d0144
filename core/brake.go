package core

// BrakeSource is a fault signal routed to one of the two brakes.
// External interrupt 0 and comparator 1 feed brake 0; external interrupt 1
// and comparator 0 feed brake 1. The source-select bit of each brake picks
// between its two inputs, so only one source per brake is active at a time.
type BrakeSource uint8

const (
	BrakeEINT0 BrakeSource = iota // External interrupt 0 on brake 0
	BrakeACMP1                    // Analog comparator 1 on brake 0
	BrakeEINT1                    // External interrupt 1 on brake 1
	BrakeACMP0                    // Analog comparator 0 on brake 1
)

// Brake returns the brake (0 or 1) src is routed to
func (src BrakeSource) Brake() int {
	if src == BrakeEINT0 || src == BrakeACMP1 {
		return 0
	}
	return 1
}

// String returns the source name used by board configs
func (src BrakeSource) String() string {
	switch src {
	case BrakeEINT0:
		return "eint0"
	case BrakeACMP1:
		return "acmp1"
	case BrakeEINT1:
		return "eint1"
	case BrakeACMP0:
		return "acmp0"
	}
	return "unknown"
}

// ParseBrakeSource maps a board config name to a BrakeSource
func ParseBrakeSource(name string) (BrakeSource, bool) {
	for src := BrakeEINT0; src <= BrakeACMP0; src++ {
		if src.String() == name {
			return src, true
		}
	}
	return 0, false
}

// ctlBits returns the enable bit, select field and select value of src in BRKCTL
func (src BrakeSource) ctlBits() (enable, selMsk, sel uint32) {
	switch src {
	case BrakeEINT0:
		return PWM_BRKCTL_BRK0EN_Msk, PWM_BRKCTL_BRK0SEL_Msk, 0
	case BrakeACMP1:
		return PWM_BRKCTL_BRK0EN_Msk, PWM_BRKCTL_BRK0SEL_Msk, PWM_BRKCTL_BRK0SEL_Msk
	case BrakeEINT1:
		return PWM_BRKCTL_BRK1EN_Msk, PWM_BRKCTL_BRK1SEL_Msk, 0
	default:
		return PWM_BRKCTL_BRK1EN_Msk, PWM_BRKCTL_BRK1SEL_Msk, PWM_BRKCTL_BRK1SEL_Msk
	}
}

// statusBit returns the BRKCTL latch bit of src's brake
func (src BrakeSource) statusBit() uint32 {
	if src.Brake() == 0 {
		return PWM_BRKCTL_BRKSTS0_Msk
	}
	return PWM_BRKCTL_BRKSTS1_Msk
}

// intFlag returns the INTSTS flag bit of src's brake
func (src BrakeSource) intFlag() uint32 {
	if src.Brake() == 0 {
		return PWM_INTSTS_BRKIF0_Msk
	}
	return PWM_INTSTS_BRKIF1_Msk
}

// modifyBrakeCtl is modify for BRKCTL, which mixes read/write bits with
// write-1-to-clear latches: latches read back as 1 must not be written back.
func (p *PWM) modifyBrakeCtl(clear, set uint32) {
	v := p.bus.Load(RegBRKCTL) &^ pwmBrkctlW1CMsk
	p.bus.Store(RegBRKCTL, (v&^clear)|(set&^pwmBrkctlW1CMsk))
}

// EnableFaultBrake routes src to its brake and sets the level the channels
// in mask are driven to while braked: high when their bit in levelMask is
// set, low otherwise. Channels outside mask keep their brake level.
func (p *PWM) EnableFaultBrake(mask, levelMask ChannelMask, src BrakeSource) {
	levels := channelBits(mask, PWM_BRKCTL_BRKLV0_Pos, 1)
	high := channelBits(mask&levelMask, PWM_BRKCTL_BRKLV0_Pos, 1)
	enable, selMsk, sel := src.ctlBits()
	p.modifyBrakeCtl(levels|selMsk, high|enable|sel)
	recordEvent(EvtBrakeEnable, 0, uint32(src), uint32(mask&AllChannels))
}

// DisableFaultBrake stops the brake src feeds from reacting to faults
func (p *PWM) DisableFaultBrake(src BrakeSource) {
	enable, _, _ := src.ctlBits()
	p.modifyBrakeCtl(enable, 0)
}

// FaultBrakeEnabled reports whether src is the active, enabled input of its brake
func (p *PWM) FaultBrakeEnabled(src BrakeSource) bool {
	enable, selMsk, sel := src.ctlBits()
	v := p.bus.Load(RegBRKCTL)
	return v&enable != 0 && v&selMsk == sel
}

// BrakeLevels returns the channels driven high while braked
func (p *PWM) BrakeLevels() ChannelMask {
	return ChannelMask(p.bus.Load(RegBRKCTL)>>PWM_BRKCTL_BRKLV0_Pos) & AllChannels
}

// FaultBrakeActive reports whether the brake src feeds has latched a fault
func (p *PWM) FaultBrakeActive(src BrakeSource) bool {
	return p.bus.Load(RegBRKCTL)&src.statusBit() != 0
}

// ClearFaultBrakeFlag releases the latched fault of the brake src feeds so
// the outputs resume. The other brake's latch is left untouched.
func (p *PWM) ClearFaultBrakeFlag(src BrakeSource) {
	v := p.bus.Load(RegBRKCTL) &^ pwmBrkctlW1CMsk
	p.bus.Store(RegBRKCTL, v|src.statusBit())
	recordEvent(EvtBrakeClear, 0, uint32(src), 0)
}
