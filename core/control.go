package core

// AlignedType selects edge- or center-aligned counting for the whole block
type AlignedType uint32

const (
	EdgeAligned   AlignedType = 0
	CenterAligned AlignedType = PWM_CTL_CNTTYPE_Msk
)

// Mode is the channel relationship mode of the block
type Mode uint32

const (
	ModeIndependent   Mode = 0
	ModeComplementary Mode = 1 // Odd channel outputs the inverse of the even one
	ModeSynchronous   Mode = 2 // Odd channel outputs the same waveform as the even one
)

// Start sets the run-enable bit of every channel in mask in one register write
func (p *PWM) Start(mask ChannelMask) {
	p.setBits(RegCTL, channelBits(mask, PWM_CTL_CNTEN0_Pos, 4))
	recordEvent(EvtStart, 0, uint32(mask&AllChannels), 0)
}

// Stop clears the run-enable bit of every channel in mask.
// The hardware lets the current period complete before the counter halts.
func (p *PWM) Stop(mask ChannelMask) {
	p.clearBits(RegCTL, channelBits(mask, PWM_CTL_CNTEN0_Pos, 4))
	recordEvent(EvtStop, 0, uint32(mask&AllChannels), 0)
}

// ForceStop clears the run-enable bit of every channel in mask and resets
// their counters immediately instead of waiting for the period to end.
func (p *PWM) ForceStop(mask ChannelMask) {
	p.clearBits(RegCTL, channelBits(mask, PWM_CTL_CNTEN0_Pos, 4))
	p.bus.Store(RegCNTCLR, uint32(mask&AllChannels))
	recordEvent(EvtForceStop, 0, uint32(mask&AllChannels), 0)
}

// Running returns the channels whose run-enable bit is set
func (p *PWM) Running() ChannelMask {
	ctl := p.bus.Load(RegCTL)
	var m ChannelMask
	for ch := Channel(0); ch < NumChannels; ch++ {
		if ctl&(PWM_CTL_CNTEN0_Msk<<(4*uint(ch))) != 0 {
			m |= ch.Mask()
		}
	}
	return m
}

// EnableOutput routes the channels in mask to their pins
func (p *PWM) EnableOutput(mask ChannelMask) {
	p.setBits(RegPOEN, uint32(mask&AllChannels))
}

// DisableOutput disconnects the channels in mask from their pins
func (p *PWM) DisableOutput(mask ChannelMask) {
	p.clearBits(RegPOEN, uint32(mask&AllChannels))
}

// OutputEnabled returns the channels routed to their pins
func (p *PWM) OutputEnabled() ChannelMask {
	return ChannelMask(p.bus.Load(RegPOEN)) & AllChannels
}

// EnableOutputInverter inverts the output of the channels in mask
func (p *PWM) EnableOutputInverter(mask ChannelMask) {
	p.setBits(RegCTL, channelBits(mask, PWM_CTL_PINV0_Pos, 4))
}

// DisableOutputInverter restores the normal output polarity of the channels in mask
func (p *PWM) DisableOutputInverter(mask ChannelMask) {
	p.clearBits(RegCTL, channelBits(mask, PWM_CTL_PINV0_Pos, 4))
}

// Inverted returns the channels with an inverted output
func (p *PWM) Inverted() ChannelMask {
	ctl := p.bus.Load(RegCTL)
	var m ChannelMask
	for ch := Channel(0); ch < NumChannels; ch++ {
		if ctl&(PWM_CTL_PINV0_Msk<<(4*uint(ch))) != 0 {
			m |= ch.Mask()
		}
	}
	return m
}

// SetAlignedType selects edge- or center-aligned counting for all channels
func (p *PWM) SetAlignedType(t AlignedType) {
	p.modify(RegCTL, PWM_CTL_CNTTYPE_Msk, uint32(t)&PWM_CTL_CNTTYPE_Msk)
}

// AlignedType returns the counting type of the block
func (p *PWM) AlignedType() AlignedType {
	return AlignedType(p.bus.Load(RegCTL) & PWM_CTL_CNTTYPE_Msk)
}

// SetMode selects independent, complementary or synchronous pair operation
func (p *PWM) SetMode(m Mode) {
	p.modify(RegCTL, PWM_CTL_MODE_Msk, (uint32(m)<<PWM_CTL_MODE_Pos)&PWM_CTL_MODE_Msk)
}

// Mode returns the pair operation mode of the block
func (p *PWM) Mode() Mode {
	return Mode((p.bus.Load(RegCTL) & PWM_CTL_MODE_Msk) >> PWM_CTL_MODE_Pos)
}

// EnableGroupMode makes pairs 1 and 2 follow the timing of pair 0
func (p *PWM) EnableGroupMode() {
	p.setBits(RegCTL, PWM_CTL_GROUPEN_Msk)
}

// DisableGroupMode lets every pair run on its own timing
func (p *PWM) DisableGroupMode() {
	p.clearBits(RegCTL, PWM_CTL_GROUPEN_Msk)
}

// GroupMode reports whether group mode is enabled
func (p *PWM) GroupMode() bool {
	return p.bus.Load(RegCTL)&PWM_CTL_GROUPEN_Msk != 0
}
