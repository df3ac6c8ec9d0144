package core

// MaxDeadZone is the largest dead-zone duration the DTCTL field holds
const MaxDeadZone = PWM_DTCTL_DTI01_Msk

// EnableDeadZone inserts a dead time of ticks between the complementary
// outputs of ch's pair and enables it. The duration is written as is: it
// counts prescaler-output clocks of the pair, and callers convert from time
// themselves.
//
// The field is 8 bits wide. A ticks value above MaxDeadZone is not rejected:
// only its low 8 bits are written (300 becomes 44), and the neighbouring
// pair's duration is left alone. Check against MaxDeadZone first when the
// value comes from outside.
func (p *PWM) EnableDeadZone(ch Channel, ticks uint32) {
	if !ch.Valid() {
		return
	}
	pair := ch.Pair()
	shift := 8 * uint(pair)
	p.modify(RegDTCTL, PWM_DTCTL_DTI01_Msk<<shift, (ticks&PWM_DTCTL_DTI01_Msk)<<shift)
	p.setBits(RegCTL, PWM_CTL_DTEN01_Msk<<uint(pair))
}

// DisableDeadZone turns off dead-time insertion for ch's pair. The duration is kept.
func (p *PWM) DisableDeadZone(ch Channel) {
	if !ch.Valid() {
		return
	}
	p.clearBits(RegCTL, PWM_CTL_DTEN01_Msk<<uint(ch.Pair()))
}

// DeadZone returns the dead-zone duration of ch's pair and whether it is enabled
func (p *PWM) DeadZone(ch Channel) (ticks uint32, enabled bool) {
	if !ch.Valid() {
		return 0, false
	}
	pair := ch.Pair()
	ticks = (p.bus.Load(RegDTCTL) >> (8 * uint(pair))) & PWM_DTCTL_DTI01_Msk
	enabled = p.bus.Load(RegCTL)&(PWM_CTL_DTEN01_Msk<<uint(pair)) != 0
	return ticks, enabled
}
