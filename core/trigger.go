package core

// TriggerCondition is a set of counter events that start an ADC conversion
type TriggerCondition uint8

const (
	TriggerZero        TriggerCondition = PWM_ADCTCTL0_ZPTRGEN0_Msk // Counter reaches 0
	TriggerCompareDown TriggerCondition = PWM_ADCTCTL0_CDTRGEN0_Msk // Counter matches CMPDAT while counting down
	TriggerPeriod      TriggerCondition = PWM_ADCTCTL0_CPTRGEN0_Msk // Counter matches PERIOD
	TriggerCompareUp   TriggerCondition = PWM_ADCTCTL0_CUTRGEN0_Msk // Counter matches CMPDAT while counting up

	TriggerAll = TriggerZero | TriggerCompareDown | TriggerPeriod | TriggerCompareUp
)

// triggerRegs returns the control and status registers of ch's trigger byte
// and its bit offset. Channels 0-3 live in ADCTCTL0/ADCTSTS0, 4-5 in the *1 pair.
func triggerRegs(ch Channel) (ctl, sts Offset, shift uint) {
	if ch < 4 {
		return RegADCTCTL0, RegADCTSTS0, 8 * uint(ch)
	}
	return RegADCTCTL1, RegADCTSTS1, 8 * uint(ch-4)
}

// EnableADCTrigger makes channel ch trigger the ADC on the conditions in cond,
// replacing its previous condition set
func (p *PWM) EnableADCTrigger(ch Channel, cond TriggerCondition) {
	if !ch.Valid() {
		return
	}
	ctl, _, shift := triggerRegs(ch)
	p.modify(ctl, uint32(TriggerAll)<<shift, uint32(cond&TriggerAll)<<shift)
}

// DisableADCTrigger removes every trigger condition of channel ch
func (p *PWM) DisableADCTrigger(ch Channel) {
	if !ch.Valid() {
		return
	}
	ctl, _, shift := triggerRegs(ch)
	p.clearBits(ctl, uint32(TriggerAll)<<shift)
}

// ADCTriggerConditions returns the enabled trigger conditions of channel ch
func (p *PWM) ADCTriggerConditions(ch Channel) TriggerCondition {
	if !ch.Valid() {
		return 0
	}
	ctl, _, shift := triggerRegs(ch)
	return TriggerCondition(p.bus.Load(ctl)>>shift) & TriggerAll
}

// ClearADCTriggerFlag clears the trigger flags of channel ch selected by cond
func (p *PWM) ClearADCTriggerFlag(ch Channel, cond TriggerCondition) {
	if !ch.Valid() {
		return
	}
	_, sts, shift := triggerRegs(ch)
	p.bus.Store(sts, uint32(cond&TriggerAll)<<shift)
}

// ADCTriggerFlag returns the conditions that have triggered the ADC for
// channel ch since their flags were last cleared
func (p *PWM) ADCTriggerFlag(ch Channel) TriggerCondition {
	if !ch.Valid() {
		return 0
	}
	_, sts, shift := triggerRegs(ch)
	return TriggerCondition(p.bus.Load(sts)>>shift) & TriggerAll
}
