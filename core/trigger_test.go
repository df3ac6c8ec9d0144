package core

import "testing"

func TestADCTrigger(t *testing.T) {
	p, sim := newTestPWM()

	p.EnableADCTrigger(5, TriggerPeriod|TriggerZero)
	if got := p.ADCTriggerConditions(5); got != TriggerPeriod|TriggerZero {
		t.Errorf("Expected period|zero on ch5, got 0x%X", got)
	}
	if v := sim.Load(RegADCTCTL1); v != uint32(TriggerPeriod|TriggerZero)<<8 {
		t.Errorf("Expected ch5 conditions in byte 1 of ADCTCTL1, got 0x%08X", v)
	}

	// Enabling replaces the previous condition set
	p.EnableADCTrigger(5, TriggerCompareUp)
	if got := p.ADCTriggerConditions(5); got != TriggerCompareUp {
		t.Errorf("Expected only compare-up, got 0x%X", got)
	}

	p.EnableADCTrigger(2, TriggerCompareDown)
	p.DisableADCTrigger(5)
	if p.ADCTriggerConditions(5) != 0 {
		t.Error("Expected ch5 trigger disabled")
	}
	if p.ADCTriggerConditions(2) != TriggerCompareDown {
		t.Error("Disabling ch5 must not touch ch2")
	}
}

func TestADCTriggerFlags(t *testing.T) {
	p, sim := newTestPWM()
	p.ConfigureOutputChannel(1, 1000, 50)
	p.ConfigureOutputChannel(3, 1000, 50)
	p.EnableADCTrigger(1, TriggerPeriod|TriggerZero)
	p.EnableADCTrigger(3, TriggerPeriod)
	p.Start(Mask(1, 3))
	sim.Step(1)
	sim.Step(3)

	if got := p.ADCTriggerFlag(1); got != TriggerPeriod|TriggerZero {
		t.Fatalf("Expected period|zero flags on ch1, got 0x%X", got)
	}

	p.ClearADCTriggerFlag(1, TriggerZero)
	if got := p.ADCTriggerFlag(1); got != TriggerPeriod {
		t.Errorf("Expected only the zero flag cleared, got 0x%X", got)
	}
	if got := p.ADCTriggerFlag(3); got != TriggerPeriod {
		t.Errorf("Clearing ch1 must not touch ch3, got 0x%X", got)
	}

	p.ClearADCTriggerFlag(1, TriggerAll)
	if p.ADCTriggerFlag(1) != 0 {
		t.Error("Expected every ch1 flag cleared")
	}
}

func TestADCTriggerInvalidChannel(t *testing.T) {
	p, sim := newTestPWM()
	p.EnableADCTrigger(6, TriggerAll)
	p.DisableADCTrigger(6)
	p.ClearADCTriggerFlag(6, TriggerAll)
	if sim.Writes() != 0 {
		t.Errorf("Expected no writes for channel 6, got %d", sim.Writes())
	}
	if p.ADCTriggerFlag(6) != 0 || p.ADCTriggerConditions(6) != 0 {
		t.Error("Expected invalid channel to report nothing")
	}
}
