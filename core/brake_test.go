package core

import "testing"

func TestEnableFaultBrake(t *testing.T) {
	testCases := []struct {
		src   BrakeSource
		brake int
		ctl   uint32
	}{
		{BrakeEINT0, 0, PWM_BRKCTL_BRK0EN_Msk},
		{BrakeACMP1, 0, PWM_BRKCTL_BRK0EN_Msk | PWM_BRKCTL_BRK0SEL_Msk},
		{BrakeEINT1, 1, PWM_BRKCTL_BRK1EN_Msk},
		{BrakeACMP0, 1, PWM_BRKCTL_BRK1EN_Msk | PWM_BRKCTL_BRK1SEL_Msk},
	}

	for _, tc := range testCases {
		t.Run(tc.src.String(), func(t *testing.T) {
			p, sim := newTestPWM()
			p.EnableFaultBrake(Mask(0, 1, 2), Mask(1), tc.src)

			if tc.src.Brake() != tc.brake {
				t.Errorf("Expected brake %d, got %d", tc.brake, tc.src.Brake())
			}
			want := tc.ctl | 1<<(PWM_BRKCTL_BRKLV0_Pos+1)
			if got := sim.Load(RegBRKCTL); got != want {
				t.Errorf("Expected BRKCTL 0x%08X, got 0x%08X", want, got)
			}
			if !p.FaultBrakeEnabled(tc.src) {
				t.Error("Expected the source enabled")
			}
			if !sim.Fault(tc.src) {
				t.Fatal("Expected the fault to trip the brake")
			}
			if !p.FaultBrakeActive(tc.src) || !p.FaultBrakeIntFlag(tc.src) {
				t.Error("Expected latch and interrupt flag set")
			}

			p.ClearFaultBrakeFlag(tc.src)
			if p.FaultBrakeActive(tc.src) {
				t.Error("Expected latch released")
			}
			if got := sim.Load(RegBRKCTL); got != want {
				t.Errorf("Clearing the latch changed other bits: 0x%08X", got)
			}
		})
	}
}

func TestFaultBrakeSourceSelect(t *testing.T) {
	p, sim := newTestPWM()
	p.EnableFaultBrake(Mask(0), 0, BrakeEINT0)
	p.EnableFaultBrake(Mask(0), 0, BrakeACMP1)

	if p.FaultBrakeEnabled(BrakeEINT0) {
		t.Error("Selecting ACMP1 must replace EINT0 on brake 0")
	}
	if sim.Fault(BrakeEINT0) {
		t.Error("Deselected source must not trip the brake")
	}
	if p.FaultBrakeEnabled(BrakeEINT1) || p.FaultBrakeEnabled(BrakeACMP0) {
		t.Error("Brake 1 must stay disabled")
	}
}

func TestFaultBrakeLevels(t *testing.T) {
	p, _ := newTestPWM()
	p.EnableFaultBrake(Mask(0, 1), Mask(0, 1), BrakeEINT0)
	p.EnableFaultBrake(Mask(1, 4), Mask(4), BrakeEINT1)

	if got := p.BrakeLevels(); got != Mask(0, 4) {
		t.Errorf("Expected channels 0 and 4 driven high, got 0b%06b", got)
	}
	if !p.FaultBrakeEnabled(BrakeEINT0) || !p.FaultBrakeEnabled(BrakeEINT1) {
		t.Error("Expected both brakes enabled")
	}
}

func TestClearFaultBrakeFlagKeepsOtherLatch(t *testing.T) {
	p, sim := newTestPWM()
	p.EnableFaultBrake(Mask(0), 0, BrakeEINT0)
	p.EnableFaultBrake(Mask(2), 0, BrakeACMP0)
	p.EnableFaultBrake(Mask(0, 2), Mask(2), BrakeACMP0)
	sim.Fault(BrakeEINT0)
	sim.Fault(BrakeACMP0)

	const config = PWM_BRKCTL_BRK0EN_Msk | PWM_BRKCTL_BRK1EN_Msk |
		PWM_BRKCTL_BRK0SEL_Msk | PWM_BRKCTL_BRK1SEL_Msk | uint32(AllChannels)<<PWM_BRKCTL_BRKLV0_Pos
	before := sim.Load(RegBRKCTL) & config

	p.ClearFaultBrakeFlag(BrakeEINT0)
	if p.FaultBrakeActive(BrakeEINT0) {
		t.Error("Expected brake 0 released")
	}
	if after := sim.Load(RegBRKCTL) & config; after != before {
		t.Errorf("Enable, select and level bits changed: 0x%08X -> 0x%08X", before, after)
	}
	if !p.FaultBrakeEnabled(BrakeEINT0) || !p.FaultBrakeEnabled(BrakeACMP0) {
		t.Error("Clearing a latch must leave both brakes enabled")
	}
	if got := p.BrakeLevels(); got != Mask(2) {
		t.Errorf("Expected brake level 0b000100 kept, got 0b%06b", got)
	}
	if !p.FaultBrakeActive(BrakeACMP0) {
		t.Error("Brake 1 latch must survive clearing brake 0")
	}

	// A later read-modify-write must not clear the remaining latch either
	p.DisableFaultBrake(BrakeEINT0)
	if !p.FaultBrakeActive(BrakeACMP0) {
		t.Error("Disabling brake 0 must not release brake 1")
	}
	if p.FaultBrakeEnabled(BrakeEINT0) {
		t.Error("Expected brake 0 disabled")
	}
}

func TestParseBrakeSource(t *testing.T) {
	for _, name := range []string{"eint0", "acmp1", "eint1", "acmp0"} {
		src, ok := ParseBrakeSource(name)
		if !ok || src.String() != name {
			t.Errorf("ParseBrakeSource(%q) = %v, %v", name, src, ok)
		}
	}
	if _, ok := ParseBrakeSource("acmp2"); ok {
		t.Error("Expected acmp2 to be rejected")
	}
}
