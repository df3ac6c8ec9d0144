package core

import (
	"strings"
	"testing"
)

// captureDebug enables debug output into a slice for the duration of the test
func captureDebug(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	SetDebugEnabled(true)
	ClearEvents()
	t.Cleanup(func() {
		SetDebugWriter(nil)
		SetDebugEnabled(false)
		ClearEvents()
	})
	return &lines
}

func TestConfigureDebugLine(t *testing.T) {
	lines := captureDebug(t)
	p, _ := newTestPWM()
	p.ConfigureOutputChannel(0, 1000, 50)

	want := "pwm: ch0 div=1 psc=1 period=23999 cmp=11999 hz=1000"
	if len(*lines) != 1 || (*lines)[0] != want {
		t.Errorf("Expected %q, got %q", want, *lines)
	}
}

func TestDebugDisabled(t *testing.T) {
	lines := captureDebug(t)
	SetDebugEnabled(false)
	DebugPrintln("hidden")
	p, _ := newTestPWM()
	p.ConfigureOutputChannel(0, 1000, 50)
	if len(*lines) != 0 {
		t.Errorf("Expected no output while disabled, got %q", *lines)
	}
	if IsDebugEnabled() {
		t.Error("Expected debug disabled")
	}
}

func TestEventRing(t *testing.T) {
	captureDebug(t)
	p, _ := newTestPWM()

	p.ConfigureOutputChannel(3, 1000, 50)
	p.Start(Mask(3))
	p.Stop(Mask(3))
	p.ForceStop(Mask(3))

	events := Events()
	if len(events) != 4 {
		t.Fatalf("Expected 4 events, got %d", len(events))
	}
	types := []uint8{EvtConfigure, EvtStart, EvtStop, EvtForceStop}
	for i, evt := range events {
		if evt.Type != types[i] {
			t.Errorf("Event %d: expected %s, got %s", i, EventName(types[i]), EventName(evt.Type))
		}
	}
	if events[0].Channel != 3 || events[0].Value1 != 1000 || events[0].Value2 != 23999 {
		t.Errorf("Unexpected configure event %+v", events[0])
	}
	if events[1].Value1 != uint32(Mask(3)) {
		t.Errorf("Expected start mask 0x8, got 0x%X", events[1].Value1)
	}
}

func TestEventRingWraps(t *testing.T) {
	captureDebug(t)
	for i := uint32(0); i < EventRingSize+5; i++ {
		RecordEvent(EvtIRQ, 0, i, 0)
	}

	events := Events()
	if len(events) != EventRingSize {
		t.Fatalf("Expected %d events, got %d", EventRingSize, len(events))
	}
	if events[0].Value1 != 5 || events[len(events)-1].Value1 != EventRingSize+4 {
		t.Errorf("Expected oldest 5 and newest %d, got %d and %d",
			EventRingSize+4, events[0].Value1, events[len(events)-1].Value1)
	}
}

func TestDumpEvents(t *testing.T) {
	lines := captureDebug(t)
	SetDebugEnabled(false)
	RecordEvent(EvtBrakeClear, 0, uint32(BrakeEINT1), 0)
	DumpEvents()

	got := strings.Join(*lines, "\n")
	if !strings.Contains(got, "[PWM] BRAKE_CLR ch=0 v1=2 v2=0") {
		t.Errorf("Unexpected dump:\n%s", got)
	}
	if EventName(99) != "UNKNOWN" {
		t.Error("Expected UNKNOWN for an unused event code")
	}
}

func TestTraceBus(t *testing.T) {
	lines := captureDebug(t)
	sim := NewSimBus()
	p := New(TraceBus{sim}, DefaultSourceClock)

	p.SetPeriod(4, 0xBEEF)
	if len(*lines) != 1 || (*lines)[0] != "pwm: PERIOD4 <- 0x0000BEEF" {
		t.Errorf("Unexpected trace %q", *lines)
	}
	if got := sim.Load(RegPERIOD0 + 16); got != 0xBEEF {
		t.Errorf("Expected the write forwarded, got 0x%X", got)
	}
}

func TestRegisterName(t *testing.T) {
	testCases := []struct {
		off  Offset
		name string
	}{
		{RegCTL, "CTL"},
		{RegPERIOD0 + 20, "PERIOD5"},
		{RegCMPDAT0, "CMPDAT0"},
		{RegCNT0 + 12, "CNT3"},
		{RegCNTCLR, "CNTCLR"},
		{0x7C, "0x0000007C"},
	}
	for _, tc := range testCases {
		if got := RegisterName(tc.off); got != tc.name {
			t.Errorf("RegisterName(0x%X) = %q, want %q", tc.off, got, tc.name)
		}
	}

	regs := Registers()
	if len(regs) != 31 || regs[0] != RegCLKPSC || regs[len(regs)-1] != RegCNTCLR {
		t.Errorf("Unexpected register list %v", regs)
	}
}

func TestUtoa(t *testing.T) {
	for n, want := range map[uint32]string{0: "0", 7: "7", 23999: "23999", 4294967295: "4294967295"} {
		if got := utoa(n); got != want {
			t.Errorf("utoa(%d) = %q, want %q", n, got, want)
		}
	}
}
