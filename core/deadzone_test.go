package core

import "testing"

func TestDeadZone(t *testing.T) {
	p, sim := newTestPWM()

	p.EnableDeadZone(3, 40)
	ticks, enabled := p.DeadZone(2)
	if ticks != 40 || !enabled {
		t.Errorf("Expected pair 1 dead zone 40 enabled, got %d %v", ticks, enabled)
	}
	if got := sim.Load(RegDTCTL); got != 40<<8 {
		t.Errorf("Expected DTCTL 0x%08X, got 0x%08X", 40<<8, got)
	}
	if _, enabled := p.DeadZone(0); enabled {
		t.Error("Pair 0 must stay disabled")
	}

	p.DisableDeadZone(2)
	ticks, enabled = p.DeadZone(3)
	if enabled || ticks != 40 {
		t.Errorf("Expected duration kept and disabled, got %d %v", ticks, enabled)
	}
}

func TestDeadZoneMasksDuration(t *testing.T) {
	p, _ := newTestPWM()
	p.EnableDeadZone(4, 7)
	p.EnableDeadZone(2, 0x1FF)

	if ticks, _ := p.DeadZone(2); ticks != 0xFF {
		t.Errorf("Expected duration masked to 0xFF, got 0x%X", ticks)
	}
	if ticks, enabled := p.DeadZone(5); ticks != 7 || !enabled {
		t.Errorf("Neighbouring pair must not change, got %d %v", ticks, enabled)
	}
	if ticks, _ := p.DeadZone(0); ticks != 0 {
		t.Errorf("Pair 0 must not change, got %d", ticks)
	}

	// Only the low 8 bits of an oversized duration are written
	p.EnableDeadZone(0, 300)
	if ticks, _ := p.DeadZone(0); ticks != 300&MaxDeadZone {
		t.Errorf("Expected 300 truncated to %d, got %d", 300&MaxDeadZone, ticks)
	}
	if ticks, _ := p.DeadZone(2); ticks != 0xFF {
		t.Errorf("Pair 1 must keep 0xFF, got 0x%X", ticks)
	}
}

func TestDeadZoneInvalidChannel(t *testing.T) {
	p, sim := newTestPWM()
	p.EnableDeadZone(6, 10)
	p.DisableDeadZone(6)
	if sim.Writes() != 0 {
		t.Errorf("Expected no writes, got %d", sim.Writes())
	}
	if ticks, enabled := p.DeadZone(6); ticks != 0 || enabled {
		t.Error("Expected invalid channel to report nothing")
	}
}
