//go:build tinygo && nm1200

package main

import (
	"runtime/interrupt"
	"runtime/volatile"

	"nmpwm/core"
)

// PWM interrupt number in the NVIC
const irqPWM = 6

var (
	periodCount uint32 // Period interrupts handled
	brakeLatch  uint32 // Bit 0/1 set when brake 0/1 has tripped, cleared by main loop
)

// InitPWMInterrupt installs the PWM handler and enables it in the NVIC
func InitPWMInterrupt() {
	intr := interrupt.New(irqPWM, pwmHandler)
	intr.SetPriority(0x40)
	intr.Enable()
}

// pwmHandler acknowledges every pending PWM interrupt with one write and
// leaves the reporting to the main loop
func pwmHandler(interrupt.Interrupt) {
	s := pwm.PendingInterrupts()
	if s.Empty() {
		return
	}
	pwm.AcknowledgeInterrupts(s)

	var brakes uint32
	if s.Brake0 {
		brakes |= 1
	}
	if s.Brake1 {
		brakes |= 2
	}
	if brakes != 0 {
		volatile.StoreUint32(&brakeLatch, volatile.LoadUint32(&brakeLatch)|brakes)
	}
	if s.Period != 0 {
		volatile.StoreUint32(&periodCount, volatile.LoadUint32(&periodCount)+1)
	}
	core.RecordEvent(core.EvtIRQ, 0, uint32(s.Period)|uint32(s.Duty)<<8, brakes)
}
