//go:build tinygo && nm1200

package main

import (
	"runtime/volatile"
	"unsafe"

	"nmpwm/core"
)

// System and clock controller registers used to bring up the PWM block
const (
	sysBase    = 0x50000000
	sysIPRST1  = sysBase + 0x0C // Peripheral reset control 1
	clkBase    = 0x50000200
	clkAPBCLK  = clkBase + 0x08 // APB peripheral clock enables
	clkCLKSEL1 = clkBase + 0x14 // Peripheral clock source select 1

	iprst1PWMRST   = 1 << 20
	apbclkPWMCKEN  = 0x7 << 20 // PWM01/23/45 clock enables
	apbclkUART0EN  = 1 << 16
	clkselPWMSrc   = 0x3 << 28 // PWM engine clock source
	clkselPWMHCLK  = 0x2 << 28
	clkselUARTSrc  = 0x3 << 24
	clkselUARTHCLK = 0x2 << 24
)

// sourceClockHz is the PWM engine clock: HCLK from the internal oscillator
const sourceClockHz = core.DefaultSourceClock

var (
	sysRST1 = (*volatile.Register32)(unsafe.Pointer(uintptr(sysIPRST1)))
	clkAPB  = (*volatile.Register32)(unsafe.Pointer(uintptr(clkAPBCLK)))
	clkSEL1 = (*volatile.Register32)(unsafe.Pointer(uintptr(clkCLKSEL1)))
)

// InitClock feeds HCLK to the PWM block and the console UART, enables their
// clocks and pulses the PWM reset so every PWM register starts from reset.
func InitClock() {
	clkSEL1.ReplaceBits(clkselPWMHCLK|clkselUARTHCLK, clkselPWMSrc|clkselUARTSrc, 0)
	clkAPB.SetBits(apbclkPWMCKEN | apbclkUART0EN)

	sysRST1.SetBits(iprst1PWMRST)
	sysRST1.ClearBits(iprst1PWMRST)
}
