//go:build tinygo && nm1200

package main

import (
	"runtime/volatile"
	"unsafe"

	"nmpwm/core"
)

// UART0 is the console, as in the ISP sample
const (
	uart0Base = 0x40050000

	uartDAT     = 0x00 // TX/RX data
	uartFIFO    = 0x08 // FIFO control
	uartLINE    = 0x0C // Line control
	uartFIFOSTS = 0x18 // FIFO status
	uartBAUD    = 0x24 // Baud rate divider

	lineWordLen8    = 0x3
	fifoRXRST       = 1 << 1
	fifoTXRST       = 1 << 2
	fifostsRXEMPTY  = 1 << 14
	fifostsTXFULL   = 1 << 23
	baudMode2       = 0x3 << 28 // Divider mode 2: baud = clk / (BRD + 2)
	consoleBaud     = 115200
	consoleClockHz  = sourceClockHz
	consoleBRDValue = consoleClockHz/consoleBaud - 2
)

func uartReg(off uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(uart0Base) + off))
}

var consoleReady bool

// InitConsole configures UART0 for 115200 8N1
func InitConsole() {
	uartReg(uartFIFO).SetBits(fifoRXRST | fifoTXRST)
	uartReg(uartLINE).Set(lineWordLen8)
	uartReg(uartBAUD).Set(baudMode2 | consoleBRDValue)
	consoleReady = true
}

// ConsolePrint writes s to the console, waiting for FIFO space
func ConsolePrint(s string) {
	if !consoleReady {
		return
	}
	for i := 0; i < len(s); i++ {
		for uartReg(uartFIFOSTS).HasBits(fifostsTXFULL) {
		}
		uartReg(uartDAT).Set(uint32(s[i]))
	}
}

// ConsolePrintln writes s and a line break; installed as the core debug writer
func ConsolePrintln(s string) {
	ConsolePrint(s)
	ConsolePrint("\r\n")
}

// consoleReadByte returns the next received byte, if any
func consoleReadByte() (byte, bool) {
	if uartReg(uartFIFOSTS).HasBits(fifostsRXEMPTY) {
		return 0, false
	}
	return byte(uartReg(uartDAT).Get()), true
}

// handleConsole runs the single-letter console commands the host monitor sends:
// d dumps the event ring, v toggles debug output, r releases latched brakes,
// s prints the run state.
func handleConsole() {
	c, ok := consoleReadByte()
	if !ok {
		return
	}
	switch c {
	case 'd':
		core.DumpEvents()
	case 'v':
		core.SetDebugEnabled(!core.IsDebugEnabled())
	case 'r':
		releaseBrakes()
	case 's':
		printStatus()
	}
}
