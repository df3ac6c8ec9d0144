//go:build tinygo

package core

import (
	"runtime/volatile"
	"unsafe"
)

// MMIOBus accesses a PWM block through its memory-mapped registers
type MMIOBus struct {
	base uintptr
}

// NewMMIOBus returns a bus for the PWM block at the given base address (normally PWMBase)
func NewMMIOBus(base uintptr) *MMIOBus {
	return &MMIOBus{base: base}
}

func (b *MMIOBus) reg(off Offset) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(b.base + uintptr(off)))
}

// Load reads a register with a volatile load
func (b *MMIOBus) Load(off Offset) uint32 {
	return b.reg(off).Get()
}

// Store writes a register with a volatile store
func (b *MMIOBus) Store(off Offset, value uint32) {
	b.reg(off).Set(value)
}
