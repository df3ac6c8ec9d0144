// PWM peripheral access layer for the NM1200/NM1100 6-channel PWM block.
//
// All operations act on a PWM handle, which wraps the Bus of one physical
// block. The layer keeps no state of its own beyond the source clock
// frequency: everything else lives in the hardware registers.
//
// Several operations are read-modify-write sequences on shared registers
// (CTL, CLKPSC, INTEN...). They are not safe against an interrupt handler
// modifying the same register at the same time; wrap such calls in
// PWM.Atomic when main-line code and a handler share a register.
package core

// DefaultSourceClock is the PWM engine clock after reset (HCLK from the 24MHz HIRC)
const DefaultSourceClock = 24000000

// PWM is the handle for one PWM block
type PWM struct {
	bus   Bus
	clock uint32 // PWM engine clock in Hz
}

// New returns a handle for the PWM block behind bus, clocked at sourceClockHz
func New(bus Bus, sourceClockHz uint32) *PWM {
	return &PWM{
		bus:   bus,
		clock: sourceClockHz,
	}
}

// Bus returns the register access capability of the handle
func (p *PWM) Bus() Bus {
	return p.bus
}

// SourceClock returns the PWM engine clock in Hz
func (p *PWM) SourceClock() uint32 {
	return p.clock
}

// SetSourceClock updates the PWM engine clock used by frequency calculations.
// Call it after changing the clock tree; registers are not touched.
func (p *PWM) SetSourceClock(hz uint32) {
	p.clock = hz
}

// Atomic runs fn with interrupts disabled
func (p *PWM) Atomic(fn func()) {
	Critical(fn)
}

// modify clears then sets bits of a read/write register
func (p *PWM) modify(off Offset, clear, set uint32) {
	p.bus.Store(off, (p.bus.Load(off)&^clear)|set)
}

func (p *PWM) setBits(off Offset, bits uint32) {
	p.modify(off, 0, bits)
}

func (p *PWM) clearBits(off Offset, bits uint32) {
	p.modify(off, bits, 0)
}
