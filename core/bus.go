package core

// Bus is the register access capability for one PWM block.
// Every operation on a PWM handle goes through its Bus, so the same
// code drives the memory-mapped hardware and the host simulator.
type Bus interface {
	// Load reads the 32-bit register at off
	Load(off Offset) uint32

	// Store writes the 32-bit register at off.
	// Write-1-to-clear and read-only registers keep their hardware semantics.
	Store(off Offset, value uint32)
}
