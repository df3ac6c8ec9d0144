//go:build tinygo

package core

import "runtime/interrupt"

// Critical runs fn with interrupts disabled and restores the previous state
func Critical(fn func()) {
	state := interrupt.Disable()
	fn()
	interrupt.Restore(state)
}
