//go:build !tinygo

package core

// Critical runs fn directly: regular Go builds have no interrupts to mask
func Critical(fn func()) {
	fn()
}
