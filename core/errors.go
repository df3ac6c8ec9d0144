package core

import "errors"

var (
	ErrInvalidChannel      = errors.New("pwm: invalid channel")
	ErrInvalidPair         = errors.New("pwm: invalid channel pair")
	ErrInvalidDuty         = errors.New("pwm: duty cycle out of range")
	ErrFrequencyOutOfRange = errors.New("pwm: frequency out of range")
	ErrInvalidPrescaler    = errors.New("pwm: prescaler out of range")
	ErrInvalidDivider      = errors.New("pwm: invalid clock divider")
)
