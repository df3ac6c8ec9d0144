// Package board describes how a board uses its PWM block: the source clock,
// block-wide modes and per-channel outputs, loaded from JSON on the host or
// built in for firmware, and applied onto a core.PWM in one go.
package board

import (
	"nmpwm/core"
)

// DefaultFrequencyHz is used for channels that leave frequency_hz unset
const DefaultFrequencyHz = 1000

// Config is the PWM plan of a board
type Config struct {
	SourceClockHz uint32           `json:"source_clock_hz"`
	Aligned       string           `json:"aligned"` // "edge" or "center"
	Mode          string           `json:"mode"`    // "independent", "complementary" or "synchronous"
	Group         bool             `json:"group"`   // Pairs 1 and 2 follow pair 0
	Channels      []ChannelConfig  `json:"channels"`
	Outputs       []int            `json:"outputs"`  // Channels routed to their pins
	Inverted      []int            `json:"inverted"` // Channels with an inverted output
	DeadZones     []DeadZoneConfig `json:"dead_zones"`
	Brakes        []BrakeConfig    `json:"brakes"`
}

// ChannelConfig is the waveform of one channel
type ChannelConfig struct {
	Channel     int      `json:"channel"`
	FrequencyHz uint32   `json:"frequency_hz"`
	DutyPercent uint32   `json:"duty_percent"`
	Start       bool     `json:"start"`
	ADCTrigger  []string `json:"adc_trigger"` // "zero", "compare_down", "period", "compare_up"
	PeriodInt   string   `json:"period_int"`  // "", "underflow" or "period"
	DutyInt     string   `json:"duty_int"`    // "", "down" or "up"
}

// DeadZoneConfig inserts a dead time between the outputs of a pair
type DeadZoneConfig struct {
	Pair  int    `json:"pair"`
	Ticks uint32 `json:"ticks"` // Prescaler-output clocks, 0-255
}

// BrakeConfig arms a fault brake
type BrakeConfig struct {
	Source    string `json:"source"`   // "eint0", "acmp1", "eint1" or "acmp0"
	Channels  []int  `json:"channels"` // Channels whose brake level is set
	High      []int  `json:"high"`     // Subset of Channels driven high while braked
	Interrupt bool   `json:"interrupt"`
}

// DefaultConfig returns the plan of the reference motor-drive board: a
// 20kHz complementary pair with dead time and a fault brake on EINT0, and a
// 1kHz channel that samples the ADC once per period.
func DefaultConfig() *Config {
	return &Config{
		SourceClockHz: core.DefaultSourceClock,
		Aligned:       "edge",
		Mode:          "complementary",
		Channels: []ChannelConfig{
			{
				Channel:     0,
				FrequencyHz: 20000,
				DutyPercent: 50,
				Start:       true,
				PeriodInt:   "period",
			},
			{
				Channel:     2,
				FrequencyHz: 1000,
				DutyPercent: 25,
				Start:       true,
				ADCTrigger:  []string{"period"},
			},
		},
		Outputs: []int{0, 1, 2},
		DeadZones: []DeadZoneConfig{
			{Pair: 0, Ticks: 24}, // 1us at 24MHz
		},
		Brakes: []BrakeConfig{
			{Source: "eint0", Channels: []int{0, 1}, Interrupt: true},
		},
	}
}
