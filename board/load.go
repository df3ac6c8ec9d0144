//go:build !tinygo

package board

import (
	"encoding/json"

	"nmpwm/core"
)

// LoadConfig parses a JSON board configuration and fills in defaults
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *Config) {
	if config.SourceClockHz == 0 {
		config.SourceClockHz = core.DefaultSourceClock
	}
	if config.Aligned == "" {
		config.Aligned = "edge"
	}
	if config.Mode == "" {
		config.Mode = "independent"
	}

	for i := range config.Channels {
		if config.Channels[i].FrequencyHz == 0 {
			config.Channels[i].FrequencyHz = DefaultFrequencyHz
		}
	}
}
