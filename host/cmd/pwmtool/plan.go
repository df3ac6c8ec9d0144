package main

import (
	"os"

	"github.com/pkg/errors"

	"nmpwm/board"
	"nmpwm/host/plan"
)

func runPlan(args []string) error {
	var levelFlag string
	var configPath string
	var allRegisters bool

	fs := newFlagSet("plan", &levelFlag)
	fs.StringVarP(&configPath, "config", "f", "", "Board configuration (JSON); the built-in board when empty")
	fs.BoolVarP(&allRegisters, "all", "a", false, "Show registers left at 0")
	if err := fs.Parse(args); err != nil {
		return maskAny(err)
	}
	log, err := newLogger(levelFlag)
	if err != nil {
		return err
	}

	cfg := board.DefaultConfig()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return maskAny(err)
		}
		if cfg, err = board.LoadConfig(data); err != nil {
			return errors.Wrapf(err, "cannot parse %s", configPath)
		}
		log.Debug().Str("config", configPath).Int("channels", len(cfg.Channels)).Msg("Loaded board configuration")
	}

	report, err := plan.Run(cfg)
	if err != nil {
		return err
	}
	if err := report.WriteChannels(os.Stdout); err != nil {
		return maskAny(err)
	}
	os.Stdout.WriteString("\n")
	return maskAny(report.WriteRegisters(os.Stdout, allRegisters))
}
