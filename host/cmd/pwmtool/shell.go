package main

import (
	"fmt"
	"io"
	"os"

	"nmpwm/core"
	"nmpwm/host/console"
)

func runShell(args []string) error {
	var levelFlag string
	var clock uint32
	var scriptPath string

	fs := newFlagSet("shell", &levelFlag)
	fs.Uint32VarP(&clock, "clock", "c", core.DefaultSourceClock, "PWM engine clock in Hz")
	fs.StringVarP(&scriptPath, "script", "s", "", "Run commands from a file instead of stdin")
	if err := fs.Parse(args); err != nil {
		return maskAny(err)
	}
	log, err := newLogger(levelFlag)
	if err != nil {
		return err
	}
	// Register traces are switched with the trace command
	core.SetDebugEnabled(false)

	in := io.Reader(os.Stdin)
	interactive := true
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return maskAny(err)
		}
		defer f.Close()
		in = f
		interactive = false
	}

	if interactive {
		fmt.Printf("%s %s: simulated PWM block at %d Hz, type help for commands\n", projectName, projectVersion, clock)
	}
	c := console.New(clock, os.Stdout, log)
	return c.Run(in, interactive)
}
