package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"nmpwm/core"
)

const projectName = "pwmtool"

var (
	projectVersion = "dev"
	maskAny        = errors.WithStack
)

type subcommand struct {
	name  string
	short string
	run   func(args []string) error
}

var subcommands = []subcommand{
	{"calc", "compute register settings for frequencies", runCalc},
	{"plan", "dry-run a board configuration", runPlan},
	{"shell", "interactive console over a simulated PWM block", runShell},
	{"monitor", "follow the firmware debug console", runMonitor},
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "--help" || os.Args[1] == "help" {
		usage()
		os.Exit(2)
	}
	if os.Args[1] == "version" {
		fmt.Printf("%s %s\n", projectName, projectVersion)
		return
	}

	for _, cmd := range subcommands {
		if cmd.name == os.Args[1] {
			if err := cmd.run(os.Args[2:]); err != nil {
				Exitf("%s failed: %v\n", cmd.name, err)
			}
			return
		}
	}
	usage()
	Exitf("Unknown command '%s'\n", os.Args[1])
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n\nCommands:\n", projectName)
	for _, cmd := range subcommands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(os.Stderr, "  %-8s %s\n", "version", "print the version")
}

// newFlagSet returns a flag set carrying the flags every command shares
func newFlagSet(name string, levelFlag *string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVarP(levelFlag, "level", "l", "info", "Set log level (debug|info|warn|error)")
	return fs
}

// newLogger builds the console logger and routes core debug output into it.
// Core debug lines are only produced at debug level.
func newLogger(levelFlag string) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(levelFlag)
	if err != nil {
		return zerolog.Logger{}, errors.Wrapf(err, "invalid log level %q", levelFlag)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	pwmLog := logger.With().Str("component", "pwm").Logger()
	core.SetDebugWriter(func(s string) {
		pwmLog.Debug().Msg(s)
	})
	core.SetDebugEnabled(level <= zerolog.DebugLevel)
	return logger, nil
}

// Exitf prints the given error message and exits with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
