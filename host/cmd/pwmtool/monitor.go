package main

import (
	"context"
	"os"
	"time"

	terminate "github.com/pulcy/go-terminate"
	"golang.org/x/sync/errgroup"

	"nmpwm/host/monitor"
	"nmpwm/host/serial"
)

func runMonitor(args []string) error {
	var levelFlag string
	var device string
	var baud int
	var replayPath string
	var dumpInterval time.Duration

	fs := newFlagSet("monitor", &levelFlag)
	fs.StringVarP(&device, "device", "d", "/dev/ttyUSB0", "Serial device of the board console")
	fs.IntVarP(&baud, "baud", "b", serial.DefaultBaud, "Console baud rate")
	fs.StringVar(&replayPath, "replay", "", "Read a captured console log instead of a device")
	fs.DurationVar(&dumpInterval, "dump-interval", 0, "Ask the firmware for its event ring this often (0 = never)")
	if err := fs.Parse(args); err != nil {
		return maskAny(err)
	}
	log, err := newLogger(levelFlag)
	if err != nil {
		return err
	}

	m := monitor.New(log)
	if replayPath != "" {
		f, err := os.Open(replayPath)
		if err != nil {
			return maskAny(err)
		}
		defer f.Close()
		if err := m.Process(f); err != nil {
			return err
		}
		s := m.Stats()
		log.Info().Int("lines", s.Lines).Int("configures", s.Configures).
			Int("writes", s.Writes).Int("events", s.Events).Msg("Replay done")
		return nil
	}

	cfg := serial.DefaultConfig(device)
	cfg.Baud = baud
	if err := m.ConnectWithConfig(cfg); err != nil {
		return err
	}
	defer m.Close()

	// Stop on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		log.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.Run(ctx) })
	if dumpInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(dumpInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := m.RequestDump(); err != nil {
						return err
					}
				}
			}
		})
	}
	return g.Wait()
}
