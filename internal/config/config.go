// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// MachineOptions returns the machine options for the program options. A zero
// seed keeps the randomly seeded default source.
func MachineOptions(logger *log.Logger, opts options.Program) []machine.Option {
	machineOptions := []machine.Option{
		machine.WithLogger(logger),
		machine.WithShiftQuirk(opts.ShiftQuirk),
	}
	if opts.Seed != 0 {
		machineOptions = append(machineOptions, machine.WithSeed(opts.Seed))
	}
	return machineOptions
}

// RunnerConfig returns the runner timing configuration for the program options.
func RunnerConfig(opts options.Program) runner.Config {
	cfg := runner.DefaultConfig()
	cfg.CyclesPerFrame = opts.Cycles
	cfg.FrameRate = opts.FrameRate
	cfg.MaxFrames = opts.Frames
	cfg.Trace = opts.Trace
	return cfg
}
