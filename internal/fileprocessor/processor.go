// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/frontend/desktop"
	"github.com/retroenv/retrochip8/internal/frontend/headless"
	"github.com/retroenv/retrochip8/internal/frontend/terminal"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrochip8/internal/writer"
	"github.com/retroenv/retrogolib/log"
)

// ProcessFile handles the complete file processing workflow: the ROM is
// either disassembled or run on the selected frontend.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, disasmOptions options.Disassembler) error {
	if _, err := detector.New(logger).Detect(opts); err != nil {
		return fmt.Errorf("detecting system: %w", err)
	}

	program, err := loader.New().Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	PrintInfo(logger, opts, len(program))

	if opts.Disasm {
		return disassemble(ctx, logger, opts, disasmOptions, program)
	}
	return emulate(ctx, logger, opts, program)
}

// PrintInfo prints the information about the input file.
func PrintInfo(logger *log.Logger, opts options.Program, size int) {
	if opts.Quiet {
		return
	}

	if opts.Disasm {
		logger.Info("Disassembling CHIP-8 ROM",
			log.String("file", opts.Input),
			log.Int("size", size),
		)
		return
	}

	logger.Info("Running CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", size),
		log.String("frontend", opts.Frontend),
	)
}

func disassemble(ctx context.Context, logger *log.Logger, opts options.Program,
	disasmOptions options.Disassembler, program []byte) error {

	app, err := disasm.New(logger, program).Process(ctx)
	if err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	output, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer closeWriter(logger, output)

	w := writer.New(app, output, writer.Options{
		HexComments:    disasmOptions.HexComments,
		OffsetComments: disasmOptions.OffsetComments,
		ZeroBytes:      disasmOptions.ZeroBytes,
	})
	if err := w.Write(); err != nil {
		return fmt.Errorf("writing disassembly: %w", err)
	}
	return nil
}

func emulate(ctx context.Context, logger *log.Logger, opts options.Program, program []byte) error {
	m := machine.New(config.MachineOptions(logger, opts)...)
	m.Load(program)
	runnerConfig := config.RunnerConfig(opts)

	switch opts.Frontend {
	case options.FrontendDesktop:
		if err := desktop.Run(ctx, logger, m, runnerConfig, opts.Scale); err != nil {
			return fmt.Errorf("running desktop frontend: %w", err)
		}
		return nil

	case options.FrontendTerminal:
		return runTerminal(ctx, logger, opts, m, runnerConfig)

	case options.FrontendHeadless:
		return runHeadless(ctx, logger, opts, m, runnerConfig)

	default:
		return fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}
}

func runTerminal(ctx context.Context, logger *log.Logger, opts options.Program,
	m *machine.Machine, runnerConfig runner.Config) (err error) {

	term, err := terminal.Open(logger, opts.HoldFrames)
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer func() {
		if closeErr := term.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing terminal: %w", closeErr)
		}
	}()

	if err := runner.New(logger, m, term, runnerConfig).Run(ctx); err != nil {
		return fmt.Errorf("running terminal frontend: %w", err)
	}
	return nil
}

// runHeadless runs the configured number of frames and writes the last
// presented frame as text.
func runHeadless(ctx context.Context, logger *log.Logger, opts options.Program,
	m *machine.Machine, runnerConfig runner.Config) error {

	frontend := headless.New(logger)
	r := runner.New(logger, m, frontend, runnerConfig)
	if err := r.Run(ctx); err != nil {
		return fmt.Errorf("running headless frontend: %w", err)
	}
	logger.Debug("Headless run finished",
		log.Int("frames", r.Frames()),
		log.Int("presented", frontend.Frames()),
		log.Int("tones", frontend.Tones()),
	)

	output, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer closeWriter(logger, output)

	if err := frontend.WriteFrame(output); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

func closeWriter(logger *log.Logger, w io.Writer) {
	file, ok := w.(*os.File)
	if !ok || file == os.Stdout {
		return
	}
	if err := file.Close(); err != nil {
		logger.Error("Closing output file failed", log.Err(err))
	}
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("retrochip8", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
