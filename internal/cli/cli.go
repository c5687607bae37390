// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.Usage = func() {}
	var opts options.Program
	readOptionFlags(flags, &opts)
	disasmOptions := options.NewDisassembler()
	noHexComments, noOffsets := readDisasmOptionFlags(flags, &disasmOptions)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, options.Disassembler{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Disassembler{}, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Disassembler{}, err
	}

	if len(args) > 0 {
		opts.Input = args[0]
	}

	// Apply inverse logic for hex comments and offsets
	opts.NoHexComments = *noHexComments
	opts.NoOffsets = *noOffsets
	disasmOptions.HexComments = !opts.NoHexComments
	disasmOptions.OffsetComments = !opts.NoOffsets
	opts.ZeroBytes = disasmOptions.ZeroBytes

	if err := validateOptionCombinations(opts); err != nil {
		return opts, options.Disassembler{}, err
	}

	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] <ROM file to run>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	if opts.Frontend == "tty" {
		opts.Frontend = options.FrontendTerminal
	}

	if slices.Contains(options.Frontends, opts.Frontend) {
		return nil
	}

	return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
		opts.Frontend, strings.Join(options.Frontends, ", "))
}

// validateOptionCombinations checks numeric ranges and options that can not
// be combined.
func validateOptionCombinations(opts options.Program) error {
	switch {
	case opts.Cycles < 1:
		return errors.New("cycles per frame must be at least 1")
	case opts.FrameRate < 0:
		return errors.New("frame rate can not be negative")
	case opts.Frames < 0:
		return errors.New("frame count can not be negative")
	case opts.Scale < 1:
		return errors.New("scale must be at least 1")
	case opts.HoldFrames < 1:
		return errors.New("key hold frames must be at least 1")
	case opts.Debug && opts.Quiet:
		return errors.New("debug and quiet mode can not be combined")
	case opts.Trace && !opts.Debug:
		return errors.New("instruction tracing requires debug logging")
	case !opts.Disasm && opts.Frontend == options.FrontendHeadless && opts.Frames == 0:
		return errors.New("headless frontend requires a frame count")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file for the disassembly or the final headless frame, printed on console if no name given")
	flags.StringVar(&opts.Frontend, "f", options.FrontendDesktop, "frontend to run the ROM with (desktop/headless/terminal)")
	flags.StringVar(&opts.System, "s", "", "system of the ROM (chip8) - if not auto-detected from file extension")
	flags.IntVar(&opts.Cycles, "cycles", 10, "number of instructions executed per frame")
	flags.IntVar(&opts.FrameRate, "fps", 60, "frames per second, 0 runs unthrottled")
	flags.IntVar(&opts.Frames, "frames", 0, "stop after the given number of frames, 0 runs until quit")
	flags.IntVar(&opts.Scale, "scale", 10, "size of a display pixel in window pixels for the desktop frontend")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 uses a random seed")
	flags.BoolVar(&opts.ShiftQuirk, "shift-vy", false, "shift instructions read the second register operand instead of the first")
	flags.IntVar(&opts.HoldFrames, "hold", 6, "number of frames a key stays pressed in the terminal frontend")
	flags.BoolVar(&opts.Disasm, "disasm", false, "disassemble the ROM instead of running it")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, requires -debug")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

func readDisasmOptionFlags(flags *flag.FlagSet, opts *options.Disassembler) (*bool, *bool) {
	noHexComments := flags.Bool("nohexcomments", false, "do not output opcode bytes as hex values in comments")
	noOffsets := flags.Bool("nooffsets", false, "do not output offsets in comments")
	flags.BoolVar(&opts.ZeroBytes, "z", false, "output the trailing zero bytes of the program")
	return noHexComments, noOffsets
}
