// Package runner implements the outer timing loop of the virtual machine. It
// executes a fixed number of instructions per frame, presents changed frames
// and drives the tone of a frontend.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// ErrQuit is returned by a frontend when the user requested to quit.
var ErrQuit = errors.New("quit requested")

// Frontend presents the machine state and delivers input to the machine.
// All methods are called from the goroutine that runs the frames.
type Frontend interface {
	// Update applies pending input events to the machine.
	Update(m *machine.Machine) error
	// Present draws the display.
	Present(display *machine.Display) error
	// Tone starts or stops the tone.
	Tone(on bool) error
}

// Config controls the timing of the runner.
type Config struct {
	CyclesPerFrame int  // instructions executed per frame
	FrameRate      int  // frames per second, 0 runs unthrottled
	MaxFrames      int  // stop after this many frames, 0 runs until quit
	MinToneFrames  int  // minimum number of frames a tone is played
	Trace          bool // log every executed instruction at debug level
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() Config {
	return Config{
		CyclesPerFrame: 10,
		FrameRate:      60,
		MinToneFrames:  3,
	}
}

// Runner runs a machine and presents it on a frontend.
type Runner struct {
	logger   *log.Logger
	machine  *machine.Machine
	frontend Frontend
	config   Config

	frames          int
	remainingTone   int // frames left of the current tone
	toneOn          bool
	waitingReported bool
}

// New returns a new runner.
func New(logger *log.Logger, m *machine.Machine, frontend Frontend, config Config) *Runner {
	return &Runner{
		logger:   logger,
		machine:  m,
		frontend: frontend,
		config:   config,
	}
}

// Run executes frames until the context is cancelled, the frontend requests
// to quit or the configured number of frames was run.
func (r *Runner) Run(ctx context.Context) error {
	var ticks <-chan time.Time
	if r.config.FrameRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(r.config.FrameRate))
		defer ticker.Stop()
		ticks = ticker.C
	}

	err := r.run(ctx, ticks)
	if r.toneOn {
		if toneErr := r.frontend.Tone(false); toneErr != nil && err == nil {
			err = fmt.Errorf("stopping tone: %w", toneErr)
		}
		r.toneOn = false
	}
	return err
}

func (r *Runner) run(ctx context.Context, ticks <-chan time.Time) error {
	for !r.Done() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running frame %d: %w", r.frames, err)
		}

		if err := r.Frame(); err != nil {
			if errors.Is(err, ErrQuit) {
				r.logger.Debug("Quit requested", log.Int("frame", r.frames))
				return nil
			}
			return err
		}

		if ticks == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("running frame %d: %w", r.frames, ctx.Err())
		case <-ticks:
		}
	}
	return nil
}

// Done returns whether the configured number of frames was run.
func (r *Runner) Done() bool {
	return r.config.MaxFrames > 0 && r.frames >= r.config.MaxFrames
}

// Frame runs a single frame: input is applied, the configured number of
// instructions is executed, the display is presented if it changed and the
// tone is updated.
func (r *Runner) Frame() error {
	if err := r.frontend.Update(r.machine); err != nil {
		return fmt.Errorf("updating input: %w", err)
	}

	beeped := r.step()

	if r.machine.ShouldRedraw() {
		if err := r.frontend.Present(r.machine.Display()); err != nil {
			return fmt.Errorf("presenting frame: %w", err)
		}
	}

	if err := r.updateTone(beeped); err != nil {
		return err
	}

	r.frames++
	return nil
}

// Frames returns the number of frames that were run.
func (r *Runner) Frames() int {
	return r.frames
}

// step executes the instructions of a frame and returns whether the sound
// timer was active after any of them.
func (r *Runner) step() bool {
	beeped := r.machine.Beep()

	for range r.config.CyclesPerFrame {
		address := r.machine.PC()
		ins, executed := r.machine.Step()
		if !executed {
			if !r.waitingReported {
				r.logger.Debug("Waiting for key press", log.Hex("address", address))
				r.waitingReported = true
			}
			return beeped
		}
		r.waitingReported = false
		beeped = beeped || r.machine.Beep()

		if r.config.Trace {
			r.logger.Debug("Step",
				log.Hex("address", address),
				log.Hex("opcode", ins.Word),
				log.String("instruction", disasm.Format(ins)))
		}
	}
	return beeped
}

// updateTone keeps the tone playing while the sound timer is active and for
// at least the minimum number of tone frames.
func (r *Runner) updateTone(beeped bool) error {
	if beeped {
		r.remainingTone = max(r.config.MinToneFrames, 1)
	}

	on := r.remainingTone > 0
	if r.remainingTone > 0 {
		r.remainingTone--
	}

	if on == r.toneOn {
		return nil
	}
	if err := r.frontend.Tone(on); err != nil {
		return fmt.Errorf("switching tone: %w", err)
	}
	r.toneOn = on
	return nil
}
