// Package desktop implements a windowed frontend with keyboard input and an
// audible tone, based on the ebiten game library.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrochip8/internal/keymap"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/image/colornames"
)

// DefaultScale is the default size of a display pixel in window pixels.
const DefaultScale = 10

const windowTitle = "retrochip8"

var (
	foreground color.RGBA = colornames.White
	background color.RGBA = colornames.Black
)

// physical keys of the keymap bindings
var ebitenKeys = map[rune]ebiten.Key{
	'1': ebiten.Key1, '2': ebiten.Key2, '3': ebiten.Key3, '4': ebiten.Key4,
	'q': ebiten.KeyQ, 'w': ebiten.KeyW, 'e': ebiten.KeyE, 'r': ebiten.KeyR,
	'a': ebiten.KeyA, 's': ebiten.KeyS, 'd': ebiten.KeyD, 'f': ebiten.KeyF,
	'z': ebiten.KeyZ, 'x': ebiten.KeyX, 'c': ebiten.KeyC, 'v': ebiten.KeyV,
}

// Frontend renders the display into a window.
type Frontend struct {
	logger *log.Logger
	scale  int

	pixels []byte // RGBA pixels of the last presented frame
	image  *ebiten.Image
	player *audio.Player
}

// New returns a new desktop frontend. The audio player is optional, without
// it tones are only logged.
func New(logger *log.Logger, scale int, player *audio.Player) *Frontend {
	f := &Frontend{
		logger: logger,
		scale:  max(scale, 1),
		pixels: make([]byte, machine.Width*machine.Height*4),
		player: player,
	}
	_ = f.Present(&machine.Display{})
	return f
}

// Update sets the state of all keypad keys from the keyboard state.
func (f *Frontend) Update(m *machine.Machine) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return runner.ErrQuit
	}

	for _, binding := range keymap.Bindings {
		var err error
		if ebiten.IsKeyPressed(ebitenKeys[binding.Physical]) {
			err = m.Press(binding.Key)
		} else {
			err = m.Release(binding.Key)
		}
		if err != nil {
			return fmt.Errorf("setting key state: %w", err)
		}
	}
	return nil
}

// Present converts the display to RGBA pixels, they are uploaded on the next
// draw call.
func (f *Frontend) Present(display *machine.Display) error {
	for y := range machine.Height {
		for x := range machine.Width {
			c := background
			if display.Pixel(x, y) {
				c = foreground
			}
			offset := (y*machine.Width + x) * 4
			f.pixels[offset] = c.R
			f.pixels[offset+1] = c.G
			f.pixels[offset+2] = c.B
			f.pixels[offset+3] = c.A
		}
	}
	return nil
}

// Tone starts or pauses the tone player.
func (f *Frontend) Tone(on bool) error {
	if f.player == nil {
		f.logger.Debug("Tone", log.String("state", toneState(on)))
		return nil
	}

	if on {
		f.player.Play()
	} else {
		f.player.Pause()
	}
	return nil
}

func toneState(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// game connects the runner to the ebiten game loop.
type game struct {
	ctx      context.Context
	runner   *runner.Runner
	frontend *Frontend
}

func (g *game) Update() error {
	if err := g.ctx.Err(); err != nil {
		return fmt.Errorf("running frame %d: %w", g.runner.Frames(), err)
	}
	if g.runner.Done() {
		return ebiten.Termination
	}

	err := g.runner.Frame()
	if errors.Is(err, runner.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

func (g *game) Draw(screen *ebiten.Image) {
	f := g.frontend
	if f.image == nil {
		f.image = ebiten.NewImage(machine.Width, machine.Height)
	}
	f.image.WritePixels(f.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(f.scale), float64(f.scale))
	screen.DrawImage(f.image, op)
}

func (g *game) Layout(_, _ int) (int, int) {
	return machine.Width * g.frontend.scale, machine.Height * g.frontend.scale
}

// Run opens a window and runs the machine until the window is closed, Escape
// is pressed or the context is cancelled. The frame rate of the runner
// configuration sets the ticks per second of the game loop.
func Run(ctx context.Context, logger *log.Logger, m *machine.Machine, config runner.Config, scale int) error {
	audioContext := audio.NewContext(sampleRate)
	player, err := audioContext.NewPlayer(newToneSource(sampleRate, toneFrequency))
	if err != nil {
		logger.Error("Creating audio player failed", log.Err(err))
		player = nil
	}

	f := New(logger, scale, player)
	r := runner.New(logger, m, f, config)

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(machine.Width*f.scale, machine.Height*f.scale)
	if config.FrameRate > 0 {
		ebiten.SetTPS(config.FrameRate)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}

	err = ebiten.RunGame(&game{ctx: ctx, runner: r, frontend: f})
	if player != nil {
		player.Pause()
		if closeErr := player.Close(); closeErr != nil {
			logger.Error("Closing audio player failed", log.Err(closeErr))
		}
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running game loop: %w", err)
	}
	return nil
}
