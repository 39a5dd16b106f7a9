// Package host implements the ebiten-driven interactive frontend: an
// ebiten.Game that owns the emulator, polls keyboard state as controller
// input, and composites PPU state into an on-screen image each frame.
package host

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"nesgo/internal/config"
	"nesgo/internal/emulator"
	"nesgo/internal/input"
)

const (
	nesWidth  = 256
	nesHeight = 240
)

// Game implements ebiten.Game, driving the emulator one frame per Update
// call and blitting the most recent PPUView to screen on Draw.
type Game struct {
	emu    *emulator.Emulator
	cfg    *config.Config
	screen *ebiten.Image

	keymap1, keymap2 keyMap
	pendingView      *emulator.PPUView
}

// NewGame constructs a Game wired to emu using cfg's key mapping and
// window scale. It registers itself as emu's poller and frame sink.
func NewGame(emu *emulator.Emulator, cfg *config.Config) *Game {
	g := &Game{
		emu:     emu,
		cfg:     cfg,
		screen:  ebiten.NewImage(nesWidth, nesHeight),
		keymap1: parseKeyMap(cfg.Input.Player1Keys),
		keymap2: parseKeyMap(cfg.Input.Player2Keys),
	}
	emu.SetPoller(emulator.Joypad1, pollerFunc(g.player1Pressed))
	emu.SetPoller(emulator.Joypad2, pollerFunc(g.player2Pressed))
	emu.SetFrameSink(g)
	return g
}

// OnFrame implements emulator.FrameSink, called on the PPU's vblank NMI
// edge with the frame just completed.
func (g *Game) OnFrame(view *emulator.PPUView) {
	g.pendingView = view
}

// Update implements ebiten.Game: runs exactly one frame of emulation.
func (g *Game) Update() error {
	g.emu.RunUntilFrame()
	if g.pendingView != nil {
		composite(g.screen, g.pendingView)
	}
	return nil
}

// Draw implements ebiten.Game: scales the composited NES frame to the
// window.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 255})

	op := &ebiten.DrawImageOptions{}
	scale := float64(g.cfg.Window.Scale)
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(g.screen, op)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := g.cfg.Window.Scale
	if scale <= 0 {
		scale = 1
	}
	return nesWidth * scale, nesHeight * scale
}

type pollerFunc func(button input.Button) bool

func (f pollerFunc) IsPressed(button input.Button) bool { return f(button) }

func (g *Game) player1Pressed(b input.Button) bool { return isPressed(g.keymap1, b) }
func (g *Game) player2Pressed(b input.Button) bool { return isPressed(g.keymap2, b) }

func isPressed(km keyMap, b input.Button) bool {
	key, ok := km[b]
	if !ok {
		return false
	}
	return ebiten.IsKeyPressed(key)
}

type keyMap map[input.Button]ebiten.Key

func parseKeyMap(m config.KeyMapping) keyMap {
	km := keyMap{}
	set := func(button input.Button, name string) {
		if key, ok := keyByName[name]; ok {
			km[button] = key
		}
	}
	set(input.ButtonUp, m.Up)
	set(input.ButtonDown, m.Down)
	set(input.ButtonLeft, m.Left)
	set(input.ButtonRight, m.Right)
	set(input.ButtonA, m.A)
	set(input.ButtonB, m.B)
	set(input.ButtonStart, m.Start)
	set(input.ButtonSelect, m.Select)
	return km
}

var keyByName = map[string]ebiten.Key{
	"W": ebiten.KeyW, "A": ebiten.KeyA, "S": ebiten.KeyS, "D": ebiten.KeyD,
	"J": ebiten.KeyJ, "K": ebiten.KeyK,
	"Up": ebiten.KeyArrowUp, "Down": ebiten.KeyArrowDown,
	"Left": ebiten.KeyArrowLeft, "Right": ebiten.KeyArrowRight,
	"N": ebiten.KeyN, "M": ebiten.KeyM,
	"Enter": ebiten.KeyEnter, "Space": ebiten.KeySpace,
	"RShift": ebiten.KeyShiftRight, "RControl": ebiten.KeyControlRight,
}

// Run starts the ebiten game loop, blocking until the window is closed.
func Run(emu *emulator.Emulator, cfg *config.Config, title string) error {
	game := NewGame(emu, cfg)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(nesWidth*cfg.Window.Scale, nesHeight*cfg.Window.Scale)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.Video.VSync)

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}
