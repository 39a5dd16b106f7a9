// Package emulator wires the cartridge, bus, CPU, and PPU into the
// top-level Host Command surface: Load, Reset, Step, RunUntilFrame, and
// SetButtonState.
package emulator

import (
	"nesgo/internal/bus"
	"nesgo/internal/cartridge"
	"nesgo/internal/cpu"
	"nesgo/internal/input"
	"nesgo/internal/ppu"
)

// Joypad selects which of the two controller ports a button state applies to.
type Joypad int

const (
	Joypad1 Joypad = iota
	Joypad2
)

// Emulator owns one loaded cartridge's full hardware state and exposes the
// host-facing command surface described by spec.md §6.
type Emulator struct {
	cart *cartridge.Cartridge
	bus  *bus.Bus
	cpu  *cpu.CPU
	ppu  *ppu.PPU

	controllers [2]*input.Controller

	sink FrameSink
}

// New constructs an Emulator with no cartridge loaded; call Load before
// Step or RunUntilFrame.
func New() *Emulator {
	e := &Emulator{
		bus: bus.New(),
		ppu: ppu.New(),
	}
	e.controllers[0] = input.NewController()
	e.controllers[1] = input.NewController()

	e.bus.AttachPPU(e.ppu)
	e.bus.AttachController(0, e.controllers[0])
	e.bus.AttachController(1, e.controllers[1])
	e.bus.AttachSink(sinkAdapter{e})

	e.cpu = cpu.New(e.bus)
	e.bus.AttachCPU(e.cpu)
	return e
}

// SetFrameSink wires the host callback invoked once per frame.
func (e *Emulator) SetFrameSink(sink FrameSink) { e.sink = sink }

// SetPoller wires a host's live keyboard/gamepad source for one joypad;
// once wired, it replaces SetButtonState-driven state at strobe time.
func (e *Emulator) SetPoller(joypad Joypad, poller input.Poller) {
	e.controllers[joypad].SetPoller(poller)
}

// Load parses iNES ROM bytes, attaches the cartridge to the bus and PPU,
// and resets all hardware state. A previously loaded cartridge, if any,
// is discarded.
func (e *Emulator) Load(romData []byte) error {
	cart, err := cartridge.Load(romData)
	if err != nil {
		return err
	}

	e.cart = cart
	e.bus.AttachCartridge(cart)
	e.ppu.AttachMapper(cart)
	e.ppu.SetMirror(toPPUMirror(cart.Mirror()))
	e.Reset()
	return nil
}

func toPPUMirror(m cartridge.MirrorMode) ppu.Mirror {
	switch m {
	case cartridge.MirrorVertical:
		return ppu.MirrorVertical
	case cartridge.MirrorFourScreen:
		return ppu.MirrorFourScreen
	default:
		return ppu.MirrorHorizontal
	}
}

// Reset performs a power-on style reset of the CPU, PPU, and bus RAM. The
// loaded cartridge's contents are untouched.
func (e *Emulator) Reset() {
	e.bus.Reset()
	e.ppu.Reset()
	e.cpu.Reset()
	e.controllers[0].Reset()
	e.controllers[1].Reset()
}

// Step executes exactly one CPU instruction, advances the PPU/bus clock by
// the matching number of PPU dots, and returns the CPU cycle count spent
// (including any OAM DMA stall).
func (e *Emulator) Step() int {
	cycles := e.cpu.Step()
	e.bus.Tick(cycles)

	if stall := e.bus.ConsumeDMAStall(); stall > 0 {
		e.bus.Tick(stall)
		cycles += stall
	}

	return cycles
}

// RunUntilFrame steps the CPU until the PPU completes a full 262-scanline
// frame, returning the total CPU cycles executed. Useful for headless
// tools that want to render exactly one frame at a time.
func (e *Emulator) RunUntilFrame() int {
	start := e.ppu.FrameCount()
	total := 0
	for e.ppu.FrameCount() == start {
		total += e.Step()
	}
	return total
}

// SetButtonState drives one button's held state directly, for headless use
// and tests, independent of any wired Poller.
func (e *Emulator) SetButtonState(joypad Joypad, button input.Button, pressed bool) {
	e.controllers[joypad].SetButton(button, pressed)
}

// View returns a snapshot of the current PPU state for rendering.
func (e *Emulator) View() *PPUView {
	return newPPUView(e.ppu)
}

type sinkAdapter struct{ e *Emulator }

func (a sinkAdapter) OnFrame() {
	if a.e.sink != nil {
		a.e.sink.OnFrame(a.e.View())
	}
}
