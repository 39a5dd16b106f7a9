package emulator

import (
	"testing"

	"nesgo/internal/input"
)

func buildTestROM() []byte {
	rom := make([]byte, 16)
	copy(rom[0:4], "NES\x1A")
	rom[4] = 1 // 16KB PRG
	rom[5] = 1 // 8KB CHR
	// flags6/7 left zero: mapper 0, horizontal mirroring, no battery

	prg := make([]byte, 16384)
	// Reset vector at 0xFFFC (offset 0x3FFC in the 16KB bank) -> 0x8000.
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80
	// NMI vector at 0xFFFA -> 0x8010.
	prg[0x3FFA] = 0x10
	prg[0x3FFB] = 0x80

	// At 0x8000: LDA #$42 (A9 42), then an infinite JMP to itself (4C 02 80).
	prg[0x0000] = 0xA9
	prg[0x0001] = 0x42
	prg[0x0002] = 0x4C
	prg[0x0003] = 0x02
	prg[0x0004] = 0x80

	// At 0x8010 (the NMI vector target): an infinite JMP to itself, so a
	// serviced NMI parks the CPU at a stable, observable PC instead of
	// falling through uninitialized (all-zero/BRK) memory.
	prg[0x0010] = 0x4C
	prg[0x0011] = 0x10
	prg[0x0012] = 0x80

	rom = append(rom, prg...)
	chr := make([]byte, 8192)
	rom = append(rom, chr...)
	return rom
}

func TestLoadAndStepExecutesFirstInstruction(t *testing.T) {
	e := New()
	if err := e.Load(buildTestROM()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	e.Step() // LDA #$42

	if e.cpu.A != 0x42 {
		t.Errorf("expected A=0x42 after first instruction, got 0x%02X", e.cpu.A)
	}
}

func TestRunUntilFrameAdvancesFrameCount(t *testing.T) {
	e := New()
	if err := e.Load(buildTestROM()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	before := e.ppu.FrameCount()
	e.RunUntilFrame()
	after := e.ppu.FrameCount()

	if after != before+1 {
		t.Errorf("expected frame count to advance by exactly 1, got %d -> %d", before, after)
	}
}

func TestSetButtonStateReflectedInControllerRead(t *testing.T) {
	e := New()
	if err := e.Load(buildTestROM()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	e.SetButtonState(Joypad1, input.ButtonA, true)
	e.bus.Write(0x4016, 0x01)
	e.bus.Write(0x4016, 0x00)

	if got := e.bus.Read(0x4016); got != 1 {
		t.Errorf("expected button A bit set on controller 1, got %d", got)
	}
}

type fakeSink struct{ frames int }

func (f *fakeSink) OnFrame(v *PPUView) { f.frames++ }

func TestFrameSinkInvokedOnVBlankNMI(t *testing.T) {
	e := New()
	if err := e.Load(buildTestROM()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	sink := &fakeSink{}
	e.SetFrameSink(sink)

	// NMI is disabled at reset (CTRL bit 7 clear), so one frame produces
	// no vblank NMI and the sink should not fire.
	e.RunUntilFrame()
	if sink.frames != 0 {
		t.Fatalf("expected no frame signal with NMI disabled, got %d", sink.frames)
	}

	e.bus.Write(0x2000, 0x80) // enable NMI on vblank
	e.RunUntilFrame()
	if sink.frames != 1 {
		t.Errorf("expected exactly one frame signal once NMI is enabled, got %d", sink.frames)
	}
}

func TestVBlankNMIDrivesCPUToNMIVector(t *testing.T) {
	e := New()
	if err := e.Load(buildTestROM()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	e.bus.Write(0x2000, 0x80) // enable NMI on vblank
	e.RunUntilFrame()

	// The PPU's vblank NMI edge must have latched CPU.TriggerNMI, which the
	// CPU services by jumping to the NMI vector (0x8010 in the test ROM,
	// an infinite self-JMP) rather than continuing the main loop at 0x8002.
	if e.cpu.PC != 0x8010 {
		t.Errorf("expected CPU to service the vblank NMI and park at 0x8010, got PC=0x%04X", e.cpu.PC)
	}
}

func TestResetClearsRegisters(t *testing.T) {
	e := New()
	if err := e.Load(buildTestROM()); err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	e.Step()
	if e.cpu.A == 0 {
		t.Fatal("expected A to be nonzero before reset for this test to be meaningful")
	}

	e.Reset()
	if e.cpu.A != 0 {
		t.Errorf("expected A=0 after reset, got 0x%02X", e.cpu.A)
	}
}
