package emulator

import "nesgo/internal/ppu"

// PPUView is a read-only snapshot of PPU state exposed to a host for
// rendering: pattern tables, nametables, palette RAM, and OAM, plus the
// mirroring mode needed to resolve nametable quadrants.
type PPUView struct {
	PatternTable0 [4096]uint8
	PatternTable1 [4096]uint8
	Nametable0    [1024]uint8
	Nametable1    [1024]uint8
	Palette       [32]uint8
	OAM           [256]uint8
	Mirror        ppu.Mirror
	Ctrl          uint8
	FrameCount    uint64
}

func newPPUView(p *ppu.PPU) *PPUView {
	v := &PPUView{
		Nametable0: p.Nametable(0),
		Nametable1: p.Nametable(1),
		Palette:    p.Palette(),
		OAM:        p.OAM(),
		Mirror:     p.Mirror(),
		Ctrl:       p.Ctrl(),
		FrameCount: p.FrameCount(),
	}
	p.PatternTable(0, &v.PatternTable0)
	p.PatternTable(1, &v.PatternTable1)
	return v
}

// FrameSink receives one PPUView per frame, invoked on the PPU's vblank
// NMI edge. A host implements this to blit pixels to screen; a headless
// tool implements it to dump a single frame to disk.
type FrameSink interface {
	OnFrame(view *PPUView)
}
