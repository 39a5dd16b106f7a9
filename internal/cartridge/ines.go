package cartridge

import (
	"bytes"
	"encoding/binary"
	"io"
)

var inesMagic = [4]uint8{0x4E, 0x45, 0x53, 0x1A} // "NES\x1A"

// iNESHeader is the 16-byte iNES 1.0 header, read directly off the wire.
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8 // 16 KiB units
	CHRROMSize uint8 // 8 KiB units
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8
	Flags9     uint8
	Flags10    uint8
	Padding    [5]uint8
}

// MirrorMode is the nametable mirroring arrangement declared by the cartridge.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorFourScreen
)

// Cartridge is a loaded NES ROM image: its mapper and mirroring mode, wired
// up for the bus and PPU to address through.
type Cartridge struct {
	mapper     Mapper
	mirror     MirrorMode
	hasBattery bool
	sram       [0x2000]uint8
}

// Load parses an iNES 1.0 image. The trainer, if present, is skipped; CHR
// size of 0 means the cartridge carries 8 KiB of CHR RAM instead of CHR ROM.
func Load(data []byte) (*Cartridge, error) {
	r := bytes.NewReader(data)

	var header iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, &TruncatedROMError{Want: 16, Have: len(data)}
	}
	if header.Magic != inesMagic {
		return nil, &InvalidHeaderError{}
	}
	if header.Flags7&0x0C != 0 {
		return nil, &UnsupportedVersionError{}
	}

	if header.Flags6&0x04 != 0 {
		trainer := make([]uint8, 512)
		if n, err := io.ReadFull(r, trainer); err != nil {
			return nil, &TruncatedROMError{Want: want(r, data, 512-n), Have: len(data)}
		}
	}

	prgSize := int(header.PRGROMSize) * 16384
	if prgSize == 0 {
		return nil, &InvalidHeaderError{}
	}
	prg := make([]uint8, prgSize)
	if n, err := io.ReadFull(r, prg); err != nil {
		return nil, &TruncatedROMError{Want: want(r, data, prgSize-n), Have: len(data)}
	}

	chrIsRAM := header.CHRROMSize == 0
	var chr []uint8
	if chrIsRAM {
		chr = make([]uint8, 8192)
	} else {
		chrSize := int(header.CHRROMSize) * 8192
		chr = make([]uint8, chrSize)
		if n, err := io.ReadFull(r, chr); err != nil {
			return nil, &TruncatedROMError{Want: want(r, data, chrSize-n), Have: len(data)}
		}
	}

	mapperID := (header.Flags6 >> 4) | (header.Flags7 & 0xF0)
	mapper, err := NewMapper(mapperID, prg, chr, chrIsRAM)
	if err != nil {
		return nil, err
	}

	mirror := MirrorHorizontal
	switch {
	case header.Flags6&0x08 != 0:
		mirror = MirrorFourScreen
	case header.Flags6&0x01 != 0:
		mirror = MirrorVertical
	}

	return &Cartridge{
		mapper:     mapper,
		mirror:     mirror,
		hasBattery: header.Flags6&0x02 != 0,
	}, nil
}

// want reports the total byte count the image would need to satisfy the
// read currently failing, for a precise TruncatedROMError.
func want(r *bytes.Reader, data []byte, remaining int) int {
	return len(data) - r.Len() + remaining
}

// ReadCPU dispatches a CPU-side address (0x4020-0xFFFF) to the mapper, with
// cartridge SRAM ($6000-$7FFF) handled here since it is mapper-independent.
func (c *Cartridge) ReadCPU(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return c.sram[addr-0x6000]
	}
	return c.mapper.ReadCPU(addr)
}

func (c *Cartridge) WriteCPU(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		c.sram[addr-0x6000] = value
		return
	}
	c.mapper.WriteCPU(addr, value)
}

func (c *Cartridge) ReadPPU(addr uint16) uint8 {
	return c.mapper.ReadPPU(addr)
}

func (c *Cartridge) WritePPU(addr uint16, value uint8) {
	c.mapper.WritePPU(addr, value)
}

func (c *Cartridge) Mirror() MirrorMode {
	return c.mirror
}

func (c *Cartridge) HasBattery() bool {
	return c.hasBattery
}
