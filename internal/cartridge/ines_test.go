package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validINESMagic = "NES\x1A"

func buildHeader(prgSize, chrSize, mapper, flags6, flags7 uint8) []byte {
	header := make([]byte, 16)
	copy(header[0:4], validINESMagic)
	header[4] = prgSize
	header[5] = chrSize
	header[6] = (mapper << 4) | (flags6 & 0x0F)
	header[7] = (mapper & 0xF0) | (flags7 & 0x0F)
	return header
}

func buildROM(prgSize, chrSize, mapper, flags6, flags7 uint8) []byte {
	rom := buildHeader(prgSize, chrSize, mapper, flags6, flags7)
	prg := make([]byte, int(prgSize)*16384)
	for i := range prg {
		prg[i] = uint8(i % 256)
	}
	rom = append(rom, prg...)
	if chrSize > 0 {
		chr := make([]byte, int(chrSize)*8192)
		for i := range chr {
			chr[i] = uint8((i + 128) % 256)
		}
		rom = append(rom, chr...)
	}
	return rom
}

func TestLoad_ValidImages(t *testing.T) {
	tests := []struct {
		name    string
		prgSize uint8
		chrSize uint8
	}{
		{"16KB PRG, 8KB CHR", 1, 1},
		{"32KB PRG, 8KB CHR", 2, 1},
		{"16KB PRG, CHR RAM", 1, 0},
		{"32KB PRG, 16KB CHR", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := Load(buildROM(tt.prgSize, tt.chrSize, 0, 0, 0))
			if err != nil {
				t.Fatalf("expected successful load, got %v", err)
			}
			if cart == nil {
				t.Fatal("expected cartridge, got nil")
			}
		})
	}
}

func TestLoad_InvalidMagic(t *testing.T) {
	rom := buildROM(1, 1, 0, 0, 0)
	copy(rom[0:4], "ROM\x1A")

	_, err := Load(rom)
	if err == nil {
		t.Fatal("expected error for invalid magic, got success")
	}
	if _, ok := err.(*InvalidHeaderError); !ok {
		t.Errorf("expected *InvalidHeaderError, got %T", err)
	}
}

func TestLoad_TruncatedImage(t *testing.T) {
	rom := buildROM(1, 1, 0, 0, 0)
	truncated := rom[:len(rom)-100]

	_, err := Load(truncated)
	if err == nil {
		t.Fatal("expected error for truncated rom, got success")
	}
	if _, ok := err.(*TruncatedROMError); !ok {
		t.Errorf("expected *TruncatedROMError, got %T", err)
	}
}

// TestLoad_iNES2Rejected is a property test: every non-zero value of the
// iNES version bits must be rejected the same way, not just the NES 2.0
// pattern.
func TestLoad_iNES2Rejected(t *testing.T) {
	for _, versionBits := range []uint8{0x04, 0x08, 0x0C} {
		rom := buildROM(1, 1, 0, 0, 0)
		rom[7] = (rom[7] &^ 0x0C) | versionBits

		_, err := Load(rom)
		assert.IsTypef(t, &UnsupportedVersionError{}, err, "version bits 0x%02X", versionBits)
	}
}

func TestLoad_MapperIdentification(t *testing.T) {
	tests := []struct {
		name           string
		flags6         uint8
		flags7         uint8
		expectedMapper uint8
	}{
		{"Mapper 0 (NROM)", 0x00, 0x00, 0},
		{"Mapper 1 (MMC1)", 0x10, 0x00, 1},
		{"Mapper 4 (MMC3)", 0x40, 0x00, 4},
		{"Mapper 32 from flags7", 0x00, 0x20, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := buildHeader(1, 1, 0, tt.flags6, tt.flags7)
			// buildHeader keeps only the low nibbles of its flag arguments;
			// write the raw flag bytes so their mapper nibbles reach the header.
			header[6] = tt.flags6
			header[7] = tt.flags7
			prg := make([]byte, 16384)
			chr := make([]byte, 8192)
			rom := append(header, prg...)
			rom = append(rom, chr...)

			_, err := Load(rom)
			if tt.expectedMapper == 0 {
				if err != nil {
					t.Fatalf("expected success for mapper 0, got %v", err)
				}
				return
			}
			uerr, ok := err.(*UnsupportedMapperError)
			if !ok {
				t.Fatalf("expected *UnsupportedMapperError, got %T", err)
			}
			if uerr.ID != tt.expectedMapper {
				t.Errorf("expected mapper ID %d, got %d", tt.expectedMapper, uerr.ID)
			}
		})
	}
}

func TestLoad_MirroringModes(t *testing.T) {
	tests := []struct {
		name           string
		flags6         uint8
		expectedMirror MirrorMode
	}{
		{"Horizontal mirroring", 0x00, MirrorHorizontal},
		{"Vertical mirroring", 0x01, MirrorVertical},
		{"Four-screen mirroring", 0x08, MirrorFourScreen},
		{"Four-screen overrides vertical", 0x09, MirrorFourScreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := Load(buildROM(1, 1, 0, tt.flags6, 0))
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if cart.Mirror() != tt.expectedMirror {
				t.Errorf("expected mirror mode %d, got %d", tt.expectedMirror, cart.Mirror())
			}
		})
	}
}

func TestLoad_BatteryDetection(t *testing.T) {
	tests := []struct {
		name       string
		flags6     uint8
		hasBattery bool
	}{
		{"No battery", 0x00, false},
		{"Battery-backed", 0x02, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := Load(buildROM(1, 1, 0, tt.flags6, 0))
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if cart.HasBattery() != tt.hasBattery {
				t.Errorf("expected HasBattery()=%v, got %v", tt.hasBattery, cart.HasBattery())
			}
		})
	}
}

func TestCartridge_SRAMReadWriteRoundTrip(t *testing.T) {
	cart, err := Load(buildROM(1, 1, 0, 0, 0))
	require.NoError(t, err)

	cart.WriteCPU(0x6000, 0x42)
	cart.WriteCPU(0x7FFF, 0x99)

	assert.Equal(t, uint8(0x42), cart.ReadCPU(0x6000))
	assert.Equal(t, uint8(0x99), cart.ReadCPU(0x7FFF))
}
