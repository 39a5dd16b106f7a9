package cartridge

import "fmt"

// InvalidHeaderError is returned when the first 4 bytes of a ROM image do
// not match the iNES magic number "NES\x1A", or when the header declares
// zero PRG ROM banks.
type InvalidHeaderError struct{}

func (e *InvalidHeaderError) Error() string {
	return "cartridge: invalid iNES header"
}

// UnsupportedVersionError is returned when the header's version bits
// (flags 7, bits 2-3) are non-zero, which includes iNES 2.0 images; only
// iNES 1.0 headers are parsed.
type UnsupportedVersionError struct{}

func (e *UnsupportedVersionError) Error() string {
	return "cartridge: unsupported iNES version (only iNES 1.0 is supported)"
}

// TruncatedROMError is returned when the image is shorter than its header
// declares (missing trainer, PRG, or CHR bytes).
type TruncatedROMError struct {
	Want int
	Have int
}

func (e *TruncatedROMError) Error() string {
	return fmt.Sprintf("cartridge: truncated rom, want at least %d bytes, have %d", e.Want, e.Have)
}

// UnsupportedMapperError is returned when a ROM declares a mapper number
// this module does not implement.
type UnsupportedMapperError struct {
	ID uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("cartridge: unsupported mapper %d", e.ID)
}
