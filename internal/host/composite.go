package host

import (
	"image/color"
	"image/draw"

	"nesgo/internal/emulator"
	"nesgo/internal/ppu"
)

// nesPalette is the standard 2C02 64-color NTSC palette, ARGB packed.
var nesPalette = [64]uint32{
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFF29B, 0xFFBEFBB3, 0xFFB8F8D8, 0xFFB8F8F8, 0xFF000000, 0xFF000000, 0xFF000000,
}

func nesColorToRGB(index uint8) color.RGBA {
	argb := nesPalette[index&0x3F]
	return color.RGBA{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: 255,
	}
}

// nametableForQuadrant resolves one of the four logical nametable
// quadrants to a view's physical bank, following the same A/B/C/D
// arrangement the PPU uses internally for its own mirroring.
func nametableForQuadrant(view *emulator.PPUView, quadrant int) [1024]uint8 {
	var bank int
	switch view.Mirror {
	case ppu.MirrorVertical:
		bank = quadrant & 0x1
	case ppu.MirrorFourScreen:
		bank = quadrant % 2
	default:
		bank = (quadrant >> 1) & 0x1
	}
	if bank == 0 {
		return view.Nametable0
	}
	return view.Nametable1
}

// composite renders a full 256x240 frame from a PPUView into img: the
// background from nametable 0 (no scrolling, since scroll position is not
// part of the read-only view) overlaid with sprites from OAM, using
// pattern table 0 for background tiles; sprite pattern tables are chosen
// in drawSprites.
func composite(img draw.Image, view *emulator.PPUView) {
	nt := nametableForQuadrant(view, 0)

	var bgOpaque [256][240]bool

	for tileY := 0; tileY < 30; tileY++ {
		for tileX := 0; tileX < 32; tileX++ {
			tileID := nt[tileY*32+tileX]
			attrByte := nt[0x3C0+(tileY>>2)*8+(tileX>>2)]
			blockID := ((tileX & 3) >> 1) + ((tileY&3)>>1)*2
			paletteIdx := (attrByte >> uint(blockID*2)) & 0x03

			for py := 0; py < 8; py++ {
				lo := view.PatternTable0[int(tileID)*16+py]
				hi := view.PatternTable0[int(tileID)*16+py+8]
				for px := 0; px < 8; px++ {
					shift := 7 - px
					colorIdx := ((hi>>shift)&1)<<1 | (lo>>shift)&1
					var paletteAddr uint16
					if colorIdx == 0 {
						paletteAddr = 0
					} else {
						paletteAddr = uint16(paletteIdx)*4 + uint16(colorIdx)
					}
					nesIdx := view.Palette[paletteAddr]
					x := tileX*8 + px
					y := tileY*8 + py
					img.Set(x, y, nesColorToRGB(nesIdx))
					bgOpaque[x][y] = colorIdx != 0
				}
			}
		}
	}

	drawSprites(img, view, &bgOpaque)
}

// spriteHeight returns 16 when PPUCTRL selects 8x16 sprites, else 8.
func spriteHeight(ctrl uint8) int {
	if ctrl&0x20 != 0 {
		return 16
	}
	return 8
}

func drawSprites(img draw.Image, view *emulator.PPUView, bgOpaque *[256][240]bool) {
	height := spriteHeight(view.Ctrl)

	// OAM is ordered lowest-index-highest-priority; draw back to front so
	// sprite 0 ends up visually on top like the earlier-wins rule intends.
	for i := 63; i >= 0; i-- {
		base := i * 4
		spriteY := int(view.OAM[base])
		tileIndex := view.OAM[base+1]
		attrs := view.OAM[base+2]
		spriteX := int(view.OAM[base+3])

		flipH := attrs&0x40 != 0
		flipV := attrs&0x80 != 0
		behindBackground := attrs&0x20 != 0
		paletteIdx := attrs & 0x03

		// In 8x16 mode, tile index bit 0 selects the pattern table and the
		// sprite occupies that tile plus the next one below it. In 8x8 mode
		// PPUCTRL bit 3 selects the pattern table for all sprites instead.
		useTable1 := view.Ctrl&0x08 != 0
		topTile := uint16(tileIndex)
		if height == 16 {
			useTable1 = tileIndex&0x01 != 0
			topTile = uint16(tileIndex &^ 0x01)
		}

		for py := 0; py < height; py++ {
			row := py
			if flipV {
				row = height - 1 - py
			}
			tile := topTile
			if height == 16 && row >= 8 {
				tile++
				row -= 8
			}
			var lo, hi uint8
			if useTable1 {
				lo = view.PatternTable1[tile*16+uint16(row)]
				hi = view.PatternTable1[tile*16+uint16(row)+8]
			} else {
				lo = view.PatternTable0[tile*16+uint16(row)]
				hi = view.PatternTable0[tile*16+uint16(row)+8]
			}
			for px := 0; px < 8; px++ {
				col := px
				if flipH {
					col = 7 - px
				}
				shift := 7 - col
				colorIdx := ((hi>>shift)&1)<<1 | (lo>>shift)&1
				if colorIdx == 0 {
					continue // transparent
				}
				paletteAddr := 0x10 + uint16(paletteIdx)*4 + uint16(colorIdx)
				nesIdx := view.Palette[paletteAddr]

				x := spriteX + px
				y := spriteY + 1 + py // sprite Y is delayed by one scanline
				if x < 0 || x >= 256 || y < 0 || y >= 240 {
					continue
				}
				if behindBackground && bgOpaque[x][y] {
					continue
				}
				img.Set(x, y, nesColorToRGB(nesIdx))
			}
		}
	}
}
