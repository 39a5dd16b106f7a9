package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"nesgo/internal/emulator"
	"nesgo/internal/host"
)

// dumpPNG renders view to a PNG at path, nearest-neighbor scaled by scale
// to match the window's configured magnification.
func dumpPNG(view *emulator.PPUView, path string, scale int) error {
	if scale <= 0 {
		scale = 1
	}
	src := host.RenderToImage(view)

	dst := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx()*scale, src.Bounds().Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, dst); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
