package host

import (
	"image"

	"nesgo/internal/emulator"
)

// RenderToImage composites view into a freshly allocated 256x240 RGBA
// image, for callers outside the interactive ebiten loop (e.g. a headless
// frame-dump tool).
func RenderToImage(view *emulator.PPUView) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 256, 240))
	composite(img, view)
	return img
}
