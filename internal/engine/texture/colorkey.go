package texture

import (
	"image"
	"image/color"
	"image/draw"
)

// Magenta is the color key most sprite sheets without alpha use.
var Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// matchesKey allows a small tolerance so lossy encoders still match.
func matchesKey(r, g, b uint8, key color.RGBA, tolerance uint8) bool {
	return near(r, key.R, tolerance) && near(g, key.G, tolerance) && near(b, key.B, tolerance)
}

func near(a, b, tolerance uint8) bool {
	if a > b {
		return a-b <= tolerance
	}
	return b-a <= tolerance
}

// ApplyColorKey makes every pixel matching key fully transparent, in place.
// Keyed pixels are cleared to transparent black so linear filtering does not
// bleed the key color into neighbours.
func ApplyColorKey(img *image.RGBA, key color.RGBA, tolerance uint8) int {
	keyed := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if matchesKey(img.Pix[i], img.Pix[i+1], img.Pix[i+2], key, tolerance) {
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
				keyed++
			}
		}
	}
	return keyed
}

// ToRGBA converts img to a premultiplied *image.RGBA with its origin at (0,0).
// An *image.RGBA already in that shape is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
