// Package texture registers the TGA decoder with the image package and
// provides color-key helpers for sprite sheets exported without alpha.
//
// Importing the package for its side effect is enough:
//
//	import _ "github.com/Faultbox/quadra/internal/engine/texture"
package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

const tgaHeaderSize = 18

// ErrUnsupported is returned for TGA variants the decoder does not handle.
var ErrUnsupported = errors.New("tga: unsupported format")

func init() {
	// Byte 0 is the ID length, byte 1 the color-map type, byte 2 the image type.
	image.RegisterFormat("tga", "?\x00\x02", Decode, DecodeConfig)
	image.RegisterFormat("tga", "?\x00\x0a", Decode, DecodeConfig)
}

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func readHeader(r io.Reader) (tgaHeader, error) {
	var b [tgaHeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return tgaHeader{}, fmt.Errorf("tga: header: %w", err)
	}
	h := tgaHeader{
		idLength:    int(b[0]),
		imageType:   b[2],
		width:       int(b[12]) | int(b[13])<<8,
		height:      int(b[14]) | int(b[15])<<8,
		bpp:         int(b[16]),
		topToBottom: b[17]&0x20 != 0,
	}
	if b[1] != 0 {
		return h, fmt.Errorf("%w: color-mapped image", ErrUnsupported)
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return h, fmt.Errorf("%w: image type %d", ErrUnsupported, h.imageType)
	}
	if h.bpp != 24 && h.bpp != 32 {
		return h, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, h.bpp)
	}
	return h, nil
}

// DecodeConfig returns the dimensions of a TGA image without decoding pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: h.width, Height: h.height}, nil
}

// Decode reads an uncompressed or RLE true-color TGA image.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if _, err := br.Discard(h.idLength); err != nil {
		return nil, fmt.Errorf("tga: image id: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, h.width, h.height))
	px := &pixelWriter{img: img, width: h.width, height: h.height, topToBottom: h.topToBottom}
	size := h.bpp / 8

	if h.imageType == TGATypeUncompressed {
		err = decodeRaw(br, px, size)
	} else {
		err = decodeRLE(br, px, size)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// pixelWriter stores pixels in file order, flipping bottom-up images.
type pixelWriter struct {
	img         *image.NRGBA
	width       int
	height      int
	topToBottom bool
	n           int
}

func (w *pixelWriter) done() bool { return w.n >= w.width*w.height }

func (w *pixelWriter) put(bgra []byte) {
	x, y := w.n%w.width, w.n/w.width
	if !w.topToBottom {
		y = w.height - 1 - y
	}
	i := w.img.PixOffset(x, y)
	w.img.Pix[i+0] = bgra[2]
	w.img.Pix[i+1] = bgra[1]
	w.img.Pix[i+2] = bgra[0]
	if len(bgra) == 4 {
		w.img.Pix[i+3] = bgra[3]
	} else {
		w.img.Pix[i+3] = 0xff
	}
	w.n++
}

func decodeRaw(r io.Reader, px *pixelWriter, size int) error {
	buf := make([]byte, size)
	for !px.done() {
		if _, err := io.ReadFull(r, buf); err != nil {
			return fmt.Errorf("tga: pixel data truncated: %w", err)
		}
		px.put(buf)
	}
	return nil
}

func decodeRLE(r *bufio.Reader, px *pixelWriter, size int) error {
	buf := make([]byte, size)
	for !px.done() {
		packet, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("tga: packet header: %w", err)
		}
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if _, err := io.ReadFull(r, buf); err != nil {
				return fmt.Errorf("tga: run packet truncated: %w", err)
			}
			for i := 0; i < count && !px.done(); i++ {
				px.put(buf)
			}
			continue
		}

		for i := 0; i < count && !px.done(); i++ {
			if _, err := io.ReadFull(r, buf); err != nil {
				return fmt.Errorf("tga: raw packet truncated: %w", err)
			}
			px.put(buf)
		}
	}
	return nil
}
