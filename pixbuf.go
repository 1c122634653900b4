package carve

import (
	"image"
)

// PixelBuffer is the dense in-memory representation the carver operates on:
// a width x height grid of RGB samples stored row-major as float64 values
// normalized to the [0, 1] interval. Every transformation returns a new
// buffer; the carving loop never mutates a buffer it has already handed out.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPixelBuffer allocates a zeroed buffer of the requested dimensions.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height*3),
	}
}

func (b *PixelBuffer) offset(x, y int) int {
	return (y*b.Width + x) * 3
}

// At returns the RGB sample at (x, y).
func (b *PixelBuffer) At(x, y int) (r, g, bl float64) {
	idx := b.offset(x, y)
	return b.Pix[idx], b.Pix[idx+1], b.Pix[idx+2]
}

// Set replaces the RGB sample at (x, y).
func (b *PixelBuffer) Set(x, y int, r, g, bl float64) {
	idx := b.offset(x, y)
	b.Pix[idx] = r
	b.Pix[idx+1] = g
	b.Pix[idx+2] = bl
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	dst := NewPixelBuffer(b.Width, b.Height)
	copy(dst.Pix, b.Pix)
	return dst
}

// Transpose swaps the row and column roles of the buffer, returning a new
// height x width buffer. The horizontal reduction phase transposes the image,
// runs the vertical seam pipeline and transposes the result back, which keeps
// a single orientation of the DP logic.
func (b *PixelBuffer) Transpose() *PixelBuffer {
	dst := NewPixelBuffer(b.Height, b.Width)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			si := b.offset(x, y)
			di := dst.offset(y, x)
			dst.Pix[di] = b.Pix[si]
			dst.Pix[di+1] = b.Pix[si+1]
			dst.Pix[di+2] = b.Pix[si+2]
		}
	}
	return dst
}

// FromNRGBA converts a decoded image to a PixelBuffer, normalizing each
// channel to [0, 1]. The alpha channel is dropped; the carver operates on
// opaque RGB data.
func FromNRGBA(img *image.NRGBA) *PixelBuffer {
	dx, dy := img.Bounds().Dx(), img.Bounds().Dy()
	buf := NewPixelBuffer(dx, dy)

	for y := 0; y < dy; y++ {
		si := img.PixOffset(0, y)
		di := buf.offset(0, y)
		for x := 0; x < dx; x++ {
			buf.Pix[di] = float64(img.Pix[si]) / 255.0
			buf.Pix[di+1] = float64(img.Pix[si+1]) / 255.0
			buf.Pix[di+2] = float64(img.Pix[si+2]) / 255.0
			si += 4
			di += 3
		}
	}
	return buf
}

// ToNRGBA converts the buffer back to an 8-bit image for encoding.
func (b *PixelBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))

	for y := 0; y < b.Height; y++ {
		si := b.offset(0, y)
		di := img.PixOffset(0, y)
		for x := 0; x < b.Width; x++ {
			img.Pix[di] = quantize(b.Pix[si])
			img.Pix[di+1] = quantize(b.Pix[si+1])
			img.Pix[di+2] = quantize(b.Pix[si+2])
			img.Pix[di+3] = 0xff
			si += 3
			di += 4
		}
	}
	return img
}

// quantize clips a normalized sample into an 8-bit channel value.
func quantize(v float64) uint8 {
	v = v*255.0 + 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// rgbToGrayscale flattens the buffer to an 8-bit grayscale pixel array,
// the format the pigo face detector expects.
func rgbToGrayscale(b *PixelBuffer) []uint8 {
	gray := make([]uint8, b.Width*b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			r, g, bl := b.At(x, y)
			lum := 0.299*r + 0.587*g + 0.114*bl
			gray[y*b.Width+x] = quantize(lum)
		}
	}
	return gray
}
