package carve

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPixelBuffer_TransposeSwapsAxes(t *testing.T) {
	assert := assert.New(t)

	buf := NewPixelBuffer(4, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			buf.Set(x, y, float64(x)/4, float64(y)/2, 0)
		}
	}

	tr := buf.Transpose()
	assert.Equal(2, tr.Width)
	assert.Equal(4, tr.Height)

	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			br, bg, bb := buf.At(x, y)
			tr0, tg, tb := tr.At(y, x)
			assert.Equal([3]float64{br, bg, bb}, [3]float64{tr0, tg, tb})
		}
	}

	// Transposing twice restores the original buffer.
	assert.Equal(buf.Pix, tr.Transpose().Pix)
}

func TestPixelBuffer_NRGBARoundTrip(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(i * 7 % 256)
		img.Pix[i+1] = uint8(i * 13 % 256)
		img.Pix[i+2] = uint8(i * 29 % 256)
		img.Pix[i+3] = 0xff
	}

	buf := FromNRGBA(img)
	assert.Equal(3, buf.Width)
	assert.Equal(2, buf.Height)

	back := buf.ToNRGBA()
	assert.Equal(img.Pix, back.Pix)
}

func TestPixelBuffer_QuantizeClips(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint8(0), quantize(-0.5))
	assert.Equal(uint8(0), quantize(0))
	assert.Equal(uint8(255), quantize(1))
	assert.Equal(uint8(255), quantize(1.5))
	assert.Equal(uint8(128), quantize(0.5019607843137255))
}

func TestPixelBuffer_GrayscalePixelsForDetector(t *testing.T) {
	assert := assert.New(t)

	buf := NewPixelBuffer(2, 1)
	buf.Set(0, 0, 1, 1, 1)
	buf.Set(1, 0, 0, 0, 0)

	gray := rgbToGrayscale(buf)
	assert.Equal([]uint8{255, 0}, gray)
}
