package carve

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImage_DecodeToPixelBuffer(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0x80
		img.Pix[i+3] = 0xff
	}

	var in bytes.Buffer
	assert.NoError(png.Encode(&in, img))

	buf, err := decodeImage(&in)
	assert.NoError(err)
	assert.Equal(6, buf.Width)
	assert.Equal(4, buf.Height)

	r, g, b := buf.At(0, 0)
	assert.InDelta(0x80/255.0, r, 1e-9)
	assert.Equal(0.0, g)
	assert.Equal(0.0, b)
}

func TestImage_DecodeRejectsGarbage(t *testing.T) {
	_, err := decodeImage(bytes.NewBufferString("not an image"))
	assert.Error(t, err)
}

func TestImage_EncodeDefaultsToJPEG(t *testing.T) {
	assert := assert.New(t)

	buf := NewPixelBuffer(5, 5)
	for i := range buf.Pix {
		buf.Pix[i] = 0.25
	}

	var out bytes.Buffer
	assert.NoError(encodeImage(&out, buf))

	res, err := jpeg.Decode(&out)
	assert.NoError(err)
	assert.Equal(5, res.Bounds().Dx())
	assert.Equal(5, res.Bounds().Dy())
}

func TestImage_PrescaleKeepsAspectAndTargets(t *testing.T) {
	assert := assert.New(t)

	buf := NewPixelBuffer(100, 50)
	res := prescale(buf, 50, 25)
	assert.Equal(50, res.Width)
	assert.Equal(25, res.Height)

	// With a non-uniform target ratio the smaller scale factor wins, so
	// both dimensions stay at or above their targets.
	res = prescale(buf, 40, 25)
	assert.Equal(50, res.Width)
	assert.Equal(25, res.Height)
	assert.GreaterOrEqual(res.Width, 40)

	// Already at target size: nothing to do.
	same := prescale(buf, 100, 50)
	assert.Equal(buf, same)
}
