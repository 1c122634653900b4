package carve

import (
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
)

// decodeImage decodes a supported image format into a PixelBuffer.
func decodeImage(r io.Reader) (*PixelBuffer, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the source image")
	}
	return FromNRGBA(imgToNRGBA(src)), nil
}

// encodeImage encodes the buffer into the writer. For file destinations the
// encoder is chosen from the extension; any other writer gets JPEG.
func encodeImage(w io.Writer, buf *PixelBuffer) error {
	img := buf.ToNRGBA()

	switch w := w.(type) {
	case *os.File:
		switch ext := filepath.Ext(w.Name()); ext {
		case "", ".jpg", ".jpeg":
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
		case ".png":
			return png.Encode(w, img)
		case ".bmp":
			return bmp.Encode(w, img)
		default:
			return errors.Errorf("unsupported image format: %v", ext)
		}
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	}
}

// prescale shrinks the buffer proportionally with Lanczos resampling so the
// carver only has to remove the seams uniform scaling cannot. The scale
// factor is the smaller of the two, which keeps both dimensions at or above
// their targets.
func prescale(buf *PixelBuffer, targetWidth, targetHeight int) *PixelBuffer {
	if buf.Width == targetWidth && buf.Height == targetHeight {
		return buf
	}
	var (
		w   = float64(buf.Width)
		h   = float64(buf.Height)
		wsf = w / float64(targetWidth)
		hsf = h / float64(targetHeight)
	)
	sf := math.Min(wsf, hsf)
	if sf <= 1 {
		return buf
	}
	sw := int(math.Round(w / sf))
	sh := int(math.Round(h / sf))
	if sw < targetWidth {
		sw = targetWidth
	}
	if sh < targetHeight {
		sh = targetHeight
	}

	res := imaging.Resize(buf.ToNRGBA(), sw, sh, imaging.Lanczos)
	return FromNRGBA(imgToNRGBA(res))
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := srcBounds.Dx() * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}
	return dst
}
