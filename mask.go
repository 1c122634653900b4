package carve

import (
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// loadMask reads a grayscale mask image and resizes it to the working
// dimensions. Cell values are the mask's luminance in [0, 1]: bright pixels
// carry full mask weight, black pixels none.
func loadMask(path string, width, height int) (*EnergyMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the mask file")
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the mask file")
	}
	res := imaging.Resize(src, width, height, imaging.Lanczos)

	return grayscale(FromNRGBA(imgToNRGBA(res))), nil
}

// transposeMap swaps the row and column roles of a scalar grid, mirroring
// PixelBuffer.Transpose for the masks carried alongside the buffer.
func transposeMap(m *EnergyMap) *EnergyMap {
	dst := NewEnergyMap(m.Height, m.Width)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			dst.set(y, x, m.get(x, y))
		}
	}
	return dst
}

// removeSeamFromMap deletes the seam's column from each row of the grid,
// keeping the mask aligned with the buffer it shadows.
func removeSeamFromMap(m *EnergyMap, seam Seam) (*EnergyMap, error) {
	if len(seam) != m.Height {
		return nil, errors.Wrapf(ErrDimensionMismatch,
			"seam has %d rows, mask has %d", len(seam), m.Height)
	}

	dst := NewEnergyMap(m.Width-1, m.Height)
	for y := 0; y < m.Height; y++ {
		sx := seam[y].X
		if sx < 0 || sx >= m.Width {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"seam column %d out of range at row %d", sx, y)
		}
		si := y * m.Width
		di := y * dst.Width
		copy(dst.Cells[di:di+sx], m.Cells[si:si+sx])
		copy(dst.Cells[di+sx:di+dst.Width], m.Cells[si+sx+1:si+m.Width])
	}
	return dst, nil
}
