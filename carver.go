package carve

import (
	"math"

	"github.com/pkg/errors"
)

// Point is a single pixel coordinate of a seam.
type Point struct {
	X int
	Y int
}

// Seam is a connected one-pixel-wide path from the top row to the bottom row,
// one point per row. Adjacent points differ by at most one column.
type Seam []Point

// Carver runs the dynamic-programming search for the lowest energy vertical
// seam. The cumulative table and the backtrack table are transient; a Carver
// serves a single energy map and is thrown away after the seam is removed.
type Carver struct {
	Width  int
	Height int

	costs     []float64
	backtrack []int8
}

// NewCarver returns a Carver for a working area of the given dimensions.
func NewCarver(width, height int) *Carver {
	return &Carver{
		Width:     width,
		Height:    height,
		costs:     make([]float64, width*height),
		backtrack: make([]int8, width*height),
	}
}

func (c *Carver) get(x, y int) float64 {
	return c.costs[y*c.Width+x]
}

func (c *Carver) set(x, y int, v float64) {
	c.costs[y*c.Width+x] = v
}

// ComputeSeams builds the cumulative minimum energy table:
//
//	M[0][j] = energy[0][j]
//	M[i][j] = energy[i][j] + min(M[i-1][j-1], M[i-1][j], M[i-1][j+1])
//
// with out-of-range neighbors treated as +Inf. Alongside each entry the
// chosen parent offset (-1, 0 or +1) is recorded; on equal parent costs the
// left parent wins, then straight, then right. The tie-break order decides
// which seam is picked over flat energy regions and must not change.
func (c *Carver) ComputeSeams(m *EnergyMap) error {
	if m == nil || m.Width < 1 || m.Height < 1 {
		return errors.Wrap(ErrInvalidBuffer, "seam search")
	}
	if m.Width != c.Width || m.Height != c.Height {
		return errors.Wrapf(ErrDimensionMismatch,
			"energy map is %dx%d, carver expects %dx%d", m.Width, m.Height, c.Width, c.Height)
	}

	for x := 0; x < c.Width; x++ {
		c.set(x, 0, m.get(x, 0))
	}

	for y := 1; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			left, right := math.Inf(1), math.Inf(1)
			if x > 0 {
				left = c.get(x-1, y-1)
			}
			middle := c.get(x, y-1)
			if x < c.Width-1 {
				right = c.get(x+1, y-1)
			}

			best, offset := left, int8(-1)
			if middle < best {
				best, offset = middle, 0
			}
			if right < best {
				best, offset = right, 1
			}

			c.set(x, y, m.get(x, y)+best)
			c.backtrack[y*c.Width+x] = offset
		}
	}
	return nil
}

// FindLowestEnergySeam picks the minimum entry of the last cumulative row
// (the leftmost one on ties) and walks the backtrack table upward to recover
// the full seam. It returns the seam ordered top to bottom together with its
// total cost. ComputeSeams must have run first.
func (c *Carver) FindLowestEnergySeam() (Seam, float64) {
	min := math.Inf(1)
	px := 0
	for x := 0; x < c.Width; x++ {
		if cost := c.get(x, c.Height-1); cost < min {
			min = cost
			px = x
		}
	}

	seam := make(Seam, c.Height)
	seam[c.Height-1] = Point{X: px, Y: c.Height - 1}

	for y := c.Height - 1; y > 0; y-- {
		px += int(c.backtrack[y*c.Width+px])
		seam[y-1] = Point{X: px, Y: y - 1}
	}
	return seam, min
}

// RemoveSeam deletes the seam from the buffer, producing a new buffer one
// column narrower. Row i of the result is row i of the source with the pixel
// at the seam's column removed and the remainder shifted left.
func (c *Carver) RemoveSeam(buf *PixelBuffer, seam Seam) (*PixelBuffer, error) {
	if len(seam) != buf.Height {
		return nil, errors.Wrapf(ErrDimensionMismatch,
			"seam has %d rows, buffer has %d", len(seam), buf.Height)
	}

	dst := NewPixelBuffer(buf.Width-1, buf.Height)
	for y := 0; y < buf.Height; y++ {
		sx := seam[y].X
		if sx < 0 || sx >= buf.Width {
			return nil, errors.Wrapf(ErrDimensionMismatch,
				"seam column %d out of range at row %d", sx, y)
		}
		si := buf.offset(0, y)
		di := dst.offset(0, y)
		copy(dst.Pix[di:di+sx*3], buf.Pix[si:si+sx*3])
		copy(dst.Pix[di+sx*3:di+dst.Width*3], buf.Pix[si+(sx+1)*3:si+buf.Width*3])
	}
	return dst, nil
}
