package carve

import (
	"testing"

	"github.com/seamly/carve/utils"
	"github.com/stretchr/testify/assert"
)

// energyMapFromRows builds an energy map from row-major literals.
func energyMapFromRows(rows [][]float64) *EnergyMap {
	m := NewEnergyMap(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, v := range row {
			m.set(x, y, v)
		}
	}
	return m
}

func TestCarver_WorkedExample(t *testing.T) {
	assert := assert.New(t)

	m := energyMapFromRows([][]float64{
		{1, 2, 3},
		{4, 1, 5},
		{3, 2, 1},
	})

	c := NewCarver(m.Width, m.Height)
	assert.NoError(c.ComputeSeams(m))

	// The cumulative table's bottom row decides where the backtrack starts.
	assert.Equal([]float64{5, 4, 3}, c.costs[2*c.Width:3*c.Width])

	seam, cost := c.FindLowestEnergySeam()
	assert.Equal(Seam{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}, seam)
	assert.Equal(3.0, cost)
}

func TestCarver_UniformEnergyPrefersLeftmostColumn(t *testing.T) {
	assert := assert.New(t)

	m := NewEnergyMap(8, 6)
	for i := range m.Cells {
		m.Cells[i] = 1
	}

	c := NewCarver(m.Width, m.Height)
	assert.NoError(c.ComputeSeams(m))
	seam, cost := c.FindLowestEnergySeam()

	// Every parent choice ties, so the left-first rule pins the seam to the
	// straight vertical line through column 0.
	for y, pt := range seam {
		assert.Equal(0, pt.X)
		assert.Equal(y, pt.Y)
	}
	assert.Equal(float64(m.Height), cost)
}

func TestCarver_SeamIsValid(t *testing.T) {
	assert := assert.New(t)

	m := energyMapFromRows([][]float64{
		{3, 1, 4, 1, 5},
		{9, 2, 6, 5, 3},
		{5, 8, 9, 7, 9},
		{3, 2, 3, 8, 4},
	})

	c := NewCarver(m.Width, m.Height)
	assert.NoError(c.ComputeSeams(m))
	seam, _ := c.FindLowestEnergySeam()

	assert.Len(seam, m.Height)
	for y, pt := range seam {
		assert.Equal(y, pt.Y)
		assert.GreaterOrEqual(pt.X, 0)
		assert.Less(pt.X, m.Width)
		if y > 0 {
			assert.LessOrEqual(utils.Abs(pt.X-seam[y-1].X), 1)
		}
	}
}

func TestCarver_LowEnergyColumnGetsRemoved(t *testing.T) {
	assert := assert.New(t)

	// White buffer with a dimmer column. The sobel filter marks the columns
	// next to it as edges, so the minimum seam runs through a flat region,
	// never through the high energy transition columns.
	buf := NewPixelBuffer(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := 1.0
			if x == 5 {
				v = 0.2
			}
			buf.Set(x, y, v, v, v)
		}
	}

	energy, err := (&SobelEnergy{}).Energy(buf)
	assert.NoError(err)

	c := NewCarver(buf.Width, buf.Height)
	assert.NoError(c.ComputeSeams(energy))
	seam, _ := c.FindLowestEnergySeam()

	for _, pt := range seam {
		assert.NotContains([]int{4, 6}, pt.X)
	}
}

func TestCarver_RemoveSeamShrinksWidthOnly(t *testing.T) {
	assert := assert.New(t)

	buf := NewPixelBuffer(7, 5)
	for i := range buf.Pix {
		buf.Pix[i] = float64(i) / float64(len(buf.Pix))
	}

	seam := make(Seam, buf.Height)
	for y := range seam {
		seam[y] = Point{X: 3, Y: y}
	}

	c := NewCarver(buf.Width, buf.Height)
	res, err := c.RemoveSeam(buf, seam)
	assert.NoError(err)
	assert.Equal(6, res.Width)
	assert.Equal(5, res.Height)

	// Pixels left of the seam are untouched, the rest shifted left by one.
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < res.Width; x++ {
			sx := x
			if x >= 3 {
				sx = x + 1
			}
			wr, wg, wb := buf.At(sx, y)
			gr, gg, gb := res.At(x, y)
			assert.Equal([3]float64{wr, wg, wb}, [3]float64{gr, gg, gb})
		}
	}
}

func TestCarver_RemoveSeamRejectsMalformedSeams(t *testing.T) {
	assert := assert.New(t)

	buf := NewPixelBuffer(4, 4)
	c := NewCarver(buf.Width, buf.Height)

	short := make(Seam, 2)
	_, err := c.RemoveSeam(buf, short)
	assert.ErrorIs(err, ErrDimensionMismatch)

	outOfRange := Seam{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 4, Y: 3}}
	_, err = c.RemoveSeam(buf, outOfRange)
	assert.ErrorIs(err, ErrDimensionMismatch)
}

func TestCarver_ComputeSeamsRejectsInvalidInput(t *testing.T) {
	assert := assert.New(t)

	c := NewCarver(4, 4)
	assert.ErrorIs(c.ComputeSeams(nil), ErrInvalidBuffer)
	assert.ErrorIs(c.ComputeSeams(NewEnergyMap(0, 4)), ErrInvalidBuffer)
	assert.ErrorIs(c.ComputeSeams(NewEnergyMap(3, 4)), ErrDimensionMismatch)
}
