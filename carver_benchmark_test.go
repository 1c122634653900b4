package carve

import (
	"math/rand"
	"testing"
)

func randomBuffer(width, height int) *PixelBuffer {
	rnd := rand.New(rand.NewSource(42))
	buf := NewPixelBuffer(width, height)
	for i := range buf.Pix {
		buf.Pix[i] = rnd.Float64()
	}
	return buf
}

func BenchmarkCarver_ComputeSeams(b *testing.B) {
	buf := randomBuffer(256, 256)
	energy, err := (&SobelEnergy{}).Energy(buf)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := NewCarver(buf.Width, buf.Height)
		if err := c.ComputeSeams(energy); err != nil {
			b.Fatal(err)
		}
		c.FindLowestEnergySeam()
	}
}

func BenchmarkEnergy_Sobel(b *testing.B) {
	buf := randomBuffer(256, 256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (&SobelEnergy{}).Energy(buf); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkProcessor_Carve(b *testing.B) {
	src := randomBuffer(128, 128)
	p := &Processor{NewWidth: 120}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Carve(src.Clone()); err != nil {
			b.Fatal(err)
		}
	}
}
