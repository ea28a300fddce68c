package directcut

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegularSimplex2D(t *testing.T) {
	x := RegularSimplex(2, []float64{0, 0}, 1)
	assert.Len(t, x, 3)

	// Unit vertex radius and equal pairwise dots of -1/2
	for i := range x {
		r := math.Hypot(x[i][0], x[i][1])
		assert.InDelta(t, 1.0, r, 1e-12)
	}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			dot := x[i][0]*x[j][0] + x[i][1]*x[j][1]
			assert.InDelta(t, -0.5, dot, 1e-12)
		}
	}
}

func TestRegularSimplexScaledTranslated(t *testing.T) {
	x0 := []float64{1, -2, 0.5}
	x := RegularSimplex(3, x0, 0.3)
	assert.Len(t, x, 4)

	// All vertices at distance 0.3 from the center, pairwise equidistant
	var edge float64
	for i := range x {
		r := 0.0
		for d := 0; d < 3; d++ {
			r += (x[i][d] - x0[d]) * (x[i][d] - x0[d])
		}
		assert.InDelta(t, 0.3, math.Sqrt(r), 1e-12)

		for j := i + 1; j < len(x); j++ {
			e := 0.0
			for d := 0; d < 3; d++ {
				e += (x[i][d] - x[j][d]) * (x[i][d] - x[j][d])
			}
			e = math.Sqrt(e)
			if edge == 0 {
				edge = e
			}
			assert.InDelta(t, edge, e, 1e-12)
		}
	}
}

func TestRegularSimplex1D(t *testing.T) {
	x := RegularSimplex(1, []float64{0.25}, 0.75)
	assert.Len(t, x, 2)
	assert.InDelta(t, 1.0, x[0][0], 1e-12)
	assert.InDelta(t, -0.5, x[1][0], 1e-12)
}
