package device

import (
	"testing"

	"github.com/notargets/gocca"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serialDevice returns a Serial-mode OCCA device or skips the test when the
// OCCA runtime is unavailable.
func serialDevice(t *testing.T) *gocca.OCCADevice {
	t.Helper()
	dev, err := gocca.NewDevice(`{"mode": "Serial"}`)
	if err != nil {
		t.Skipf("no OCCA device available: %v", err)
	}
	return dev
}

func unitCube(dz float64) []float64 {
	base := []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
		0, 0, 1,
		1, 0, 1,
		1, 1, 1,
		0, 1, 1,
	}
	for n := 0; n < 8; n++ {
		base[n*3+2] += dz
	}
	return base
}

func TestCutPrepassShortlist(t *testing.T) {
	dev := serialDevice(t)
	defer dev.Free()

	cp, err := NewCutPrepass(dev, 8, 4)
	require.NoError(t, err)
	defer cp.Free()

	// Two elements: one near the cutting quad, one far beyond the box
	// tolerance
	elems := append(unitCube(0), unitCube(50)...)
	facets := []float64{
		-1, -1, -0.5,
		2, -1, -0.5,
		2, 2, -0.5,
		-1, 2, -0.5,
	}

	cand, dist, err := cp.Run(elems, 2, facets, 1)
	require.NoError(t, err)

	assert.Equal(t, int32(1), cand[0])
	assert.Equal(t, int32(0), cand[1])

	// Center of the first cube is one unit above the facet plane
	assert.InDelta(t, 1.0, dist[0], 1e-12)
	assert.Equal(t, 1e15, dist[1])
}

func TestCutPrepassArgumentValidation(t *testing.T) {
	dev := serialDevice(t)
	defer dev.Free()

	cp, err := NewCutPrepass(dev, 8, 4)
	require.NoError(t, err)
	defer cp.Free()

	_, _, err = cp.Run(make([]float64, 10), 2, make([]float64, 12), 1)
	assert.Error(t, err)
}
