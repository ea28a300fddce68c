package element

import (
	"testing"

	"github.com/oversetlabs/OGKernel/basis"
	"github.com/oversetlabs/OGKernel/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityHex is the 8-node hex whose physical nodes coincide with the
// reference cube corners, in gmsh order.
func identityHex() []float64 {
	return []float64{
		-1, -1, -1,
		1, -1, -1,
		1, 1, -1,
		-1, 1, -1,
		-1, -1, 1,
		1, -1, 1,
		1, 1, 1,
		-1, 1, 1,
	}
}

// shearedHex applies a mild shear so the mapping is no longer diagonal.
func shearedHex() []float64 {
	xv := identityHex()
	for n := 0; n < 8; n++ {
		xv[n*3+0] += 0.2 * xv[n*3+1]
		xv[n*3+1] += 0.1 * xv[n*3+2]
	}
	return xv
}

func TestRefLocNewtonIdentityHex(t *testing.T) {
	xv := identityHex()

	t.Run("Center", func(t *testing.T) {
		rst, inside, err := RefLocNewton(xv, geom.Vec3{0, 0, 0}, 8, 3)
		require.NoError(t, err)
		assert.True(t, inside)
		assert.InDeltaSlice(t, []float64{0, 0, 0}, rst[:], 1e-10)
	})

	t.Run("Corner", func(t *testing.T) {
		rst, inside, err := RefLocNewton(xv, geom.Vec3{1, 1, 1}, 8, 3)
		require.NoError(t, err)
		assert.True(t, inside)
		assert.InDeltaSlice(t, []float64{1, 1, 1}, rst[:], 1e-9)
	})

	t.Run("Outside", func(t *testing.T) {
		_, inside, err := RefLocNewton(xv, geom.Vec3{1.5, 0.5, 0.5}, 8, 3)
		require.NoError(t, err)
		assert.False(t, inside)
	})
}

// Round-trip: map a reference point to physical space through the shape
// basis, then recover it.
func TestRefLocNewtonRoundTrip(t *testing.T) {
	refPts := [][3]float64{
		{0, 0, 0},
		{0.5, -0.25, 0.75},
		{-0.9, 0.9, -0.4},
		{0.99, 0.99, 0.99},
	}

	for _, name := range []string{"identity", "sheared"} {
		xv := identityHex()
		if name == "sheared" {
			xv = shearedHex()
		}

		t.Run(name, func(t *testing.T) {
			for _, r0 := range refPts {
				target, err := CalcPos(xv, 8, 3, r0)
				require.NoError(t, err)

				rst, inside, err := RefLocNewton(xv, target, 8, 3)
				require.NoError(t, err)
				assert.True(t, inside, "ref %v", r0)
				assert.InDeltaSlice(t, r0[:], rst[:], 1e-9, "ref %v", r0)
			}
		})
	}
}

// A curved 27-node hex: start from the straight-sided quadratic element and
// shift the nodes on the x axis (both x-face centers and the body center).
func curvedHex27(t *testing.T) []float64 {
	t.Helper()
	xv := make([]float64, 27*3)

	fwd, err := basis.GmshToStructuredHex(27)
	require.NoError(t, err)

	xs := []float64{-1, 0, 1}
	for g := 0; g < 27; g++ {
		s := fwd[g]
		i, j, k := s%3, (s/3)%3, s/9
		x, y, z := xs[i], xs[j], xs[k]

		// Shift the nodes with y = z = 0 by +0.15 along x
		bulge := 0.15 * (1 - y*y) * (1 - z*z)
		xv[g*3+0] = x + bulge
		xv[g*3+1] = y
		xv[g*3+2] = z
	}
	return xv
}

func TestRefLocNewtonCurvedHex(t *testing.T) {
	xv := curvedHex27(t)

	for _, r0 := range [][3]float64{{0, 0, 0}, {0.4, 0.2, -0.3}, {-0.6, 0.5, 0.7}} {
		target, err := CalcPos(xv, 27, 3, r0)
		require.NoError(t, err)

		rst, inside, err := RefLocNewton(xv, target, 27, 3)
		require.NoError(t, err)
		assert.True(t, inside, "ref %v", r0)
		assert.InDeltaSlice(t, r0[:], rst[:], 1e-8, "ref %v", r0)
	}
}

func TestRefLocNewtonQuad(t *testing.T) {
	// Unit quad [0,1]^2, gmsh corner order
	xv := []float64{
		0, 0,
		1, 0,
		1, 1,
		0, 1,
	}

	rst, inside, err := RefLocNewton(xv, geom.Vec3{0.75, 0.25, 0}, 4, 2)
	require.NoError(t, err)
	assert.True(t, inside)
	assert.InDelta(t, 0.5, rst[0], 1e-10)
	assert.InDelta(t, -0.5, rst[1], 1e-10)

	_, inside, err = RefLocNewton(xv, geom.Vec3{2, 0.5, 0}, 4, 2)
	require.NoError(t, err)
	assert.False(t, inside)
}

func TestRefLocNewtonBadNodeCount(t *testing.T) {
	xv := make([]float64, 7*3)
	_, _, err := RefLocNewton(xv, geom.Vec3{}, 7, 3)
	require.Error(t, err)
}
