package element

import (
	"errors"
	"fmt"
	"math"

	"github.com/oversetlabs/OGKernel/basis"
	"github.com/oversetlabs/OGKernel/linalg"
	"gonum.org/v1/gonum/integrate/quad"
)

// ErrNegativeJacobian indicates a tangled or inverted element: the mapping
// Jacobian changed sign at a quadrature point.
var ErrNegativeJacobian = errors.New("negative Jacobian at quadrature point")

// ComputeVolume integrates the volume (area in 2D) of a curved element by
// Gauss-Legendre quadrature at the order resolved from the node count.
func ComputeVolume(xv []float64, nNodes, nDims int) (float64, error) {
	// Resolve the per-axis point count; the 20-node serendipity hex gets
	// the quadratic element's truncated root like any other non-cube count.
	nSide := int(math.Cbrt(float64(nNodes)) + 1e-10)
	if nDims == 2 {
		nSide = int(math.Sqrt(float64(nNodes)) + 1e-10)
	}
	if nSide < 2 {
		nSide = 2
	}

	pts := make([]float64, nSide)
	wts := make([]float64, nSide)
	quad.Legendre{}.FixedLocations(pts, wts, -1, 1)

	dshape := make([]float64, nNodes*nDims)
	jaco := make([]float64, nDims*nDims)

	var rst [3]float64
	vol := 0.0

	// Tensor walk over the quadrature grid
	nSpts := nSide * nSide
	if nDims == 3 {
		nSpts *= nSide
	}
	for spt := 0; spt < nSpts; spt++ {
		idx := spt
		w := 1.0
		for d := 0; d < nDims; d++ {
			rst[d] = pts[idx%nSide]
			w *= wts[idx%nSide]
			idx /= nSide
		}

		var err error
		if nDims == 2 {
			err = basis.DShapeQuadInto(dshape, rst[0], rst[1], nNodes)
		} else {
			err = basis.DShapeHexInto(dshape, rst[0], rst[1], rst[2], nNodes)
		}
		if err != nil {
			return 0, err
		}

		for i := range jaco {
			jaco[i] = 0
		}
		for n := 0; n < nNodes; n++ {
			for d1 := 0; d1 < nDims; d1++ {
				for d2 := 0; d2 < nDims; d2++ {
					jaco[d1*nDims+d2] += dshape[n*nDims+d2] * xv[n*nDims+d1]
				}
			}
		}

		var detJ float64
		if nDims == 2 {
			detJ = linalg.Det2(jaco)
		} else {
			detJ = linalg.Det3(jaco)
		}
		if detJ < 0 {
			return 0, fmt.Errorf("%w (point %d of %d)", ErrNegativeJacobian, spt, nSpts)
		}

		vol += detJ * w
	}

	return vol, nil
}
