// Package element implements element-level geometry for curvilinear quads
// and hexes: reference-to-physical mapping, recovery of reference
// coordinates by Newton iteration, and volume integration.
package element

import (
	"math"

	"github.com/oversetlabs/OGKernel/basis"
	"github.com/oversetlabs/OGKernel/geom"
	"github.com/oversetlabs/OGKernel/linalg"
)

const (
	newtonIterMax = 20

	// refTol is the slack allowed outside [-1,1] when deciding whether a
	// converged point is interior.
	refTol = 1e-10
)

// RefLocNewton computes the reference coordinates of the physical point
// target within the element whose nNodes vertices are stored row-major in
// xv (nDims coordinates per node, gmsh order). It returns the reference
// location and whether the point lies inside the element.
//
// The iteration takes full Newton steps clamped to [-1.01, 1.01] and exits
// early when the residual stalls, which protects against oscillation in
// near-singular curvilinear elements. On failure to converge the last
// iterate is returned with inside == false; the only error is a node count
// unsupported by the shape basis.
func RefLocNewton(xv []float64, target geom.Vec3, nNodes, nDims int) ([3]float64, bool, error) {
	bbox := geom.BoundingBox(xv, nNodes, nDims)

	// Relative tolerance from the smallest box extent handles extreme grids
	h := bbox[nDims] - bbox[0]
	for d := 1; d < nDims; d++ {
		h = math.Min(h, bbox[nDims+d]-bbox[d])
	}
	tol := 1e-10 * h

	shape := make([]float64, nNodes)
	dshape := make([]float64, nNodes*nDims)
	grad := make([]float64, nDims*nDims)
	ginv := make([]float64, nDims*nDims)

	var loc [3]float64
	norm := 1.0
	normPrev := 2.0

	for iter := 0; norm > tol && iter < newtonIterMax; iter++ {
		var err error
		if nDims == 2 {
			err = basis.ShapeQuadInto(shape, loc[0], loc[1], nNodes)
			if err == nil {
				err = basis.DShapeQuadInto(dshape, loc[0], loc[1], nNodes)
			}
		} else {
			err = basis.ShapeHexInto(shape, loc[0], loc[1], loc[2], nNodes)
			if err == nil {
				err = basis.DShapeHexInto(dshape, loc[0], loc[1], loc[2], nNodes)
			}
		}
		if err != nil {
			return loc, false, err
		}

		dx := target
		for i := range grad {
			grad[i] = 0
		}
		for n := 0; n < nNodes; n++ {
			for i := 0; i < nDims; i++ {
				for j := 0; j < nDims; j++ {
					grad[i*nDims+j] += xv[n*nDims+i] * dshape[n*nDims+j]
				}
				dx[i] -= shape[n] * xv[n*nDims+i]
			}
		}

		detJ := linalg.Det(grad, nDims)
		linalg.Adjoint(grad, ginv, nDims)

		for i := 0; i < nDims; i++ {
			delta := 0.0
			for j := 0; j < nDims; j++ {
				delta += ginv[i*nDims+j] * dx[j] / detJ
			}
			loc[i] = math.Max(math.Min(loc[i]+delta, 1.01), -1.01)
		}

		norm = 0
		for i := 0; i < nDims; i++ {
			norm += dx[i] * dx[i]
		}
		norm = math.Sqrt(norm)

		// Stalled residual means the iteration is oscillating; stop here
		if iter > 1 && norm > 0.99*normPrev {
			break
		}
		normPrev = norm
	}

	// A stalled or capped iteration has not converged: not inside
	if norm > tol {
		return loc, false, nil
	}

	maxLoc := math.Max(math.Abs(loc[0]), math.Max(math.Abs(loc[1]), math.Abs(loc[2])))
	return loc, maxLoc <= 1+refTol, nil
}
