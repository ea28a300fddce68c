package element

import (
	"github.com/oversetlabs/OGKernel/basis"
	"github.com/oversetlabs/OGKernel/geom"
)

// CalcPos maps the reference location rst to physical space for a volume
// element with nNodes vertices and nDims coordinates per vertex.
func CalcPos(xv []float64, nNodes, nDims int, rst [3]float64) (geom.Vec3, error) {
	var shape []float64
	var err error
	if nDims == 3 {
		shape, err = basis.ShapeHex(rst[0], rst[1], rst[2], nNodes)
	} else {
		shape, err = basis.ShapeQuad(rst[0], rst[1], nNodes)
	}
	if err != nil {
		return geom.Vec3{}, err
	}

	var pt geom.Vec3
	for n := 0; n < nNodes; n++ {
		for i := 0; i < nDims; i++ {
			pt[i] += shape[n] * xv[n*nDims+i]
		}
	}
	return pt, nil
}

// CalcPosLine maps the 1D reference coordinate xi along a line facet with
// nNodes nodes of 2 physical coordinates each.
func CalcPosLine(xv []float64, nNodes int, xi float64) geom.Vec3 {
	shape := basis.ShapeLine(xi, nNodes)

	var pt geom.Vec3
	for n := 0; n < nNodes; n++ {
		for i := 0; i < 2; i++ {
			pt[i] += shape[n] * xv[n*2+i]
		}
	}
	return pt
}

// CalcPosSurf maps the 2D reference coordinates (r,s) on a quad facet with
// nNodes nodes of 3 physical coordinates each.
func CalcPosSurf(xv []float64, nNodes int, r, s float64) (geom.Vec3, error) {
	shape, err := basis.ShapeQuad(r, s, nNodes)
	if err != nil {
		return geom.Vec3{}, err
	}

	var pt geom.Vec3
	for n := 0; n < nNodes; n++ {
		for i := 0; i < 3; i++ {
			pt[i] += shape[n] * xv[n*3+i]
		}
	}
	return pt, nil
}
