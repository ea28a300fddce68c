package directcut

import (
	"math"

	"github.com/oversetlabs/OGKernel/element"
	"github.com/oversetlabs/OGKernel/geom"
	"gonum.org/v1/gonum/optimize"
)

// intersectEps is the objective threshold below which the face is declared
// to penetrate the element.
const intersectEps = 2e-8

// intersectIterMax caps the simplex search.
const intersectIterMax = 300

// funcThreshold terminates a minimization once the incumbent function value
// drops below the threshold.
type funcThreshold struct {
	tol float64
}

func (c funcThreshold) Init(dim int) {}

func (c funcThreshold) Converged(loc *optimize.Location) optimize.Status {
	if loc.F < c.tol {
		return optimize.FunctionConvergence
	}
	return optimize.NotTerminated
}

// constraintVal is positive when any reference coordinate leaves [-1,1] and
// -1 otherwise.
func constraintVal(x []float64) float64 {
	maxVal := 0.0
	for _, v := range x {
		maxVal = math.Max(maxVal, math.Abs(v))
	}
	if maxVal > 1 {
		return maxVal
	}
	return -1
}

// IntersectionCheck confirms whether the face surface with nfv nodes in fxv
// penetrates the element with nev nodes in exv, by a derivative-free search
// over the face's parameter space. It returns the zero vector when the
// surfaces intersect; otherwise it returns the displacement from the best
// face point found to the nearest point of the element.
//
// The search minimizes a barrier objective that is zero whenever the face
// point maps inside the element's reference cube and grows with the
// distance outside it; infeasible face parameters are rejected through a
// composed constraint penalty.
func IntersectionCheck(fxv []float64, nfv int, exv []float64, nev, nDims int) geom.Vec3 {
	facePoint := func(x []float64) geom.Vec3 {
		if nDims == 2 {
			return element.CalcPosLine(fxv, nfv, x[0])
		}
		pt, err := element.CalcPosSurf(fxv, nfv, x[0], x[1])
		if err != nil {
			return geom.Vec3{}
		}
		return pt
	}

	objective := func(x []float64) float64 {
		if cv := constraintVal(x); cv > 0 {
			return 10 + cv
		}

		rst, _, err := element.RefLocNewton(exv, facePoint(x), nev, nDims)
		if err != nil {
			return 10
		}

		maxVal := 0.0
		for i := 0; i < nDims; i++ {
			maxVal = math.Max(maxVal, math.Abs(rst[i]))
		}
		if maxVal > 1+intersectEps {
			return maxVal - 1
		}
		return 0
	}

	// The face parameter space has one fewer dimension than the element
	dim := nDims - 1
	edge := 0.3
	if nDims == 2 {
		edge = 0.75
	}
	// RegularSimplex takes the vertex distance from the center; a regular
	// simplex of unit circumradius has edge length sqrt(2(1+1/dim))
	size := edge / math.Sqrt(2*(1+1/float64(dim)))

	x0 := make([]float64, dim)
	verts := RegularSimplex(dim, x0, size)
	vals := make([]float64, len(verts))
	for i, v := range verts {
		vals[i] = objective(v)
	}

	method := &optimize.NelderMead{
		InitialVertices: verts,
		InitialValues:   vals,
		Reflection:      1,
		Expansion:       2,
		Contraction:     0.5,
		Shrink:          0.5,
	}
	settings := &optimize.Settings{
		Converger:       funcThreshold{tol: intersectEps},
		MajorIterations: intersectIterMax,
	}

	res, err := optimize.Minimize(optimize.Problem{Func: objective}, x0, settings, method)
	if err != nil && res == nil {
		return geom.Vec3{}
	}

	if res.F < intersectEps {
		return geom.Vec3{}
	}

	// No intersection: report the displacement from the best face point to
	// the element surface
	pt := facePoint(res.X)
	rst, _, err := element.RefLocNewton(exv, pt, nev, nDims)
	if err != nil {
		return geom.Vec3{}
	}
	for i := 0; i < nDims; i++ {
		rst[i] = math.Min(math.Max(rst[i], -1), 1)
	}

	ptC, err := element.CalcPos(exv, nev, nDims, rst)
	if err != nil {
		return geom.Vec3{}
	}

	return ptC.Sub(pt)
}
