package directcut

import (
	"math"
	"sync"

	"github.com/oversetlabs/OGKernel/basis"
	"github.com/oversetlabs/OGKernel/geom"
)

// Classifier classifies the volume elements of one mesh against the cutting
// facets of another. The zero value is not usable; NNodes and NFV must be
// set to the element and facet node counts.
type Classifier struct {
	NNodes int // nodes per volume element
	NFV    int // nodes per cutting facet
	// CutType selects the orientation of the cutting surface: 0 flips the
	// facet normals, 1 keeps them as supplied.
	CutType int
	// Concurrent is the number of workers for the element loop; values
	// below 2 run serially. Each element writes only its own result slot.
	Concurrent int
}

// Result is one element's classification together with the distance and
// averaged outward normal of the deciding facets.
type Result struct {
	Flag   Flag
	Dist   float64
	Normal geom.Vec3
}

// Flags extracts the per-element flag array from results. The numeric
// values follow the driver contract (unassigned=0, normal=1, hole=2,
// cut=3).
func Flags(rs []Result) []Flag {
	out := make([]Flag, len(rs))
	for i, r := range rs {
		out[i] = r.Flag
	}
	return out
}

// facet holds the per-facet data precomputed once per classification pass.
type facet struct {
	tris     []geom.Triangle
	box      []float64
	normal   geom.Vec3 // already flipped for CutType == 0
	centroid geom.Vec3
}

// Classify classifies nCells elements (vertices row-major in elems, NNodes
// x 3 each, gmsh order) against nCut facets (NFV x 3 each). The outer loop
// is embarrassingly parallel and is distributed over Concurrent workers.
func (c *Classifier) Classify(elems []float64, nCells int, facets []float64, nCut int) ([]Result, error) {
	fds, err := c.prepFacets(facets, nCut)
	if err != nil {
		return nil, err
	}

	results := make([]Result, nCells)

	nw := c.Concurrent
	if nw < 2 {
		for e := 0; e < nCells; e++ {
			r, err := c.classifyElement(elems[e*c.NNodes*3:(e+1)*c.NNodes*3], fds)
			if err != nil {
				return nil, err
			}
			results[e] = r
		}
		return results, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	chunk := (nCells + nw - 1) / nw
	for w := 0; w < nw; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > nCells {
			hi = nCells
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for e := lo; e < hi; e++ {
				r, err := c.classifyElement(elems[e*c.NNodes*3:(e+1)*c.NNodes*3], fds)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				results[e] = r
			}
		}(lo, hi)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}

// classifyElement runs the per-element facet scan of the direct-cut method.
func (c *Classifier) classifyElement(exv []float64, fds []facet) (Result, error) {
	bbox := geom.BoundingBox(exv, c.NNodes, 3)
	btol := (bbox[3] - bbox[0]) + (bbox[4] - bbox[1]) + (bbox[5] - bbox[2])
	dtol := 1e-3 * btol
	cutTol := 1e-8 * btol

	eleTris, err := sampleHexSurface(exv, c.NNodes)
	if err != nil {
		return Result{}, err
	}

	res := Result{Flag: FlagUnassigned, Dist: math.Inf(1)}
	var sep geom.Vec3
	count := 0

	for fi := range fds {
		fd := &fds[fi]
		if boxReject(bbox, fd.box, btol) {
			continue
		}
		// A cut element stays cut; nothing later in the pass can change it
		if res.Flag == FlagCut {
			break
		}

		minDist := math.Inf(1)
		var minVec geom.Vec3
		for _, et := range eleTris {
			for _, ft := range fd.tris {
				d, v := geom.TriTriDistance(et, ft, cutTol)
				if d < minDist {
					minDist, minVec = d, v
				}
			}
		}

		if minDist < cutTol {
			res.Flag = FlagCut
			res.Dist = 0
			continue
		}

		switch {
		case res.Flag == FlagUnassigned || minDist < res.Dist-dtol:
			// First facet in range, or a clearly closer one: it decides
			res.Dist = minDist
			sep = minVec
			res.Normal = fd.normal
			count = 1
			if res.Normal.Dot(minVec.Normalized()) < 0 {
				res.Flag = FlagHole
			} else {
				res.Flag = FlagNormal
			}
		case math.Abs(minDist-res.Dist) <= dtol:
			// Tied facet: fold its normal into the running average and
			// re-decide from the fresh normal
			res.Normal = res.Normal.Scale(float64(count)).Add(fd.normal).Scale(1 / float64(count+1))
			count++
			if res.Normal.Dot(sep.Normalized()) < 0 {
				res.Flag = FlagHole
			} else {
				res.Flag = FlagNormal
			}
		}
	}

	// Nothing within range: fall back to the facet centroid nearest the
	// element centroid and classify from the centroid separation.
	if res.Flag == FlagUnassigned && len(fds) > 0 {
		ec := centroid(exv, c.NNodes)
		best := 0
		bestDist := math.Inf(1)
		for fi := range fds {
			d := fds[fi].centroid.Sub(ec).NormSq()
			if d < bestDist {
				bestDist = d
				best = fi
			}
		}
		vec := ec.Sub(fds[best].centroid)
		res.Dist = vec.Norm()
		res.Normal = fds[best].normal
		if res.Normal.Dot(vec.Normalized()) < 0 {
			res.Flag = FlagHole
		} else {
			res.Flag = FlagNormal
		}
	}

	return res, nil
}

// prepFacets samples every facet into triangles and precomputes its box,
// outward normal, and centroid.
func (c *Classifier) prepFacets(facets []float64, nCut int) ([]facet, error) {
	fds := make([]facet, nCut)
	for f := 0; f < nCut; f++ {
		fxv := facets[f*c.NFV*3 : (f+1)*c.NFV*3]

		tris, err := sampleQuadSurface(fxv, c.NFV)
		if err != nil {
			return nil, err
		}

		norm := geom.FaceNormal(fxv[:12], 3)
		if c.CutType == 0 {
			norm = norm.Scale(-1)
		}

		fds[f] = facet{
			tris:     tris,
			box:      geom.BoundingBox(fxv, c.NFV, 3),
			normal:   norm,
			centroid: centroid(fxv, c.NFV),
		}
	}
	return fds, nil
}

// boxReject reports whether the facet box lies farther than btol from the
// element box along any axis.
func boxReject(ebox, fbox []float64, btol float64) bool {
	for d := 0; d < 3; d++ {
		if fbox[d] > ebox[3+d]+btol || fbox[3+d] < ebox[d]-btol {
			return true
		}
	}
	return false
}

func centroid(xv []float64, nPts int) geom.Vec3 {
	var ctr geom.Vec3
	for i := 0; i < nPts; i++ {
		for d := 0; d < 3; d++ {
			ctr[d] += xv[i*3+d]
		}
	}
	return ctr.Scale(1 / float64(nPts))
}

// surfOrder resolves the per-edge node count used to sample an element or
// facet surface.
func surfOrder(nNodes, dims int) (int, error) {
	if dims == 3 && nNodes == 20 {
		return 3, nil
	}
	root := math.Cbrt
	shape := "hex"
	if dims == 2 {
		root = math.Sqrt
		shape = "quad"
	}
	n := int(math.Round(root(float64(nNodes))))
	p := 1
	for i := 0; i < dims; i++ {
		p *= n
	}
	if p != nNodes || n < 2 {
		return 0, &basis.ShapeOrderError{Shape: shape, NNodes: nNodes}
	}
	return n, nil
}

// sampleHexSurface tessellates the six faces of a (possibly curved) hex
// into sorder^2 sub-quads each, split into two triangles, by evaluating the
// shape basis on a reference grid per face.
func sampleHexSurface(exv []float64, nNodes int) ([]geom.Triangle, error) {
	nSide, err := surfOrder(nNodes, 3)
	if err != nil {
		return nil, err
	}
	nSeg := nSide - 1
	npt := nSeg + 1

	shape := make([]float64, nNodes)
	grid := make([]geom.Vec3, npt*npt)
	tris := make([]geom.Triangle, 0, 6*nSeg*nSeg*2)

	// Each face fixes one reference axis at +-1 and spans the other two
	faces := [6][2]int{{2, -1}, {2, 1}, {1, -1}, {1, 1}, {0, -1}, {0, 1}}

	for _, face := range faces {
		fixDim, fixVal := face[0], float64(face[1])
		for b := 0; b < npt; b++ {
			for a := 0; a < npt; a++ {
				var rst [3]float64
				rst[fixDim] = fixVal
				u := -1 + 2*float64(a)/float64(nSeg)
				v := -1 + 2*float64(b)/float64(nSeg)
				switch fixDim {
				case 0:
					rst[1], rst[2] = u, v
				case 1:
					rst[0], rst[2] = u, v
				default:
					rst[0], rst[1] = u, v
				}

				if err := basis.ShapeHexInto(shape, rst[0], rst[1], rst[2], nNodes); err != nil {
					return nil, err
				}
				var pt geom.Vec3
				for n := 0; n < nNodes; n++ {
					for d := 0; d < 3; d++ {
						pt[d] += shape[n] * exv[n*3+d]
					}
				}
				grid[b*npt+a] = pt
			}
		}
		tris = appendGridTriangles(tris, grid, nSeg)
	}

	return tris, nil
}

// sampleQuadSurface tessellates a (possibly curved) quad facet into
// sub-triangles on a reference grid.
func sampleQuadSurface(fxv []float64, nfv int) ([]geom.Triangle, error) {
	nSide, err := surfOrder(nfv, 2)
	if err != nil {
		return nil, err
	}
	nSeg := nSide - 1
	npt := nSeg + 1

	shape := make([]float64, nfv)
	grid := make([]geom.Vec3, npt*npt)

	for b := 0; b < npt; b++ {
		for a := 0; a < npt; a++ {
			u := -1 + 2*float64(a)/float64(nSeg)
			v := -1 + 2*float64(b)/float64(nSeg)
			if err := basis.ShapeQuadInto(shape, u, v, nfv); err != nil {
				return nil, err
			}
			var pt geom.Vec3
			for n := 0; n < nfv; n++ {
				for d := 0; d < 3; d++ {
					pt[d] += shape[n] * fxv[n*3+d]
				}
			}
			grid[b*npt+a] = pt
		}
	}

	return appendGridTriangles(nil, grid, nSeg), nil
}

// appendGridTriangles splits each sub-quad of an (nSeg+1)^2 point grid into
// two triangles.
func appendGridTriangles(tris []geom.Triangle, grid []geom.Vec3, nSeg int) []geom.Triangle {
	npt := nSeg + 1
	for b := 0; b < nSeg; b++ {
		for a := 0; a < nSeg; a++ {
			c0 := grid[b*npt+a]
			c1 := grid[b*npt+a+1]
			c2 := grid[(b+1)*npt+a+1]
			c3 := grid[(b+1)*npt+a]
			tris = append(tris, geom.Triangle{c0, c1, c2}, geom.Triangle{c0, c2, c3})
		}
	}
	return tris
}
