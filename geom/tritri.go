package geom

import "math"

// planeTol is the absolute threshold below which a signed plane distance is
// rounded to exactly zero.
const planeTol = 1e-10

// TriTriDistance computes the minimum distance between two triangles using a
// modified Moller test: edge-edge distances first, then signed-plane logic
// with coplanar and one-sided fallbacks, then interval overlap along the
// plane-intersection line. A result of 0 means the triangles touch or
// intersect to within tol. The separation vector points from t1 toward t2
// and is zero when the distance is zero.
func TriTriDistance(t1, t2 Triangle, tol float64) (float64, Vec3) {
	// Nine pairwise edge-edge minimum distances
	minDist := math.Inf(1)
	var minVec Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d, v := SegmentDistance(t1[i], t1[(i+1)%3], t2[j], t2[(j+1)%3])
			if d < minDist {
				minDist, minVec = d, v
			}
		}
	}
	if minDist < tol {
		return 0, Vec3{}
	}

	n1 := t1[1].Sub(t1[0]).Cross(t1[2].Sub(t1[0])).Normalized()
	n2 := t2[1].Sub(t2[0]).Cross(t2[2].Sub(t2[0])).Normalized()
	if n1 == (Vec3{}) || n2 == (Vec3{}) {
		// Degenerate triangle; edge-edge result is all we have
		return minDist, minVec
	}

	// Signed distances of each triangle's vertices to the other's plane
	var d1, d2 [3]float64
	for i := 0; i < 3; i++ {
		d1[i] = roundPlane(n2.Dot(t1[i].Sub(t2[0])))
		d2[i] = roundPlane(n1.Dot(t2[i].Sub(t1[0])))
	}

	if d1[0] == 0 && d1[1] == 0 && d1[2] == 0 &&
		d2[0] == 0 && d2[1] == 0 && d2[2] == 0 {
		// Coplanar: crossing edges were caught above, so only full
		// containment of one triangle in the other remains.
		for i := 0; i < 3; i++ {
			if pointInTri(t1[i], t2, n2) || pointInTri(t2[i], t1, n1) {
				return 0, Vec3{}
			}
		}
		return minDist, minVec
	}

	straddle1 := straddles(d1)
	straddle2 := straddles(d2)

	// T1 entirely on one side of T2's plane: project its vertices onto the
	// plane and keep any projection landing inside T2.
	if !straddle1 {
		for i := 0; i < 3; i++ {
			proj := t1[i].Sub(n2.Scale(d1[i]))
			if pointInTri(proj, t2, n2) && math.Abs(d1[i]) < minDist {
				minDist = math.Abs(d1[i])
				minVec = n2.Scale(-d1[i])
			}
		}
	}
	if !straddle2 {
		for j := 0; j < 3; j++ {
			proj := t2[j].Sub(n1.Scale(d2[j]))
			if pointInTri(proj, t1, n1) && math.Abs(d2[j]) < minDist {
				minDist = math.Abs(d2[j])
				minVec = n1.Scale(d2[j])
			}
		}
	}

	if !straddle1 || !straddle2 {
		return minDist, minVec
	}

	// Both triangles pierce the other's plane: compare the intersection
	// intervals along the line of the two planes.
	ldir := n1.Cross(n2).Normalized()
	if ldir == (Vec3{}) {
		return minDist, minVec
	}

	s1, s2 := planeCrossInterval(t1, d1, ldir)
	u1, u2 := planeCrossInterval(t2, d2, ldir)

	if s2 >= u1-planeTol && u2 >= s1-planeTol {
		return 0, Vec3{}
	}

	var gap float64
	var dir Vec3
	if u1 > s2 {
		gap = u1 - s2
		dir = ldir
	} else {
		gap = s1 - u2
		dir = ldir.Scale(-1)
	}
	if gap < minDist {
		return gap, dir.Scale(gap)
	}
	return minDist, minVec
}

func roundPlane(d float64) float64 {
	if math.Abs(d) < planeTol {
		return 0
	}
	return d
}

// straddles reports whether the signed distances contain both strictly
// positive and strictly negative entries.
func straddles(d [3]float64) bool {
	var pos, neg bool
	for _, v := range d {
		if v > 0 {
			pos = true
		} else if v < 0 {
			neg = true
		}
	}
	return pos && neg
}

// pointInTri tests whether p, assumed to lie in the triangle's plane, falls
// inside the triangle. The vertices are CCW with respect to n.
func pointInTri(p Vec3, t Triangle, n Vec3) bool {
	for i := 0; i < 3; i++ {
		e := t[(i+1)%3].Sub(t[i])
		if e.Cross(p.Sub(t[i])).Dot(n) < 0 {
			return false
		}
	}
	return true
}

// planeCrossInterval parameterizes the triangle's intersection with the
// other plane as an interval along the unit direction ldir. d holds the
// vertices' signed distances to that plane and must contain both signs.
func planeCrossInterval(t Triangle, d [3]float64, ldir Vec3) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	add := func(p Vec3) {
		s := ldir.Dot(p)
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			add(t[i])
		}
		j := (i + 1) % 3
		if d[i]*d[j] < 0 {
			frac := d[i] / (d[i] - d[j])
			add(t[i].Add(t[j].Sub(t[i]).Scale(frac)))
		}
	}
	return lo, hi
}
