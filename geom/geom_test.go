package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecOps(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	assert.Equal(t, Vec3{5, -3, 9}, a.Add(b))
	assert.Equal(t, Vec3{-3, 7, -3}, a.Sub(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.InDelta(t, 12.0, a.Dot(b), 1e-14)

	c := Vec3{1, 0, 0}.Cross(Vec3{0, 1, 0})
	assert.Equal(t, Vec3{0, 0, 1}, c)

	assert.InDelta(t, math.Sqrt(14), a.Norm(), 1e-14)
	assert.InDelta(t, 1.0, a.Normalized().Norm(), 1e-14)
	assert.Equal(t, Vec3{}, Vec3{}.Normalized())
}

func TestBoundingBox(t *testing.T) {
	pts := []float64{
		0, 0, 0,
		1, 2, -1,
		-0.5, 1, 3,
	}
	bbox := BoundingBox(pts, 3, 3)

	assert.Equal(t, []float64{-0.5, 0, -1, 1, 2, 3}, bbox)
}

func TestBoundingBox2D(t *testing.T) {
	pts := []float64{0, 0, 2, 1, -1, 4}
	bbox := BoundingBox(pts, 3, 2)

	assert.Equal(t, []float64{-1, 0, 2, 4}, bbox)
}

func TestTransformedBoundingBox(t *testing.T) {
	pts := []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	// Rotate 90 degrees about z: (x,y,z) -> (-y,x,z)
	smat := []float64{
		0, -1, 0,
		1, 0, 0,
		0, 0, 1,
	}
	bbox := TransformedBoundingBox(pts, 3, 3, smat)

	assert.InDeltaSlice(t, []float64{-1, 0, 0, 0, 1, 1}, bbox, 1e-14)
}

func TestTransformedBoundingBoxIdentity(t *testing.T) {
	pts := []float64{
		0.3, -1.5, 2,
		-2, 0.25, 1,
	}
	ident := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}

	assert.InDeltaSlice(t, BoundingBox(pts, 2, 3),
		TransformedBoundingBox(pts, 2, 3, ident), 1e-14)
}

func TestFaceNormal3D(t *testing.T) {
	// Unit quad in the xy-plane, CCW from above: outward normal +z
	xv := []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
	}
	n := FaceNormal(xv, 3)

	assert.InDeltaSlice(t, []float64{0, 0, 1}, n[:], 1e-14)
}

func TestFaceNormal3DNonPlanar(t *testing.T) {
	// Warp one corner out of plane; the averaged normal stays unit length
	xv := []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0.2,
		0, 1, 0,
	}
	n := FaceNormal(xv, 3)

	assert.InDelta(t, 1.0, n.Norm(), 1e-12)
	assert.Greater(t, n[2], 0.9)
}

func TestFaceNormal2D(t *testing.T) {
	// n = (-dy, dx): a segment along +x gets normal +y
	xv := []float64{0, 0, 1, 0}
	n := FaceNormal(xv, 2)

	assert.InDeltaSlice(t, []float64{0, 1, 0}, n[:], 1e-14)
}

func TestSegmentDistance(t *testing.T) {
	cases := []struct {
		name           string
		p0, p1, q0, q1 Vec3
		want           float64
	}{
		{"parallel unit apart", Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0}, Vec3{1, 1, 0}, 1},
		{"crossing", Vec3{-1, 0, 0}, Vec3{1, 0, 0}, Vec3{0, -1, 0}, Vec3{0, 1, 0}, 0},
		{"skew", Vec3{-1, 0, 0}, Vec3{1, 0, 0}, Vec3{0, -1, 1}, Vec3{0, 1, 1}, 1},
		{"endpoint to endpoint", Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{3, 0, 0}, Vec3{4, 0, 0}, 2},
		{"degenerate points", Vec3{0, 0, 0}, Vec3{0, 0, 0}, Vec3{0, 0, 5}, Vec3{0, 0, 5}, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, v := SegmentDistance(tc.p0, tc.p1, tc.q0, tc.q1)
			assert.InDelta(t, tc.want, d, 1e-12)
			assert.InDelta(t, tc.want, v.Norm(), 1e-12)
		})
	}
}

func TestSegmentDistanceDirection(t *testing.T) {
	// Separation vector points from the first segment toward the second
	_, v := SegmentDistance(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 0, 2}, Vec3{1, 0, 2})
	assert.InDeltaSlice(t, []float64{0, 0, 2}, v[:], 1e-12)
}
