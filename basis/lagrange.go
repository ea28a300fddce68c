// Package basis evaluates tensor-product Lagrange shape functions and their
// derivatives on line, quad, and hex elements, in the external gmsh node
// ordering. Node sets are always uniformly spaced on [-1,1]; the 20-node
// serendipity hex is handled by closed-form formulas instead of the
// tensor-product path.
package basis

// UniformNodes returns n uniformly spaced nodes on [-1,1]. n must be at
// least 2.
func UniformNodes(n int) []float64 {
	xs := make([]float64, n)
	dxi := 2.0 / float64(n-1)
	for i := range xs {
		xs[i] = -1.0 + float64(i)*dxi
	}
	return xs
}

// Lagrange evaluates the 1D Lagrange polynomial for node mode of the node
// set xs at y. Nodes must be distinct.
func Lagrange(xs []float64, y float64, mode int) float64 {
	lag := 1.0
	for i := range xs {
		if i != mode {
			lag *= (y - xs[i]) / (xs[mode] - xs[i])
		}
	}
	return lag
}

// DLagrange evaluates the derivative of the 1D Lagrange polynomial for node
// mode of the node set xs at y.
func DLagrange(xs []float64, y float64, mode int) float64 {
	dLag := 0.0
	for i := range xs {
		if i == mode {
			continue
		}
		num, den := 1.0, 1.0
		for j := range xs {
			if j != mode && j != i {
				num *= y - xs[j]
			}
			if j != mode {
				den *= xs[mode] - xs[j]
			}
		}
		dLag += num / den
	}
	return dLag
}
