package basis

// Serendipity hex corner signs, gmsh node order.
var (
	serXi  = [8]float64{-1, 1, 1, -1, -1, 1, 1, -1}
	serEta = [8]float64{-1, -1, 1, 1, -1, -1, 1, 1}
	serMu  = [8]float64{-1, -1, -1, -1, 1, 1, 1, 1}
)

// ShapeLine evaluates the nNodes 1D Lagrange shape functions on the uniform
// node set at xi.
func ShapeLine(xi float64, nNodes int) []float64 {
	out := make([]float64, nNodes)
	ShapeLineInto(out, xi, nNodes)
	return out
}

// ShapeLineInto is ShapeLine writing into a caller-provided slice of length
// nNodes.
func ShapeLineInto(out []float64, xi float64, nNodes int) {
	xs := UniformNodes(nNodes)
	for i := 0; i < nNodes; i++ {
		out[i] = Lagrange(xs, xi, i)
	}
}

// ShapeQuad evaluates the shape functions of an nNodes-node Lagrange quad at
// reference coordinates (r,s), in gmsh node order. nNodes must be a perfect
// square.
func ShapeQuad(r, s float64, nNodes int) ([]float64, error) {
	out := make([]float64, nNodes)
	if err := ShapeQuadInto(out, r, s, nNodes); err != nil {
		return nil, err
	}
	return out, nil
}

// ShapeQuadInto is ShapeQuad writing into a caller-provided slice of length
// nNodes.
func ShapeQuadInto(out []float64, r, s float64, nNodes int) error {
	nSide := intRoot(nNodes, 2)
	if nSide < 0 {
		return &ShapeOrderError{Shape: "quad", NNodes: nNodes}
	}

	ijk2gmsh, err := StructuredToGmshQuad(nNodes)
	if err != nil {
		return err
	}

	xs := UniformNodes(nSide)
	lagI := make([]float64, nSide)
	lagJ := make([]float64, nSide)
	for i := 0; i < nSide; i++ {
		lagI[i] = Lagrange(xs, r, i)
		lagJ[i] = Lagrange(xs, s, i)
	}

	for j := 0; j < nSide; j++ {
		for i := 0; i < nSide; i++ {
			out[ijk2gmsh[i+nSide*j]] = lagI[i] * lagJ[j]
		}
	}

	return nil
}

// DShapeQuad evaluates the reference-coordinate derivatives of the quad
// shape functions at (r,s). The layout is row-major [node][dim] in gmsh node
// order.
func DShapeQuad(r, s float64, nNodes int) ([]float64, error) {
	out := make([]float64, 2*nNodes)
	if err := DShapeQuadInto(out, r, s, nNodes); err != nil {
		return nil, err
	}
	return out, nil
}

// DShapeQuadInto is DShapeQuad writing into a caller-provided slice of
// length 2*nNodes.
func DShapeQuadInto(out []float64, r, s float64, nNodes int) error {
	nSide := intRoot(nNodes, 2)
	if nSide < 0 {
		return &ShapeOrderError{Shape: "quad", NNodes: nNodes}
	}

	ijk2gmsh, err := StructuredToGmshQuad(nNodes)
	if err != nil {
		return err
	}

	xs := UniformNodes(nSide)
	lagI := make([]float64, nSide)
	lagJ := make([]float64, nSide)
	dlagI := make([]float64, nSide)
	dlagJ := make([]float64, nSide)
	for i := 0; i < nSide; i++ {
		lagI[i] = Lagrange(xs, r, i)
		lagJ[i] = Lagrange(xs, s, i)
		dlagI[i] = DLagrange(xs, r, i)
		dlagJ[i] = DLagrange(xs, s, i)
	}

	for j := 0; j < nSide; j++ {
		for i := 0; i < nSide; i++ {
			g := ijk2gmsh[i+nSide*j]
			out[2*g+0] = dlagI[i] * lagJ[j]
			out[2*g+1] = lagI[i] * dlagJ[j]
		}
	}

	return nil
}

// ShapeHex evaluates the shape functions of an nNodes-node hex at reference
// coordinates (r,s,t), in gmsh node order. nNodes must be a perfect cube,
// or 20 for the quadratic serendipity hex.
func ShapeHex(r, s, t float64, nNodes int) ([]float64, error) {
	out := make([]float64, nNodes)
	if err := ShapeHexInto(out, r, s, t, nNodes); err != nil {
		return nil, err
	}
	return out, nil
}

// ShapeHexInto is ShapeHex writing into a caller-provided slice of length
// nNodes.
func ShapeHexInto(out []float64, r, s, t float64, nNodes int) error {
	if nNodes == 20 {
		serendipityShape(out, r, s, t)
		return nil
	}

	nSide := intRoot(nNodes, 3)
	if nSide < 0 {
		return &ShapeOrderError{Shape: "hex", NNodes: nNodes}
	}

	ijk2gmsh, err := StructuredToGmshHex(nNodes)
	if err != nil {
		return err
	}

	xs := UniformNodes(nSide)
	lagI := make([]float64, nSide)
	lagJ := make([]float64, nSide)
	lagK := make([]float64, nSide)
	for i := 0; i < nSide; i++ {
		lagI[i] = Lagrange(xs, r, i)
		lagJ[i] = Lagrange(xs, s, i)
		lagK[i] = Lagrange(xs, t, i)
	}

	for k := 0; k < nSide; k++ {
		for j := 0; j < nSide; j++ {
			for i := 0; i < nSide; i++ {
				out[ijk2gmsh[i+nSide*(j+nSide*k)]] = lagI[i] * lagJ[j] * lagK[k]
			}
		}
	}

	return nil
}

// DShapeHex evaluates the reference-coordinate derivatives of the hex shape
// functions at (r,s,t). The layout is row-major [node][dim] in gmsh node
// order.
func DShapeHex(r, s, t float64, nNodes int) ([]float64, error) {
	out := make([]float64, 3*nNodes)
	if err := DShapeHexInto(out, r, s, t, nNodes); err != nil {
		return nil, err
	}
	return out, nil
}

// DShapeHexInto is DShapeHex writing into a caller-provided slice of length
// 3*nNodes.
func DShapeHexInto(out []float64, r, s, t float64, nNodes int) error {
	if nNodes == 20 {
		serendipityDShape(out, r, s, t)
		return nil
	}

	nSide := intRoot(nNodes, 3)
	if nSide < 0 {
		return &ShapeOrderError{Shape: "hex", NNodes: nNodes}
	}

	ijk2gmsh, err := StructuredToGmshHex(nNodes)
	if err != nil {
		return err
	}

	xs := UniformNodes(nSide)
	lagI := make([]float64, nSide)
	lagJ := make([]float64, nSide)
	lagK := make([]float64, nSide)
	dlagI := make([]float64, nSide)
	dlagJ := make([]float64, nSide)
	dlagK := make([]float64, nSide)
	for i := 0; i < nSide; i++ {
		lagI[i] = Lagrange(xs, r, i)
		dlagI[i] = DLagrange(xs, r, i)
		lagJ[i] = Lagrange(xs, s, i)
		dlagJ[i] = DLagrange(xs, s, i)
		lagK[i] = Lagrange(xs, t, i)
		dlagK[i] = DLagrange(xs, t, i)
	}

	for k := 0; k < nSide; k++ {
		for j := 0; j < nSide; j++ {
			for i := 0; i < nSide; i++ {
				g := ijk2gmsh[i+nSide*(j+nSide*k)]
				out[3*g+0] = dlagI[i] * lagJ[j] * lagK[k]
				out[3*g+1] = lagI[i] * dlagJ[j] * lagK[k]
				out[3*g+2] = lagI[i] * lagJ[j] * dlagK[k]
			}
		}
	}

	return nil
}

// serendipityShape evaluates the quadratic serendipity hex basis. The node
// ordering is specific to this element and does not follow the
// tensor-product maps.
func serendipityShape(out []float64, xi, eta, mu float64) {
	// Corner nodes
	for i := 0; i < 8; i++ {
		out[i] = 0.125 * (1 + xi*serXi[i]) * (1 + eta*serEta[i]) * (1 + mu*serMu[i]) *
			(xi*serXi[i] + eta*serEta[i] + mu*serMu[i] - 2)
	}
	// Edge nodes, xi = 0
	out[8] = 0.25 * (1 - xi*xi) * (1 - eta) * (1 - mu)
	out[10] = 0.25 * (1 - xi*xi) * (1 + eta) * (1 - mu)
	out[16] = 0.25 * (1 - xi*xi) * (1 - eta) * (1 + mu)
	out[18] = 0.25 * (1 - xi*xi) * (1 + eta) * (1 + mu)
	// Edge nodes, eta = 0
	out[9] = 0.25 * (1 - eta*eta) * (1 + xi) * (1 - mu)
	out[11] = 0.25 * (1 - eta*eta) * (1 - xi) * (1 - mu)
	out[17] = 0.25 * (1 - eta*eta) * (1 + xi) * (1 + mu)
	out[19] = 0.25 * (1 - eta*eta) * (1 - xi) * (1 + mu)
	// Edge nodes, mu = 0
	out[12] = 0.25 * (1 - mu*mu) * (1 - xi) * (1 - eta)
	out[13] = 0.25 * (1 - mu*mu) * (1 + xi) * (1 - eta)
	out[14] = 0.25 * (1 - mu*mu) * (1 + xi) * (1 + eta)
	out[15] = 0.25 * (1 - mu*mu) * (1 - xi) * (1 + eta)
}

func serendipityDShape(out []float64, xi, eta, mu float64) {
	// Corner nodes
	for i := 0; i < 8; i++ {
		out[3*i+0] = 0.125 * serXi[i] * (1 + eta*serEta[i]) * (1 + mu*serMu[i]) *
			(2*xi*serXi[i] + eta*serEta[i] + mu*serMu[i] - 1)
		out[3*i+1] = 0.125 * serEta[i] * (1 + xi*serXi[i]) * (1 + mu*serMu[i]) *
			(xi*serXi[i] + 2*eta*serEta[i] + mu*serMu[i] - 1)
		out[3*i+2] = 0.125 * serMu[i] * (1 + xi*serXi[i]) * (1 + eta*serEta[i]) *
			(xi*serXi[i] + eta*serEta[i] + 2*mu*serMu[i] - 1)
	}
	// Edge nodes, xi = 0
	out[3*8+0] = -0.5 * xi * (1 - eta) * (1 - mu)
	out[3*8+1] = -0.25 * (1 - xi*xi) * (1 - mu)
	out[3*8+2] = -0.25 * (1 - xi*xi) * (1 - eta)
	out[3*10+0] = -0.5 * xi * (1 + eta) * (1 - mu)
	out[3*10+1] = 0.25 * (1 - xi*xi) * (1 - mu)
	out[3*10+2] = -0.25 * (1 - xi*xi) * (1 + eta)
	out[3*16+0] = -0.5 * xi * (1 - eta) * (1 + mu)
	out[3*16+1] = -0.25 * (1 - xi*xi) * (1 + mu)
	out[3*16+2] = 0.25 * (1 - xi*xi) * (1 - eta)
	out[3*18+0] = -0.5 * xi * (1 + eta) * (1 + mu)
	out[3*18+1] = 0.25 * (1 - xi*xi) * (1 + mu)
	out[3*18+2] = 0.25 * (1 - xi*xi) * (1 + eta)
	// Edge nodes, eta = 0
	out[3*9+0] = 0.25 * (1 - eta*eta) * (1 - mu)
	out[3*9+1] = -0.5 * eta * (1 + xi) * (1 - mu)
	out[3*9+2] = -0.25 * (1 - eta*eta) * (1 + xi)
	out[3*11+0] = -0.25 * (1 - eta*eta) * (1 - mu)
	out[3*11+1] = -0.5 * eta * (1 - xi) * (1 - mu)
	out[3*11+2] = -0.25 * (1 - eta*eta) * (1 - xi)
	out[3*17+0] = 0.25 * (1 - eta*eta) * (1 + mu)
	out[3*17+1] = -0.5 * eta * (1 + xi) * (1 + mu)
	out[3*17+2] = 0.25 * (1 - eta*eta) * (1 + xi)
	out[3*19+0] = -0.25 * (1 - eta*eta) * (1 + mu)
	out[3*19+1] = -0.5 * eta * (1 - xi) * (1 + mu)
	out[3*19+2] = 0.25 * (1 - eta*eta) * (1 - xi)
	// Edge nodes, mu = 0
	out[3*12+0] = -0.25 * (1 - mu*mu) * (1 - eta)
	out[3*12+1] = -0.25 * (1 - mu*mu) * (1 - xi)
	out[3*12+2] = -0.5 * mu * (1 - xi) * (1 - eta)
	out[3*13+0] = 0.25 * (1 - mu*mu) * (1 - eta)
	out[3*13+1] = -0.25 * (1 - mu*mu) * (1 + xi)
	out[3*13+2] = -0.5 * mu * (1 + xi) * (1 - eta)
	out[3*14+0] = 0.25 * (1 - mu*mu) * (1 + eta)
	out[3*14+1] = 0.25 * (1 - mu*mu) * (1 + xi)
	out[3*14+2] = -0.5 * mu * (1 + xi) * (1 + eta)
	out[3*15+0] = -0.25 * (1 - mu*mu) * (1 + eta)
	out[3*15+1] = 0.25 * (1 - mu*mu) * (1 - xi)
	out[3*15+2] = -0.5 * mu * (1 - xi) * (1 + eta)
}
