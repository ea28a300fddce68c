// Package linalg implements the small dense determinant and adjoint kernels
// used by the Newton reference-coordinate solver. Matrices are flat
// row-major []float64 slices; sizes 2-4 use closed-form expansions and
// larger sizes fall back to cofactor recursion. These routines are the only
// inversion path in the hot loops, where a general factorization would
// allocate.
package linalg

// det3Part is one term of the 3x3 cofactor expansion along row 0.
func det3Part(m []float64, a, b, c int) float64 {
	return m[a] * (m[3+b]*m[6+c] - m[3+c]*m[6+b])
}

func det4Part(m []float64, j, k, p, q int) float64 {
	return (m[j*4]*m[k*4+1] - m[k*4]*m[j*4+1]) *
		(m[p*4+2]*m[q*4+3] - m[q*4+2]*m[p*4+3])
}

// Det2 returns the determinant of a 2x2 row-major matrix.
func Det2(m []float64) float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Det3 returns the determinant of a 3x3 row-major matrix.
func Det3(m []float64) float64 {
	return det3Part(m, 0, 1, 2) - det3Part(m, 1, 0, 2) + det3Part(m, 2, 0, 1)
}

// Det4 returns the determinant of a 4x4 row-major matrix.
func Det4(m []float64) float64 {
	return det4Part(m, 0, 1, 2, 3) - det4Part(m, 0, 2, 1, 3) +
		det4Part(m, 0, 3, 1, 2) + det4Part(m, 1, 2, 0, 3) -
		det4Part(m, 1, 3, 0, 2) + det4Part(m, 2, 3, 0, 1)
}

// Det returns the determinant of a size x size row-major matrix. Sizes up to
// 4 use the specialized expansions; larger sizes expand cofactors along
// column 0. size must be at least 1.
func Det(m []float64, size int) float64 {
	switch size {
	case 1:
		return m[0]
	case 2:
		return Det2(m)
	case 3:
		return Det3(m)
	case 4:
		return Det4(m)
	}

	det := 0.0
	sign := -1.0
	minor := make([]float64, (size-1)*(size-1))
	for row := 0; row < size; row++ {
		sign *= -1
		i0 := 0
		for i := 0; i < size; i++ {
			if i == row {
				continue
			}
			for j := 1; j < size; j++ {
				minor[i0*(size-1)+j-1] = m[i*size+j]
			}
			i0++
		}
		det += sign * Det(minor, size-1) * m[row*size]
	}

	return det
}

// Adjoint writes the adjugate of the size x size matrix m into adj, which
// must have length size*size. The adjugate is the transpose of the cofactor
// matrix, so Adjoint(m) * m = Det(m) * I.
func Adjoint(m, adj []float64, size int) {
	if size == 1 {
		adj[0] = 1
		return
	}

	minor := make([]float64, (size-1)*(size-1))
	signRow := -1.0
	for row := 0; row < size; row++ {
		signRow *= -1
		sign := -signRow
		for col := 0; col < size; col++ {
			sign *= -1
			i0 := 0
			for i := 0; i < size; i++ {
				if i == row {
					continue
				}
				j0 := 0
				for j := 0; j < size; j++ {
					if j == col {
						continue
					}
					minor[i0*(size-1)+j0] = m[i*size+j]
					j0++
				}
				i0++
			}
			adj[col*size+row] = sign * Det(minor, size-1)
		}
	}
}
