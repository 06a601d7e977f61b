package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// detTol is the magnitude below which a determinant is treated as zero.
const detTol = 1e-12

// Krylov returns the n×n Krylov matrix [v, Fv, F²v, …, F^(n−1)v] built
// from the square matrix F and the vector v. The powers of F are formed by
// repeated multiplication.
// It panics if F is not square or its order differs from len(v).
func Krylov(F mat.Matrix, v mat.Vector) *mat.Dense {
	n, cols := F.Dims()
	if n != cols || v.Len() != n {
		panic("matrix: invalid Krylov dimensions")
	}

	k := mat.NewDense(n, n, nil)

	col := mat.NewVecDense(n, nil)
	col.CloneFromVec(v)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			k.Set(i, j, col.AtVec(i))
		}

		next := mat.NewVecDense(n, nil)
		next.MulVec(F, col)
		col = next
	}

	return k
}

// IsSingular reports whether the determinant det should be treated as an
// exact singularity.
func IsSingular(det float64) bool {
	return math.Abs(det) < detTol
}
