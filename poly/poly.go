// Package poly provides the polynomial algebra used by pole placement:
// exact characteristic polynomial coefficient extraction and construction
// of a desired closed loop polynomial from pole locations.
//
// Polynomials are represented as coefficient slices in ascending order:
// p[i] is the coefficient of z^i. A monic polynomial of degree n has
// length n+1 with p[n] == 1.
package poly

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	design "github.com/ctrlab/go-dplace"
)

// CharPoly returns the monic characteristic polynomial det(zI − F) of the
// square matrix F. The coefficients are computed with the
// Faddeev–LeVerrier recursion, which extracts them exactly from traces of
// matrix products instead of going through root finding or a symbolic
// determinant.
// It returns error if F is not square.
func CharPoly(F *mat.Dense) ([]float64, error) {
	if F == nil {
		return nil, fmt.Errorf("matrix must be defined")
	}

	n, cols := F.Dims()
	if n != cols {
		return nil, fmt.Errorf("invalid matrix dimensions: [%d x %d]", n, cols)
	}

	coeffs := make([]float64, n+1)
	coeffs[n] = 1

	// M starts as the identity; each step advances
	// M <- F*M + c*I with c the newly found coefficient.
	M := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		M.Set(i, i, 1)
	}

	FM := mat.NewDense(n, n, nil)
	for k := 1; k <= n; k++ {
		FM.Mul(F, M)

		c := -mat.Trace(FM) / float64(k)
		coeffs[n-k] = c

		M.CloneFrom(FM)
		for i := 0; i < n; i++ {
			M.Set(i, i, M.At(i, i)+c)
		}
	}

	return coeffs, nil
}

// Desired builds the monic desired closed loop polynomial of degree n from
// the given conjugate pole pairs and real poles. Each pair at re ± j·im
// contributes the quadratic z² − 2·re·z + (re² + im²); each real pole r
// contributes (z − r).
// It returns error if the poles do not account for exactly degree n: a
// single conjugate pair fully specifies the polynomial only for n == 2.
func Desired(pairs []design.PolePair, reals []float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid polynomial degree: %d", n)
	}

	degree := 2*len(pairs) + len(reals)
	if degree != n {
		return nil, fmt.Errorf("pole set of degree %d does not determine a degree %d polynomial", degree, n)
	}

	p := []float64{1}
	for _, pair := range pairs {
		p = mul(p, []float64{pair.Re*pair.Re + pair.Im*pair.Im, -2 * pair.Re, 1})
	}
	for _, r := range reals {
		p = mul(p, []float64{-r, 1})
	}

	return p, nil
}

// mul returns the product of two coefficient slices.
func mul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i := range a {
		for j := range b {
			out[i+j] += a[i] * b[j]
		}
	}

	return out
}
