// Package place computes a pole placement state feedback gain for single
// input discrete systems using the controllable canonical form
// transformation (the Bass–Gura construction).
package place

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	design "github.com/ctrlab/go-dplace"
	"github.com/ctrlab/go-dplace/matrix"
	"github.com/ctrlab/go-dplace/poly"
)

// Result holds the outcome of a feedback synthesis.
// When Controllable is false only U and DetU are populated: a gain is
// never fabricated for an uncontrollable system.
type Result struct {
	// K is the 1×n feedback gain in the original state basis
	K *mat.Dense
	// Kc is the 1×n feedback gain in controllable canonical coordinates
	Kc *mat.Dense
	// P is the similarity transform from canonical to original coordinates
	P *mat.Dense
	// U is the controllability matrix [g, Fg, …, F^(n−1)g]
	U *mat.Dense
	// DetU is the determinant of U
	DetU float64
	// Controllable reports whether DetU is nonzero
	Controllable bool
	// Alpha is the open loop characteristic polynomial, ascending coefficients
	Alpha []float64
	// Desired is the desired closed loop polynomial, ascending coefficients
	Desired []float64
}

// Controllability returns the controllability matrix of m and its
// determinant. The system is controllable exactly when the determinant is
// nonzero.
func Controllability(m *design.Discrete) (*mat.Dense, float64) {
	u := matrix.Krylov(m.F, m.G)
	return u, mat.Det(u)
}

// Synthesize computes the feedback gain that places the closed loop poles
// of m at the given conjugate pairs and real poles. The pole set must
// account for the full order n of the model (a single pair suffices only
// for n == 2).
//
// The gain follows the canonical form construction: the canonical gain is
// the coefficient difference between the desired and the open loop
// characteristic polynomials, and P = U·U_c transforms it back to the
// original basis, k = k_c·P⁻¹.
//
// An uncontrollable model is a valid outcome, reported through the
// Controllable and DetU fields, not an error.
// It returns error if the pole set does not match the model order or if
// the similarity transform turns out singular.
func Synthesize(m *design.Discrete, pairs []design.PolePair, reals []float64) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("model must be defined")
	}

	n := m.Order()

	u, detU := Controllability(m)
	res := &Result{U: u, DetU: detU}
	if matrix.IsSingular(detU) {
		return res, nil
	}
	res.Controllable = true

	alpha, err := poly.CharPoly(m.F)
	if err != nil {
		return nil, fmt.Errorf("failed to compute open loop polynomial: %v", err)
	}

	a, err := poly.Desired(pairs, reals, n)
	if err != nil {
		return nil, err
	}

	// canonical gain: coefficient differences of the two monic polynomials
	kc := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		kc.Set(0, i, a[i]-alpha[i])
	}

	p := mat.NewDense(n, n, nil)
	p.Mul(u, canonical(alpha, n))

	pInv := &mat.Dense{}
	if err := pInv.Inverse(p); err != nil {
		return nil, fmt.Errorf("similarity transform is singular: %v", err)
	}

	k := mat.NewDense(1, n, nil)
	k.Mul(kc, pInv)

	res.K = k
	res.Kc = kc
	res.P = p
	res.Alpha = alpha
	res.Desired = a

	return res, nil
}

// canonical builds the Toeplitz controllability matrix of the controllable
// canonical form from the open loop coefficients alpha:
//
//	U_c[i][j] = alpha[i+j+1]  for i+j+1 < n
//	U_c[i][j] = 1             for i+j+1 == n
//	U_c[i][j] = 0             otherwise
func canonical(alpha []float64, n int) *mat.Dense {
	uc := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			switch k := i + j + 1; {
			case k < n:
				uc.Set(i, j, alpha[k])
			case k == n:
				uc.Set(i, j, 1)
			}
		}
	}

	return uc
}
