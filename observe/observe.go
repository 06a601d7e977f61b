// Package observe checks observability of a discrete model and computes
// state observer gains as the dual of feedback pole placement.
package observe

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	design "github.com/ctrlab/go-dplace"
	"github.com/ctrlab/go-dplace/matrix"
	"github.com/ctrlab/go-dplace/place"
)

// Result holds the outcome of an observer synthesis.
// When Observable is false only V and DetV are populated.
type Result struct {
	// Mp is the n×1 prediction observer gain
	Mp *mat.VecDense
	// Mc is the n×1 current observer gain, related by m_p = F·m_c
	Mc *mat.VecDense
	// V is the observability matrix with rows c, cF, …, cF^(n−1)
	V *mat.Dense
	// DetV is the determinant of V
	DetV float64
	// Observable reports whether DetV is nonzero
	Observable bool
}

// Observability returns the observability matrix of m and its
// determinant. The system is observable exactly when the determinant is
// nonzero.
func Observability(m *design.Discrete) (*mat.Dense, float64) {
	n := m.Order()

	// rows of V are c·F^i, so V is the transpose of the Krylov
	// matrix of (Fᵀ, c)
	kry := matrix.Krylov(m.F.T(), m.C)

	v := mat.NewDense(n, n, nil)
	v.Copy(kry.T())

	return v, mat.Det(v)
}

// Synthesize computes the observer gains that place the observer error
// poles of m at the given conjugate pairs and real poles. It applies the
// feedback synthesis to the dual system (Fᵀ, cᵀ) and transposes the
// resulting gain, which yields the prediction observer gain m_p; the
// current observer gain follows from m_p = F·m_c.
//
// An unobservable model is a valid outcome, reported through the
// Observable and DetV fields, not an error.
// It returns error if the pole set does not match the model order, or if
// F is singular so no current observer gain exists.
func Synthesize(m *design.Discrete, pairs []design.PolePair, reals []float64) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("model must be defined")
	}

	n := m.Order()

	v, detV := Observability(m)
	res := &Result{V: v, DetV: detV}
	if matrix.IsSingular(detV) {
		return res, nil
	}
	res.Observable = true

	// dual system: state matrix Fᵀ, input vector cᵀ, output vector gᵀ
	ft := mat.NewDense(n, n, nil)
	ft.Copy(m.F.T())

	dual, err := design.NewDiscrete(ft, mat.VecDenseCopyOf(m.C), mat.VecDenseCopyOf(m.G), m.D)
	if err != nil {
		return nil, fmt.Errorf("failed to build dual system: %v", err)
	}

	fb, err := place.Synthesize(dual, pairs, reals)
	if err != nil {
		return nil, err
	}
	if !fb.Controllable {
		// cannot happen: det of the dual controllability matrix is detV
		return nil, fmt.Errorf("dual system not controllable: det=%v", fb.DetU)
	}

	mp := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		mp.SetVec(i, fb.K.At(0, i))
	}

	// m_c from m_p = F·m_c
	mc := mat.NewVecDense(n, nil)
	if err := mc.SolveVec(m.F, mp); err != nil {
		return nil, fmt.Errorf("no current observer gain: system matrix is singular: %v", err)
	}

	res.Mp = mp
	res.Mc = mc

	return res, nil
}
