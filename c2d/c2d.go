// Package c2d converts continuous time state space models to approximate
// discrete time equivalents for a given sample period.
package c2d

import (
	"fmt"

	"github.com/milosgajdos/matrix"
	"gonum.org/v1/gonum/mat"

	design "github.com/ctrlab/go-dplace"
)

// ToDiscrete converts the continuous model ss into a discrete model for
// sample period T using a second order series truncation of the matrix
// exponential and of its input integral:
//
//	F = I + AT + (1/2)(AT)²
//	Ψ = I + (1/2)AT + (1/6)(AT)²
//	g = T·Ψ·b
//
// The output vector c and feedthrough d pass through unchanged. This is
// not an exact zero order hold equivalent: the truncation error grows with
// ‖AT‖, so T should be small relative to the system dynamics.
// It returns error if T is not positive or the model dimensions are
// inconsistent.
func ToDiscrete(ss *design.StateSpace, T float64) (*design.Discrete, error) {
	if ss == nil {
		return nil, fmt.Errorf("model must be defined")
	}

	if T <= 0 {
		return nil, fmt.Errorf("invalid sample period: %v", T)
	}

	n := ss.Order()
	if ss.B.Len() != n || ss.C.Len() != n {
		return nil, fmt.Errorf("inconsistent model dimensions: n=%d, b=%d, c=%d", n, ss.B.Len(), ss.C.Len())
	}

	eye, err := matrix.NewDenseValIdentity(n, 1.0)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity matrix: %v", err)
	}

	at := mat.NewDense(n, n, nil)
	at.Scale(T, ss.A)

	at2 := mat.NewDense(n, n, nil)
	at2.Mul(at, at)

	// F = I + AT + (1/2)(AT)^2
	F := mat.NewDense(n, n, nil)
	F.Scale(0.5, at2)
	F.Add(F, at)
	F.Add(F, eye)

	// psi = I + (1/2)AT + (1/6)(AT)^2
	psi := mat.NewDense(n, n, nil)
	psi.Scale(1.0/6.0, at2)
	half := mat.NewDense(n, n, nil)
	half.Scale(0.5, at)
	psi.Add(psi, half)
	psi.Add(psi, eye)

	// g = T*psi*b
	g := mat.NewVecDense(n, nil)
	g.MulVec(psi, ss.B)
	g.ScaleVec(T, g)

	c := &mat.VecDense{}
	c.CloneFromVec(ss.C)

	return design.NewDiscrete(F, g, c, ss.D)
}
