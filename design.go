package design

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Param is an optional scalar design parameter. A Param whose Known field
// is false has not been supplied by the user; this is distinct from a
// parameter whose value is genuinely zero.
type Param struct {
	// Value is the parameter value
	Value float64
	// Known reports whether the value has been supplied or derived
	Known bool
}

// Val returns a known Param with value v.
func Val(v float64) Param {
	return Param{Value: v, Known: true}
}

// Requirements holds the time domain performance requirements of a
// second order dominant pole design: natural frequency, damping ratio,
// 2% settling time, rise time, peak time, damped frequency and decay rate.
type Requirements struct {
	// Wn is natural frequency (rad/s)
	Wn Param
	// Zeta is damping ratio
	Zeta Param
	// Ts is 2% settling time (s)
	Ts Param
	// Tr is rise time (s)
	Tr Param
	// Tp is peak time (s)
	Tp Param
	// Wd is damped frequency (rad/s)
	Wd Param
	// Sigma is decay rate (1/s)
	Sigma Param
}

// PolePair is a complex conjugate pole pair located at Re ± j·Im.
// It is valid in either the s-plane or the z-plane; the domain is implied
// by where the pair is used.
type PolePair struct {
	// Re is the real part of the pair
	Re float64
	// Im is the magnitude of the imaginary part
	Im float64
}

// StateSpace is a continuous time, single input, single output
// state space model:
//
//	dx/dt = A*x + b*u
//	y = c'*x + d*u
type StateSpace struct {
	// A is the n×n system matrix
	A *mat.Dense
	// B is the n×1 input vector
	B *mat.VecDense
	// C is the output vector (used as the 1×n row c')
	C *mat.VecDense
	// D is the direct feedthrough term
	D float64
}

// NewStateSpace creates a continuous state space model and returns it.
// It returns error if A is not square or if the b and c dimensions do not
// agree with the order of A.
func NewStateSpace(A *mat.Dense, b, c *mat.VecDense, d float64) (*StateSpace, error) {
	if A == nil || b == nil || c == nil {
		return nil, fmt.Errorf("system matrices must be defined for a model")
	}

	rows, cols := A.Dims()
	if rows != cols {
		return nil, fmt.Errorf("invalid system matrix dimensions: [%d x %d]", rows, cols)
	}

	if b.Len() != rows {
		return nil, fmt.Errorf("invalid input vector length: %d != %d", b.Len(), rows)
	}

	if c.Len() != rows {
		return nil, fmt.Errorf("invalid output vector length: %d != %d", c.Len(), rows)
	}

	return &StateSpace{A: A, B: b, C: c, D: d}, nil
}

// Order returns the order n of the model.
func (s *StateSpace) Order() int {
	n, _ := s.A.Dims()
	return n
}

// Discrete is a discrete time, single input, single output
// state space model:
//
//	x[k+1] = F*x[k] + g*u[k]
//	y[k] = c'*x[k] + d*u[k]
type Discrete struct {
	// F is the n×n system matrix
	F *mat.Dense
	// G is the n×1 input vector
	G *mat.VecDense
	// C is the output vector (used as the 1×n row c')
	C *mat.VecDense
	// D is the direct feedthrough term
	D float64
}

// NewDiscrete creates a discrete state space model and returns it.
// It returns error if F is not square or if the g and c dimensions do not
// agree with the order of F.
func NewDiscrete(F *mat.Dense, g, c *mat.VecDense, d float64) (*Discrete, error) {
	if F == nil || g == nil || c == nil {
		return nil, fmt.Errorf("system matrices must be defined for a model")
	}

	rows, cols := F.Dims()
	if rows != cols {
		return nil, fmt.Errorf("invalid system matrix dimensions: [%d x %d]", rows, cols)
	}

	if g.Len() != rows {
		return nil, fmt.Errorf("invalid input vector length: %d != %d", g.Len(), rows)
	}

	if c.Len() != rows {
		return nil, fmt.Errorf("invalid output vector length: %d != %d", c.Len(), rows)
	}

	return &Discrete{F: F, G: g, C: c, D: d}, nil
}

// Order returns the order n of the model.
func (d *Discrete) Order() int {
	n, _ := d.F.Dims()
	return n
}

// SystemMatrix returns a copy of the discrete system matrix F.
func (d *Discrete) SystemMatrix() mat.Matrix {
	m := &mat.Dense{}
	m.CloneFrom(d.F)

	return m
}

// InputVector returns a copy of the discrete input vector g.
func (d *Discrete) InputVector() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(d.G)

	return v
}

// OutputVector returns a copy of the output vector c.
func (d *Discrete) OutputVector() mat.Vector {
	v := &mat.VecDense{}
	v.CloneFromVec(d.C)

	return v
}
