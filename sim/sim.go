// Package sim simulates the closed loop behaviour of a completed design so
// the placed poles can be checked against the time domain requirements.
package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	design "github.com/ctrlab/go-dplace"
	"github.com/ctrlab/go-dplace/noise"
)

// Response is a simulated closed loop trajectory sampled at the design
// sample period.
type Response struct {
	// Y is the output sequence y[k]
	Y []float64
	// U is the control sequence u[k]
	U []float64
	// States holds the state vector at each step
	States [][]float64
	// T is the sample period the steps are spaced by
	T float64
}

// StepResponse simulates the unit step response of the state feedback loop
//
//	u[k] = r − k·x[k],  r = 1
//	x[k+1] = F·x[k] + g·u[k]
//	y[k] = c'·x[k] + d·u[k]
//
// for the given number of steps, starting from the zero state. If wn is
// not nil a sample of it is added to each output measurement.
// It returns error if K is not a 1×n gain for the order of m or steps is
// not positive.
func StepResponse(m *design.Discrete, K *mat.Dense, steps int, T float64, wn noise.Noise) (*Response, error) {
	if m == nil || K == nil {
		return nil, fmt.Errorf("model and gain must be defined")
	}

	if steps <= 0 {
		return nil, fmt.Errorf("invalid step count: %d", steps)
	}

	n := m.Order()
	rows, cols := K.Dims()
	if rows != 1 || cols != n {
		return nil, fmt.Errorf("invalid gain dimensions: [%d x %d], want [1 x %d]", rows, cols, n)
	}

	resp := &Response{
		Y:      make([]float64, steps),
		U:      make([]float64, steps),
		States: make([][]float64, steps),
		T:      T,
	}

	const r = 1.0

	x := mat.NewVecDense(n, nil)
	for k := 0; k < steps; k++ {
		u := r - mat.Dot(K.RowView(0), x)
		y := mat.Dot(m.C, x) + m.D*u

		if wn != nil {
			if s := wn.Sample(); s.Len() > 0 {
				y += s.AtVec(0)
			}
		}

		resp.U[k] = u
		resp.Y[k] = y
		state := make([]float64, n)
		for i := 0; i < n; i++ {
			state[i] = x.AtVec(i)
		}
		resp.States[k] = state

		// x <- F·x + g·u
		next := mat.NewVecDense(n, nil)
		next.MulVec(m.F, x)
		next.AddScaledVec(next, u, m.G)
		x = next
	}

	return resp, nil
}

// SettlingStep returns the first step index after which the output stays
// within band of its final value, or -1 if it never settles inside the
// simulated horizon. band is a fraction of the final value, e.g. 0.02 for
// the 2% criterion.
func (r *Response) SettlingStep(band float64) int {
	if len(r.Y) == 0 {
		return -1
	}

	final := r.Y[len(r.Y)-1]
	tol := band * final
	if tol < 0 {
		tol = -tol
	}

	for k := len(r.Y) - 1; k >= 0; k-- {
		diff := r.Y[k] - final
		if diff < 0 {
			diff = -diff
		}
		if diff > tol {
			if k == len(r.Y)-1 {
				return -1
			}
			return k + 1
		}
	}

	return 0
}
