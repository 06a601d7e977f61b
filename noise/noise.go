// Package noise provides output noise sources for simulated verification
// runs of a closed loop design.
package noise

import "gonum.org/v1/gonum/mat"

// Noise is a source of additive measurement noise.
type Noise interface {
	// Mean returns noise mean
	Mean() []float64
	// Cov returns covariance matrix of the noise
	Cov() mat.Symmetric
	// Sample returns a sample of the noise
	Sample() mat.Vector
}
