// Package poles maps closed loop design poles between the continuous
// s-plane and the discrete z-plane.
package poles

import (
	"fmt"
	"math"

	design "github.com/ctrlab/go-dplace"
)

// FromRequirements returns the continuous dominant pole pair derived from
// the reconciled requirement values sigma and wd. The published decay rate
// is a positive magnitude; the design pole lies in the left half plane, so
// its real part is negated here.
func FromRequirements(sigma, wd float64) design.PolePair {
	return design.PolePair{Re: -sigma, Im: wd}
}

// Discretize maps the continuous pole pair s = re ± j·im to the z-plane
// for sample period T:
//
//	z = e^(re*T) * (cos(im*T) ± j*sin(im*T))
//
// This is the exact s to z mapping of a pole pair, not an approximation.
// It is a pure function of its arguments.
func Discretize(s design.PolePair, T float64) design.PolePair {
	r := math.Exp(s.Re * T)

	return design.PolePair{
		Re: r * math.Cos(s.Im*T),
		Im: r * math.Sin(s.Im*T),
	}
}

// Stable reports whether the discrete pole pair z lies strictly inside the
// unit circle.
func Stable(z design.PolePair) bool {
	return math.Hypot(z.Re, z.Im) < 1
}

// Validate returns error if the sample period T is not positive.
func Validate(T float64) error {
	if T <= 0 {
		return fmt.Errorf("invalid sample period: %v", T)
	}

	return nil
}
