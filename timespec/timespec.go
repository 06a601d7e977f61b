// Package timespec reconciles time domain performance requirements of a
// dominant second order pole pair. Given whichever subset of the
// requirements the user supplied, it derives the remaining ones from the
// standard second order system relations.
package timespec

import (
	"fmt"
	"math"

	design "github.com/ctrlab/go-dplace"
)

// Reconcile fills in the unknown fields of r from the known ones and
// returns the reconciled requirements. The derivations are ordered: the
// settling time and peak time first yield the decay rate and damped
// frequency, those may yield the natural frequency and damping ratio, and
// once both the natural frequency and damping ratio are known all seven
// fields are recomputed from them, overriding any partial derivations.
// It returns error if a derivation would divide by an unknown or zero
// prerequisite: the requirements are under-determined or contradictory.
func Reconcile(r design.Requirements) (design.Requirements, error) {
	if r.Ts.Known && !r.Sigma.Known {
		if r.Ts.Value <= 0 {
			return r, fmt.Errorf("invalid settling time: %v", r.Ts.Value)
		}
		r.Sigma = design.Val(4 / r.Ts.Value)
	}

	if r.Tp.Known && !r.Wd.Known {
		if r.Tp.Value <= 0 {
			return r, fmt.Errorf("invalid peak time: %v", r.Tp.Value)
		}
		r.Wd = design.Val(math.Pi / r.Tp.Value)
	}

	if !r.Wn.Known && r.Sigma.Known {
		if !r.Zeta.Known || r.Zeta.Value == 0 {
			return r, fmt.Errorf("insufficient requirements: natural frequency needs a damping ratio")
		}
		r.Wn = design.Val(r.Sigma.Value / r.Zeta.Value)
	}

	if !r.Zeta.Known && r.Sigma.Known {
		if !r.Wn.Known || r.Wn.Value == 0 {
			return r, fmt.Errorf("insufficient requirements: damping ratio needs a natural frequency")
		}
		r.Zeta = design.Val(r.Sigma.Value / r.Wn.Value)
	}

	// wn and zeta determine everything else
	if r.Wn.Known && r.Zeta.Known {
		wn, zeta := r.Wn.Value, r.Zeta.Value
		if wn <= 0 {
			return r, fmt.Errorf("invalid natural frequency: %v", wn)
		}
		if zeta <= 0 || zeta >= 1 {
			return r, fmt.Errorf("damping ratio out of underdamped range (0,1): %v", zeta)
		}

		r.Sigma = design.Val(zeta * wn)
		r.Wd = design.Val(wn * math.Sqrt(1-zeta*zeta))
		r.Ts = design.Val(4 / r.Sigma.Value)
		r.Tp = design.Val(math.Pi / r.Wd.Value)
		r.Tr = design.Val(1.8 / wn)
	}

	return r, nil
}

// DominantPole returns the decay rate and damped frequency of the dominant
// continuous pole pair described by reconciled requirements r. The decay
// rate is returned as a positive magnitude; the pole itself sits at
// −sigma ± j·wd in the s-plane.
// It returns error if the requirements do not determine the pole.
func DominantPole(r design.Requirements) (sigma, wd float64, err error) {
	if !r.Sigma.Known || !r.Wd.Known {
		return 0, 0, fmt.Errorf("requirements do not determine a dominant pole")
	}

	return r.Sigma.Value, r.Wd.Value, nil
}
