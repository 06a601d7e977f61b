package timespec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	design "github.com/ctrlab/go-dplace"
)

const delta = 1e-9

func TestReconcileFromWnZeta(t *testing.T) {
	assert := assert.New(t)

	r, err := Reconcile(design.Requirements{
		Wn:   design.Val(2),
		Zeta: design.Val(0.5),
	})
	assert.NoError(err)

	assert.InDelta(1.0, r.Sigma.Value, delta)
	assert.InDelta(math.Sqrt(3), r.Wd.Value, delta)
	assert.InDelta(4.0, r.Ts.Value, delta)
	assert.InDelta(math.Pi/math.Sqrt(3), r.Tp.Value, delta)
	assert.InDelta(0.9, r.Tr.Value, delta)

	for _, p := range []design.Param{r.Wn, r.Zeta, r.Ts, r.Tr, r.Tp, r.Wd, r.Sigma} {
		assert.True(p.Known)
	}
}

func TestReconcileFromTimes(t *testing.T) {
	assert := assert.New(t)

	// settling time with a known damping ratio determines everything
	r, err := Reconcile(design.Requirements{
		Ts:   design.Val(4),
		Zeta: design.Val(0.5),
	})
	assert.NoError(err)

	// sigma = 4/ts = 1, wn = sigma/zeta = 2, then the closure overrides
	assert.InDelta(1.0, r.Sigma.Value, delta)
	assert.InDelta(2.0, r.Wn.Value, delta)
	assert.InDelta(math.Sqrt(3), r.Wd.Value, delta)
}

func TestReconcileAuthoritativeOverride(t *testing.T) {
	assert := assert.New(t)

	// a peak time inconsistent with wn and zeta is overwritten by the closure
	r, err := Reconcile(design.Requirements{
		Wn:   design.Val(2),
		Zeta: design.Val(0.5),
		Tp:   design.Val(100),
	})
	assert.NoError(err)
	assert.InDelta(math.Pi/math.Sqrt(3), r.Tp.Value, delta)
}

func TestReconcileUnderDetermined(t *testing.T) {
	assert := assert.New(t)

	// settling time alone: deriving wn needs a damping ratio
	_, err := Reconcile(design.Requirements{Ts: design.Val(4)})
	assert.Error(err)

	// decay rate alone fails the same way
	_, err = Reconcile(design.Requirements{Sigma: design.Val(1)})
	assert.Error(err)

	// nothing supplied: nothing derivable, but no error either
	r, err := Reconcile(design.Requirements{})
	assert.NoError(err)
	assert.False(r.Wn.Known)
	assert.False(r.Sigma.Known)
}

func TestReconcileInvalidValues(t *testing.T) {
	assert := assert.New(t)

	_, err := Reconcile(design.Requirements{Wn: design.Val(2), Zeta: design.Val(1.5)})
	assert.Error(err)

	_, err = Reconcile(design.Requirements{Wn: design.Val(-2), Zeta: design.Val(0.5)})
	assert.Error(err)

	_, err = Reconcile(design.Requirements{Ts: design.Val(0), Zeta: design.Val(0.5)})
	assert.Error(err)
}

func TestDominantPole(t *testing.T) {
	assert := assert.New(t)

	r, err := Reconcile(design.Requirements{Wn: design.Val(2), Zeta: design.Val(0.5)})
	assert.NoError(err)

	sigma, wd, err := DominantPole(r)
	assert.NoError(err)
	assert.InDelta(1.0, sigma, delta)
	assert.InDelta(math.Sqrt(3), wd, delta)

	_, _, err = DominantPole(design.Requirements{})
	assert.Error(err)
}
