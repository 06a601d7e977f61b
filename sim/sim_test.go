package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	design "github.com/ctrlab/go-dplace"
)

const delta = 1e-12

func canonicalModel(t *testing.T) *design.Discrete {
	t.Helper()

	m, err := design.NewDiscrete(
		mat.NewDense(2, 2, []float64{0, 1, 0, 0}),
		mat.NewVecDense(2, []float64{0, 1}),
		mat.NewVecDense(2, []float64{1, 0}),
		0,
	)
	assert.NoError(t, err)

	return m
}

func TestStepResponseDeadbeat(t *testing.T) {
	assert := assert.New(t)

	// the open loop is already deadbeat (F nilpotent), so a zero gain
	// settles the output after two steps
	m := canonicalModel(t)
	K := mat.NewDense(1, 2, []float64{0, 0})

	resp, err := StepResponse(m, K, 6, 0.1, nil)
	assert.NoError(err)
	assert.Len(resp.Y, 6)

	assert.InDeltaSlice([]float64{0, 0, 1, 1, 1, 1}, resp.Y, delta)
	assert.Equal(2, resp.SettlingStep(0.02))

	// unit step input with zero feedback
	for _, u := range resp.U {
		assert.InDelta(1.0, u, delta)
	}
}

func TestStepResponseFeedback(t *testing.T) {
	assert := assert.New(t)

	m := canonicalModel(t)
	K := mat.NewDense(1, 2, []float64{0.29, -1})

	resp, err := StepResponse(m, K, 200, 0.1, nil)
	assert.NoError(err)

	// stable closed loop: the output converges to r/(a(1)) with
	// a(z) = z² − z + 0.29 evaluated at 1
	final := resp.Y[len(resp.Y)-1]
	assert.InDelta(1/0.29, final, 1e-6)
	assert.GreaterOrEqual(resp.SettlingStep(0.02), 0)
}

func TestStepResponseInvalid(t *testing.T) {
	assert := assert.New(t)

	m := canonicalModel(t)
	K := mat.NewDense(1, 2, nil)

	resp, err := StepResponse(nil, K, 10, 0.1, nil)
	assert.Nil(resp)
	assert.Error(err)

	resp, err = StepResponse(m, nil, 10, 0.1, nil)
	assert.Nil(resp)
	assert.Error(err)

	resp, err = StepResponse(m, K, 0, 0.1, nil)
	assert.Nil(resp)
	assert.Error(err)

	resp, err = StepResponse(m, mat.NewDense(1, 3, nil), 10, 0.1, nil)
	assert.Nil(resp)
	assert.Error(err)
}

func TestSettlingStep(t *testing.T) {
	assert := assert.New(t)

	// an oscillating trace only reaches its final value at the last step
	r := &Response{Y: []float64{0, 2, 0, 2, 0, 2}}
	assert.Equal(5, r.SettlingStep(0.02))

	r = &Response{}
	assert.Equal(-1, r.SettlingStep(0.02))
}

func TestNewStepPlot(t *testing.T) {
	assert := assert.New(t)

	m := canonicalModel(t)
	K := mat.NewDense(1, 2, []float64{0.29, -1})

	resp, err := StepResponse(m, K, 20, 0.1, nil)
	assert.NoError(err)

	p, err := NewStepPlot(resp)
	assert.NoError(err)
	assert.NotNil(p)

	p, err = NewStepPlot(nil)
	assert.Nil(p)
	assert.Error(err)

	p, err = NewStepPlot(&Response{})
	assert.Nil(p)
	assert.Error(err)
}
