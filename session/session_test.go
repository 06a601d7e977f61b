package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	design "github.com/ctrlab/go-dplace"
)

const delta = 1e-12

func testModel(t *testing.T) *design.Discrete {
	t.Helper()

	m, err := design.NewDiscrete(
		mat.NewDense(2, 2, []float64{1, 0.1, 0, 1}),
		mat.NewVecDense(2, []float64{0.005, 0.1}),
		mat.NewVecDense(2, []float64{1, 0}),
		0.5,
	)
	assert.NoError(t, err)

	return m
}

func TestRequirements(t *testing.T) {
	assert := assert.New(t)

	s := New()
	s.SetRequirements(1, 1.732)

	sigma, wd := s.GetRequirements()
	assert.Equal(1.0, sigma)
	assert.Equal(1.732, wd)

	// setters overwrite
	s.SetRequirements(2, 3)
	sigma, wd = s.GetRequirements()
	assert.Equal(2.0, sigma)
	assert.Equal(3.0, wd)
}

func TestPoles(t *testing.T) {
	assert := assert.New(t)

	s := New()
	s.SetPoles(0.9, 0.15, 0.1)

	zs, zw, T := s.GetPoles()
	assert.Equal(0.9, zs)
	assert.Equal(0.15, zw)
	assert.Equal(0.1, T)

	// reading twice without a write returns identical values
	zs2, zw2, T2 := s.GetPoles()
	assert.Equal(zs, zs2)
	assert.Equal(zw, zw2)
	assert.Equal(T, T2)

	// clearing zeroes the pair and keeps the sample period
	s.ClearPoles()
	zs, zw, T = s.GetPoles()
	assert.Equal(0.0, zs)
	assert.Equal(0.0, zw)
	assert.Equal(0.1, T)
}

func TestModelRoundTrip(t *testing.T) {
	assert := assert.New(t)

	s := New()
	want := testModel(t)
	s.SetModel(want)
	assert.Equal(2, s.GetSize())

	got, err := s.GetModel()
	assert.NoError(err)
	assert.True(mat.EqualApprox(want.F, got.F, delta))
	assert.True(mat.EqualApprox(want.G, got.G, delta))
	assert.True(mat.EqualApprox(want.C, got.C, delta))
	assert.Equal(want.D, got.D)
}

func TestModelUnset(t *testing.T) {
	assert := assert.New(t)

	s := New()
	m, err := s.GetModel()
	assert.Nil(m)
	assert.Error(err)
}

func TestModelDimensionDrift(t *testing.T) {
	assert := assert.New(t)

	s := New()
	s.SetModel(testModel(t))

	// a later SetSize that disagrees with the stored model is caught
	s.SetSize(3)
	m, err := s.GetModel()
	assert.Nil(m)
	assert.Error(err)
}

func TestSaveLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "session.yaml")

	s := New()
	s.SetRequirements(1, 1.732)
	s.SetPoles(0.9, 0.15, 0.1)
	s.SetModel(testModel(t))
	assert.NoError(s.Save(path))

	loaded, err := Load(path)
	assert.NoError(err)
	assert.Equal(s.Sigma, loaded.Sigma)
	assert.Equal(s.Wd, loaded.Wd)
	assert.Equal(s.ZSigma, loaded.ZSigma)
	assert.Equal(s.ZWd, loaded.ZWd)
	assert.Equal(s.T, loaded.T)
	assert.Equal(s.Dim, loaded.Dim)

	m, err := loaded.GetModel()
	assert.NoError(err)
	assert.Equal(2, m.Order())
}

func TestLoadMissing(t *testing.T) {
	assert := assert.New(t)

	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(err)
	assert.NotNil(s)
	assert.Equal(0, s.GetSize())
}

func TestLoadMalformed(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	assert.NoError(os.WriteFile(path, []byte("{not yaml::"), 0o644))

	s, err := Load(path)
	assert.Nil(s)
	assert.Error(err)
}
