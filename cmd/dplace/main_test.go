package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestParseParam(t *testing.T) {
	assert := assert.New(t)

	// empty entry is unset, not zero
	p, err := parseParam("wn", "")
	assert.NoError(err)
	assert.False(p.Known)

	p, err = parseParam("wn", "0")
	assert.NoError(err)
	assert.True(p.Known)
	assert.Equal(0.0, p.Value)

	p, err = parseParam("wn", "2.5")
	assert.NoError(err)
	assert.Equal(2.5, p.Value)

	_, err = parseParam("wn", "fast")
	assert.Error(err)
}

func TestParseMatrix(t *testing.T) {
	assert := assert.New(t)

	m, err := parseMatrix("system matrix", "0,1;0,-2", 2)
	assert.NoError(err)
	want := mat.NewDense(2, 2, []float64{0, 1, 0, -2})
	assert.True(mat.Equal(want, m))

	// whitespace around entries is tolerated
	m, err = parseMatrix("system matrix", " 0 , 1 ; 0 , -2 ", 2)
	assert.NoError(err)
	assert.True(mat.Equal(want, m))

	_, err = parseMatrix("system matrix", "0,1", 2)
	assert.Error(err)

	_, err = parseMatrix("system matrix", "0,1;0", 2)
	assert.Error(err)

	_, err = parseMatrix("system matrix", "0,x;0,-2", 2)
	assert.Error(err)
}

func TestParseVector(t *testing.T) {
	assert := assert.New(t)

	// both row and column separators are accepted
	v, err := parseVector("input vector", "0;1", 2)
	assert.NoError(err)
	assert.Equal(1.0, v.AtVec(1))

	v, err = parseVector("input vector", "0,1", 2)
	assert.NoError(err)
	assert.Equal(1.0, v.AtVec(1))

	_, err = parseVector("input vector", "0;1;2", 2)
	assert.Error(err)

	_, err = parseVector("input vector", "0;x", 2)
	assert.Error(err)
}
