// Package session holds the state a design session threads between the
// pipeline stages: the requirement derived dominant pole, the discrete
// design poles and sample period, and the discrete model with its order.
//
// A Session is an explicit value created by the caller and passed between
// stages; it is not process global. Concurrent designs get separate
// sessions instead of locks. The command line tool persists a session to a
// YAML file between invocations.
package session

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	design "github.com/ctrlab/go-dplace"
)

// Model is the YAML representation of a discrete state space model.
type Model struct {
	F [][]float64 `yaml:"f"`
	G []float64   `yaml:"g"`
	C []float64   `yaml:"c"`
	D float64     `yaml:"d"`
}

// Session is the state shared between design pipeline stages.
// Setters overwrite unconditionally and keep no history.
type Session struct {
	// Sigma and Wd are the requirement derived dominant pole values;
	// Sigma is the positive decay rate magnitude
	Sigma float64 `yaml:"sigma"`
	Wd    float64 `yaml:"wd"`

	// ZSigma and ZWd are the discrete design pole pair, T the sample period
	ZSigma float64 `yaml:"z_sigma"`
	ZWd    float64 `yaml:"z_wd"`
	T      float64 `yaml:"t"`

	// Dim is the declared state space order
	Dim int `yaml:"dim"`

	// Model is the discrete model, nil until one is set
	Model *Model `yaml:"model,omitempty"`
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// SetRequirements stores the dominant pole derived from the time domain
// requirements.
func (s *Session) SetRequirements(sigma, wd float64) {
	s.Sigma = sigma
	s.Wd = wd
}

// GetRequirements returns the stored dominant pole values.
func (s *Session) GetRequirements() (sigma, wd float64) {
	return s.Sigma, s.Wd
}

// SetPoles stores the discrete design pole pair and the sample period.
func (s *Session) SetPoles(zSigma, zWd, T float64) {
	s.ZSigma = zSigma
	s.ZWd = zWd
	s.T = T
}

// GetPoles returns the stored discrete pole pair and sample period.
func (s *Session) GetPoles() (zSigma, zWd, T float64) {
	return s.ZSigma, s.ZWd, s.T
}

// ClearPoles zeroes the discrete pole pair and preserves the sample period.
func (s *Session) ClearPoles() {
	s.ZSigma = 0
	s.ZWd = 0
}

// SetSize stores the declared state space order.
func (s *Session) SetSize(n int) {
	s.Dim = n
}

// GetSize returns the declared state space order.
func (s *Session) GetSize() int {
	return s.Dim
}

// SetModel stores the discrete model and its order.
func (s *Session) SetModel(m *design.Discrete) {
	n := m.Order()

	f := make([][]float64, n)
	g := make([]float64, n)
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		f[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			f[i][j] = m.F.At(i, j)
		}
		g[i] = m.G.AtVec(i)
		c[i] = m.C.AtVec(i)
	}

	s.Model = &Model{F: f, G: g, C: c, D: m.D}
	s.Dim = n
}

// GetModel returns the stored discrete model.
// It returns error if no model has been set or if the stored model no
// longer agrees with the declared order, so a stale dimension can not
// silently corrupt a later calculation.
func (s *Session) GetModel() (*design.Discrete, error) {
	if s.Model == nil {
		return nil, fmt.Errorf("no model set in session")
	}

	n := len(s.Model.F)
	if n != s.Dim {
		return nil, fmt.Errorf("session model order %d disagrees with declared order %d", n, s.Dim)
	}
	if len(s.Model.G) != n || len(s.Model.C) != n {
		return nil, fmt.Errorf("inconsistent session model dimensions: n=%d, g=%d, c=%d", n, len(s.Model.G), len(s.Model.C))
	}

	f := mat.NewDense(n, n, nil)
	for i, row := range s.Model.F {
		if len(row) != n {
			return nil, fmt.Errorf("session model row %d has %d columns, want %d", i, len(row), n)
		}
		for j, v := range row {
			f.Set(i, j, v)
		}
	}

	g := mat.NewVecDense(n, nil)
	c := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		g.SetVec(i, s.Model.G[i])
		c.SetVec(i, s.Model.C[i])
	}

	return design.NewDiscrete(f, g, c, s.Model.D)
}

// Load reads a session from the YAML file at path.
// A missing file yields a fresh empty session.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read session: %v", err)
	}

	s := New()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %v", err)
	}

	return s, nil
}

// Save writes the session to the YAML file at path.
func (s *Session) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %v", err)
	}

	return os.WriteFile(path, data, 0o644)
}
