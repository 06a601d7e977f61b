package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"

	design "github.com/ctrlab/go-dplace"
	"github.com/ctrlab/go-dplace/c2d"
	"github.com/ctrlab/go-dplace/noise"
	"github.com/ctrlab/go-dplace/observe"
	"github.com/ctrlab/go-dplace/place"
	"github.com/ctrlab/go-dplace/poles"
	"github.com/ctrlab/go-dplace/session"
	"github.com/ctrlab/go-dplace/sim"
	"github.com/ctrlab/go-dplace/timespec"
)

var (
	sessionFile string

	// requirement entries; empty string means not supplied
	wn, zeta, ts, tr, tp, wd, sigma string
	clearFlag                       bool

	// pole entries
	sampleT     string
	sSigma, sWd string
	zSigma, zWd string
	fromReqs    bool
	extraPairs  []string
	extraReals  []float64

	// model entries
	dim        int
	continuous bool
	aText      string
	bText      string
	cText      string
	dText      string

	// simulation
	steps    int
	noiseStd float64
	pngPath  string
	noASCII  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dplace",
		Short: "discrete pole placement controller design",
		Long: `dplace designs a discrete state feedback controller from time domain
requirements: reconcile the requirements, pick closed loop poles, discretize
the plant model and compute the feedback and observer gains. State is carried
between invocations in a session file.`,
	}

	rootCmd.PersistentFlags().StringVar(&sessionFile, "session", ".dplace.yaml", "design session file")

	reqsCmd := &cobra.Command{
		Use:   "reqs",
		Short: "reconcile time domain requirements",
		RunE:  runReqs,
	}
	reqsCmd.Flags().StringVar(&wn, "wn", "", "natural frequency (rad/s)")
	reqsCmd.Flags().StringVar(&zeta, "zeta", "", "damping ratio")
	reqsCmd.Flags().StringVar(&ts, "ts", "", "2% settling time (s)")
	reqsCmd.Flags().StringVar(&tr, "tr", "", "rise time (s)")
	reqsCmd.Flags().StringVar(&tp, "tp", "", "peak time (s)")
	reqsCmd.Flags().StringVar(&wd, "wd", "", "damped frequency (rad/s)")
	reqsCmd.Flags().StringVar(&sigma, "sigma", "", "decay rate (1/s)")
	reqsCmd.Flags().BoolVar(&clearFlag, "clear", false, "reset stored requirements")

	polesCmd := &cobra.Command{
		Use:   "poles",
		Short: "set or derive closed loop poles",
		RunE:  runPoles,
	}
	polesCmd.Flags().StringVar(&sampleT, "T", "", "sample period (s)")
	polesCmd.Flags().BoolVar(&fromReqs, "from-reqs", false, "derive s-plane pole from reconciled requirements")
	polesCmd.Flags().StringVar(&sSigma, "s-sigma", "", "s-plane pole real part")
	polesCmd.Flags().StringVar(&sWd, "s-wd", "", "s-plane pole imaginary magnitude")
	polesCmd.Flags().StringVar(&zSigma, "z-sigma", "", "z-plane pole real part (direct entry)")
	polesCmd.Flags().StringVar(&zWd, "z-wd", "", "z-plane pole imaginary magnitude (direct entry)")
	polesCmd.Flags().BoolVar(&clearFlag, "clear", false, "zero stored poles, keep sample period")

	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "enter the state space model",
		Long: `Enter a state space model of declared order. A continuous model
(A, b, c, d) is discretized with the session sample period; a discrete model
(F, g, c, d) is stored as given. Matrices are entered row by row, e.g.
-A "0,1;0,-2".`,
		RunE: runModel,
	}
	modelCmd.Flags().IntVar(&dim, "dim", 0, "state space order n")
	modelCmd.Flags().BoolVar(&continuous, "continuous", false, "treat the entered model as continuous and discretize it")
	modelCmd.Flags().StringVarP(&aText, "A", "A", "", "system matrix (A or F)")
	modelCmd.Flags().StringVarP(&bText, "b", "b", "", "input vector (b or g)")
	modelCmd.Flags().StringVarP(&cText, "c", "c", "", "output vector c")
	modelCmd.Flags().StringVarP(&dText, "d", "d", "0", "feedthrough term d")

	placeCmd := &cobra.Command{
		Use:   "place",
		Short: "compute the state feedback gain",
		RunE:  runPlace,
	}
	addPoleSetFlags(placeCmd)

	observeCmd := &cobra.Command{
		Use:   "observe",
		Short: "compute the observer gains",
		RunE:  runObserve,
	}
	addPoleSetFlags(observeCmd)

	designCmd := &cobra.Command{
		Use:   "design",
		Short: "compute feedback and observer gains",
		RunE:  runDesign,
	}
	addPoleSetFlags(designCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulate the closed loop step response",
		RunE:  runSimulate,
	}
	addPoleSetFlags(simulateCmd)
	simulateCmd.Flags().IntVar(&steps, "steps", 50, "number of simulated steps")
	simulateCmd.Flags().Float64Var(&noiseStd, "noise", 0, "output noise standard deviation")
	simulateCmd.Flags().StringVar(&pngPath, "png", "", "write the step response plot to this PNG file")
	simulateCmd.Flags().BoolVar(&noASCII, "no-ascii", false, "suppress the terminal plot")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "show the current design session",
		RunE:  runShow,
	}

	rootCmd.AddCommand(reqsCmd, polesCmd, modelCmd, placeCmd, observeCmd, designCmd, simulateCmd, showCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPoleSetFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&extraPairs, "pair", nil, "additional z-plane pole pair \"re,im\" (for order > 2)")
	cmd.Flags().Float64SliceVar(&extraReals, "real", nil, "additional real z-plane pole (for order > 2)")
}

// parseParam parses a requirement entry. An empty entry is an unset
// parameter, not zero.
func parseParam(name, s string) (design.Param, error) {
	if s == "" {
		return design.Param{}, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return design.Param{}, fmt.Errorf("invalid %s: %q", name, s)
	}

	return design.Val(v), nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}

	return v, nil
}

// parseMatrix parses a row-by-row matrix entry such as "0,1;0,-2".
func parseMatrix(name, s string, n int) (*mat.Dense, error) {
	rows := strings.Split(s, ";")
	if len(rows) != n {
		return nil, fmt.Errorf("%s has %d rows, want %d", name, len(rows), n)
	}

	m := mat.NewDense(n, n, nil)
	for i, row := range rows {
		cols := strings.Split(row, ",")
		if len(cols) != n {
			return nil, fmt.Errorf("%s row %d has %d columns, want %d", name, i+1, len(cols), n)
		}
		for j, cell := range cols {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %s entry [%d,%d]: %q", name, i+1, j+1, cell)
			}
			m.Set(i, j, v)
		}
	}

	return m, nil
}

// parseVector parses a vector entry such as "0;1" or "0,1".
func parseVector(name, s string, n int) (*mat.VecDense, error) {
	cells := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	if len(cells) != n {
		return nil, fmt.Errorf("%s has %d entries, want %d", name, len(cells), n)
	}

	v := mat.NewVecDense(n, nil)
	for i, cell := range cells {
		val, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %d: %q", name, i+1, cell)
		}
		v.SetVec(i, val)
	}

	return v, nil
}

func runReqs(cmd *cobra.Command, args []string) error {
	s, err := session.Load(sessionFile)
	if err != nil {
		return err
	}

	if clearFlag {
		s.SetRequirements(0, 0)
		return s.Save(sessionFile)
	}

	var r design.Requirements
	entries := []struct {
		name string
		text string
		dst  *design.Param
	}{
		{"wn", wn, &r.Wn},
		{"zeta", zeta, &r.Zeta},
		{"ts", ts, &r.Ts},
		{"tr", tr, &r.Tr},
		{"tp", tp, &r.Tp},
		{"wd", wd, &r.Wd},
		{"sigma", sigma, &r.Sigma},
	}
	for _, e := range entries {
		p, err := parseParam(e.name, e.text)
		if err != nil {
			return err
		}
		*e.dst = p
	}

	r, err = timespec.Reconcile(r)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, row := range []struct {
		name string
		p    design.Param
	}{
		{"w_n", r.Wn}, {"zeta", r.Zeta}, {"t_s (2%)", r.Ts},
		{"t_r", r.Tr}, {"t_p", r.Tp}, {"w_d", r.Wd}, {"sigma", r.Sigma},
	} {
		if row.p.Known {
			fmt.Fprintf(w, "%s\t%.6g\n", row.name, row.p.Value)
		} else {
			fmt.Fprintf(w, "%s\t-\n", row.name)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sg, dw, err := timespec.DominantPole(r)
	if err != nil {
		return err
	}
	s.SetRequirements(sg, dw)

	sp := poles.FromRequirements(sg, dw)
	fmt.Printf("\ndominant pole: s = %.6g +/- j%.6g\n", sp.Re, sp.Im)

	return s.Save(sessionFile)
}

func runPoles(cmd *cobra.Command, args []string) error {
	s, err := session.Load(sessionFile)
	if err != nil {
		return err
	}

	if clearFlag {
		s.ClearPoles()
		return s.Save(sessionFile)
	}

	T := s.T
	if sampleT != "" {
		if T, err = parseFloat("sample period", sampleT); err != nil {
			return err
		}
	}
	if err := poles.Validate(T); err != nil {
		return err
	}

	var sp design.PolePair
	switch {
	case zSigma != "" || zWd != "":
		// direct z-plane entry, stored as given
		zp := design.PolePair{}
		if zp.Re, err = parseFloat("z-sigma", zSigma); err != nil {
			return err
		}
		if zp.Im, err = parseFloat("z-wd", zWd); err != nil {
			return err
		}
		s.SetPoles(zp.Re, zp.Im, T)
		printZPole(zp, T)
		return s.Save(sessionFile)

	case fromReqs:
		sg, dw := s.GetRequirements()
		if sg == 0 && dw == 0 {
			return fmt.Errorf("no requirements in session: run reqs first")
		}
		sp = poles.FromRequirements(sg, dw)

	default:
		if sp.Re, err = parseFloat("s-sigma", sSigma); err != nil {
			return err
		}
		if sp.Im, err = parseFloat("s-wd", sWd); err != nil {
			return err
		}
	}

	fmt.Printf("s-plane pole: s = %.6g +/- j%.6g\n", sp.Re, sp.Im)

	zp := poles.Discretize(sp, T)
	s.SetPoles(zp.Re, zp.Im, T)
	printZPole(zp, T)

	return s.Save(sessionFile)
}

func printZPole(zp design.PolePair, T float64) {
	fmt.Printf("z-plane pole: z = %.6g +/- j%.6g (T = %.6g s)\n", zp.Re, zp.Im, T)
	if !poles.Stable(zp) {
		fmt.Println("warning: pole lies outside the unit circle")
	}
}

func runModel(cmd *cobra.Command, args []string) error {
	s, err := session.Load(sessionFile)
	if err != nil {
		return err
	}

	if dim <= 0 {
		return fmt.Errorf("invalid state space order: %d", dim)
	}
	s.SetSize(dim)

	A, err := parseMatrix("system matrix", aText, dim)
	if err != nil {
		return err
	}
	b, err := parseVector("input vector", bText, dim)
	if err != nil {
		return err
	}
	c, err := parseVector("output vector", cText, dim)
	if err != nil {
		return err
	}
	d, err := parseFloat("feedthrough term", dText)
	if err != nil {
		return err
	}

	var m *design.Discrete
	if continuous {
		ss, err := design.NewStateSpace(A, b, c, d)
		if err != nil {
			return err
		}

		_, _, T := s.GetPoles()
		if m, err = c2d.ToDiscrete(ss, T); err != nil {
			return err
		}

		fmt.Printf("F =\n%v\n", mat.Formatted(m.F, mat.Prefix("    "), mat.Squeeze()))
		fmt.Printf("g =\n%v\n", mat.Formatted(m.G, mat.Prefix("    "), mat.Squeeze()))
	} else {
		if m, err = design.NewDiscrete(A, b, c, d); err != nil {
			return err
		}
	}

	s.SetModel(m)
	return s.Save(sessionFile)
}

// poleSet assembles the desired z-plane pole set for a synthesis: the
// session pole pair plus any extra pairs and real poles given as flags.
func poleSet(s *session.Session) ([]design.PolePair, []float64, error) {
	zs, zw, _ := s.GetPoles()
	pairs := []design.PolePair{{Re: zs, Im: zw}}

	for _, p := range extraPairs {
		parts := strings.Split(p, ",")
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("invalid pole pair %q, want \"re,im\"", p)
		}
		re, err := parseFloat("pole pair real part", strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, nil, err
		}
		im, err := parseFloat("pole pair imaginary part", strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, nil, err
		}
		pairs = append(pairs, design.PolePair{Re: re, Im: im})
	}

	return pairs, extraReals, nil
}

func runPlace(cmd *cobra.Command, args []string) error {
	s, err := session.Load(sessionFile)
	if err != nil {
		return err
	}

	m, err := s.GetModel()
	if err != nil {
		return err
	}

	pairs, reals, err := poleSet(s)
	if err != nil {
		return err
	}

	res, err := place.Synthesize(m, pairs, reals)
	if err != nil {
		return err
	}

	printPlace(res)
	return nil
}

func printPlace(res *place.Result) {
	fmt.Printf("|U| = %.6g\n", res.DetU)
	if !res.Controllable {
		fmt.Println("system not controllable")
		return
	}

	fmt.Printf("k =\n%v\n", mat.Formatted(res.K, mat.Prefix("    "), mat.Squeeze()))
	fmt.Printf("k_c =\n%v\n", mat.Formatted(res.Kc, mat.Prefix("    "), mat.Squeeze()))
	fmt.Printf("P =\n%v\n", mat.Formatted(res.P, mat.Prefix("    "), mat.Squeeze()))
}

func runObserve(cmd *cobra.Command, args []string) error {
	s, err := session.Load(sessionFile)
	if err != nil {
		return err
	}

	m, err := s.GetModel()
	if err != nil {
		return err
	}

	pairs, reals, err := poleSet(s)
	if err != nil {
		return err
	}

	res, err := observe.Synthesize(m, pairs, reals)
	if err != nil {
		return err
	}

	printObserve(res)
	return nil
}

func printObserve(res *observe.Result) {
	fmt.Printf("|V| = %.6g\n", res.DetV)
	if !res.Observable {
		fmt.Println("system not observable")
		return
	}

	fmt.Printf("m_p =\n%v\n", mat.Formatted(res.Mp, mat.Prefix("    "), mat.Squeeze()))
	fmt.Printf("m_c =\n%v\n", mat.Formatted(res.Mc, mat.Prefix("    "), mat.Squeeze()))
}

func runDesign(cmd *cobra.Command, args []string) error {
	s, err := session.Load(sessionFile)
	if err != nil {
		return err
	}

	m, err := s.GetModel()
	if err != nil {
		return err
	}

	pairs, reals, err := poleSet(s)
	if err != nil {
		return err
	}

	fb, err := place.Synthesize(m, pairs, reals)
	if err != nil {
		return err
	}
	printPlace(fb)

	ob, err := observe.Synthesize(m, pairs, reals)
	if err != nil {
		return err
	}
	printObserve(ob)

	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	s, err := session.Load(sessionFile)
	if err != nil {
		return err
	}

	m, err := s.GetModel()
	if err != nil {
		return err
	}

	pairs, reals, err := poleSet(s)
	if err != nil {
		return err
	}

	res, err := place.Synthesize(m, pairs, reals)
	if err != nil {
		return err
	}
	if !res.Controllable {
		return fmt.Errorf("system not controllable: |U| = %.6g", res.DetU)
	}

	var outNoise noise.Noise
	if noiseStd > 0 {
		g, err := noise.NewGaussian([]float64{0}, mat.NewSymDense(1, []float64{noiseStd * noiseStd}))
		if err != nil {
			return err
		}
		outNoise = g
	}

	_, _, T := s.GetPoles()
	resp, err := sim.StepResponse(m, res.K, steps, T, outNoise)
	if err != nil {
		return err
	}

	if !noASCII {
		graph := asciigraph.Plot(resp.Y,
			asciigraph.Height(12),
			asciigraph.Width(72),
			asciigraph.Caption("closed loop step response"),
		)
		fmt.Println(graph)
	}

	if k := resp.SettlingStep(0.02); k >= 0 {
		fmt.Printf("settles within 2%% after %d steps (%.6g s)\n", k, float64(k)*T)
	} else {
		fmt.Println("does not settle within the simulated horizon")
	}

	if pngPath != "" {
		p, err := sim.NewStepPlot(resp)
		if err != nil {
			return err
		}
		if err := p.Save(6*vg.Inch, 4*vg.Inch, pngPath); err != nil {
			return err
		}
		fmt.Printf("plot written to %s\n", pngPath)
	}

	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := session.Load(sessionFile)
	if err != nil {
		return err
	}

	fmt.Printf("requirements pole: sigma=%.6g wd=%.6g\n", s.Sigma, s.Wd)
	fmt.Printf("design poles: z = %.6g +/- j%.6g (T = %.6g s)\n", s.ZSigma, s.ZWd, s.T)
	fmt.Printf("order: %d\n", s.Dim)

	m, err := s.GetModel()
	if err != nil {
		fmt.Println("model: none")
		return nil
	}

	fmt.Printf("F =\n%v\n", mat.Formatted(m.F, mat.Prefix("    "), mat.Squeeze()))
	fmt.Printf("g =\n%v\n", mat.Formatted(m.G, mat.Prefix("    "), mat.Squeeze()))
	fmt.Printf("c =\n%v\n", mat.Formatted(m.C, mat.Prefix("    "), mat.Squeeze()))
	fmt.Printf("d = %.6g\n", m.D)

	return nil
}
