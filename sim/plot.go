package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// NewStepPlot creates a plot of the simulated step response r: the output
// sequence as a line and the control sequence as a scatter.
// It returns error if r is nil or empty or the gonum plotters fail to be
// created.
func NewStepPlot(r *Response) (*plot.Plot, error) {
	if r == nil || len(r.Y) == 0 {
		return nil, fmt.Errorf("invalid response supplied")
	}

	p := plot.New()

	p.Title.Text = "Closed loop step response"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	yData := make(plotter.XYs, len(r.Y))
	for k := range r.Y {
		yData[k].X = float64(k) * r.T
		yData[k].Y = r.Y[k]
	}

	yLine, err := plotter.NewLine(yData)
	if err != nil {
		return nil, err
	}
	yLine.Color = color.RGBA{R: 255, B: 128, A: 255}
	yLine.Width = vg.Points(1.5)

	p.Add(yLine)
	p.Legend.Add("output", yLine)

	uData := make(plotter.XYs, len(r.U))
	for k := range r.U {
		uData[k].X = float64(k) * r.T
		uData[k].Y = r.U[k]
	}

	uScatter, err := plotter.NewScatter(uData)
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	uScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169, A: 255}
	uScatter.GlyphStyle.Radius = vg.Points(2)

	p.Add(uScatter)
	p.Legend.Add("control", uScatter)

	return p, nil
}
