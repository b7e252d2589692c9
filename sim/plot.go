package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewTrajectoryPlot creates new plot of a single state component from three trajectories:
// truth:   true system values
// measure: measurement values
// filter:  filter values
// Each trajectory stores one time step per row; comp selects the plotted column
// and dt is the time between two consecutive rows.
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * either of the supplied data matrices is nil
// * comp is not a valid column of every data matrix
// * gonum plot fails to be created
func NewTrajectoryPlot(truth, measure, filter *mat.Dense, comp int, dt float64) (*plot.Plot, error) {
	if truth == nil || measure == nil || filter == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	for _, m := range []*mat.Dense{truth, measure, filter} {
		if _, c := m.Dims(); comp < 0 || comp >= c {
			return nil, fmt.Errorf("invalid component %d for data with %d columns", comp, c)
		}
	}

	p := plot.New()

	p.Title.Text = fmt.Sprintf("State component %d", comp)
	p.X.Label.Text = "time"
	p.Y.Label.Text = "value"
	p.Legend.Top = true

	truthLine, err := plotter.NewLine(makePoints(truth, comp, dt))
	if err != nil {
		return nil, err
	}
	truthLine.LineStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	truthLine.LineStyle.Width = vg.Points(1)

	p.Add(truthLine)
	p.Legend.Add("truth", truthLine)

	measScatter, err := plotter.NewScatter(makePoints(measure, comp, dt))
	if err != nil {
		return nil, err
	}
	measScatter.GlyphStyle.Color = color.RGBA{G: 255, A: 128}
	measScatter.GlyphStyle.Radius = vg.Points(2)

	p.Add(measScatter)
	p.Legend.Add("measurement", measScatter)

	filterScatter, err := plotter.NewScatter(makePoints(filter, comp, dt))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	filterScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169, A: 255}
	filterScatter.Shape = draw.CrossGlyph{}
	filterScatter.GlyphStyle.Radius = vg.Points(2)

	p.Add(filterScatter)
	p.Legend.Add("filtered", filterScatter)

	return p, nil
}

func makePoints(m *mat.Dense, comp int, dt float64) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = float64(i) * dt
		pts[i].Y = m.At(i, comp)
	}

	return pts
}
