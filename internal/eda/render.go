package eda

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

var classColors = [2]color.Color{
	color.RGBA{R: 0x4c, G: 0x9b, B: 0xe8, A: 0xff},
	color.RGBA{R: 0xe8, G: 0x4c, B: 0x5b, A: 0xff},
}

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
	panelWidth  = 3 * vg.Inch
	panelHeight = 4 * vg.Inch
)

// RenderSVG draws a chart as a standalone SVG document.
func RenderSVG(c *Chart, w io.Writer) error {
	switch c.Kind {
	case KindTargetCount:
		return withPlot(w, chartWidth, chartHeight, func() (*plot.Plot, error) { return countPlot(c, true) })
	case KindSexVsTarget:
		return withPlot(w, chartWidth, chartHeight, func() (*plot.Plot, error) { return countPlot(c, false) })
	case KindAgeDistribution:
		return withPlot(w, chartWidth, chartHeight, func() (*plot.Plot, error) { return histogramPlot(c) })
	case KindCorrelationHeatmap:
		return withPlot(w, 9*vg.Inch, 8*vg.Inch, func() (*plot.Plot, error) { return heatmapPlot(c) })
	case KindRatioScatter:
		return withPlot(w, chartWidth, chartHeight, func() (*plot.Plot, error) { return scatterPlot(c) })
	case KindFeatureBoxplots, KindOutlierBoxplots:
		panels, err := boxPanels(c)
		if err != nil {
			return err
		}
		return writeTiles(w, panels)
	default:
		return fmt.Errorf("no renderer for chart %q", c.Kind)
	}
}

func withPlot(w io.Writer, width, height vg.Length, build func() (*plot.Plot, error)) error {
	p, err := build()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return fmt.Errorf("failed to render svg: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func writeTiles(w io.Writer, plots []*plot.Plot) error {
	canvas := vgsvg.New(panelWidth*vg.Length(len(plots)), panelHeight)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(plots),
		PadX:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	grid := plot.Align([][]*plot.Plot{plots}, tiles, draw.New(canvas))
	for i, p := range plots {
		p.Draw(grid[0][i])
	}
	_, err := canvas.WriteTo(w)
	return err
}

func newPlot(c *Chart) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	return p
}

// countPlot stacks the two classes for the target count, and puts them side
// by side for the grouped counts.
func countPlot(c *Chart, stacked bool) (*plot.Plot, error) {
	p := newPlot(c)
	width := vg.Points(40)
	if !stacked {
		width = vg.Points(24)
	}

	labels := make([]string, len(c.Counts))
	var prev *plotter.BarChart
	for class := 0; class <= 1; class++ {
		vals := make(plotter.Values, len(c.Counts))
		for i, cnt := range c.Counts {
			vals[i] = float64(cnt.ByClass[class])
			labels[i] = cnt.Label
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return nil, err
		}
		bars.Color = classColors[class]
		bars.LineStyle.Width = 0
		if stacked {
			if prev != nil {
				bars.StackOn(prev)
			}
			prev = bars
		} else {
			bars.Offset = width * vg.Length(class*2-1) / 2
		}
		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("target=%d", class), bars)
	}
	p.NominalX(labels...)
	return p, nil
}

func histogramPlot(c *Chart) (*plot.Plot, error) {
	p := newPlot(c)
	labels := make([]string, len(c.Bins))
	var prev *plotter.BarChart
	for class := 0; class <= 1; class++ {
		vals := make(plotter.Values, len(c.Bins))
		for i, b := range c.Bins {
			vals[i] = float64(b.ByClass[class])
			labels[i] = fmt.Sprintf("%g-%g", b.Lo, b.Hi)
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(22))
		if err != nil {
			return nil, err
		}
		bars.Color = classColors[class]
		bars.LineStyle.Width = 0
		if prev != nil {
			bars.StackOn(prev)
		}
		prev = bars
		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("target=%d", class), bars)
	}
	p.NominalX(labels...)
	return p, nil
}

func boxPanels(c *Chart) ([]*plot.Plot, error) {
	var (
		panels []*plot.Plot
		byCol  = map[string]*plot.Plot{}
		groups = map[string][]string{}
	)
	for _, b := range c.Boxes {
		p, ok := byCol[b.Column]
		if !ok {
			p = plot.New()
			p.Title.Text = b.Column
			p.Y.Label.Text = c.YLabel
			byCol[b.Column] = p
			panels = append(panels, p)
		}
		loc := float64(len(groups[b.Column]))
		groups[b.Column] = append(groups[b.Column], b.Group)
		if len(b.values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(36), loc, plotter.Values(b.values))
		if err != nil {
			return nil, err
		}
		box.FillColor = classColors[int(loc)%2]
		p.Add(box)
	}
	for col, p := range byCol {
		p.NominalX(groups[col]...)
	}
	if len(panels) == 0 {
		return nil, fmt.Errorf("chart %s has no boxes", c.Kind)
	}
	return panels, nil
}

// corrGrid adapts a square matrix to plotter.GridXYZ.
type corrGrid [][]float64

func (g corrGrid) Dims() (c, r int)   { return len(g), len(g) }
func (g corrGrid) Z(c, r int) float64 { return g[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func heatmapPlot(c *Chart) (*plot.Plot, error) {
	if c.Heatmap == nil || len(c.Heatmap.Columns) == 0 {
		return nil, fmt.Errorf("chart %s has no matrix", c.Kind)
	}
	p := newPlot(c)

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid(c.Heatmap.Matrix), cm.Palette(21))
	hm.Min, hm.Max = -1, 1
	p.Add(hm)

	var xys plotter.XYs
	var text []string
	for r, row := range c.Heatmap.Matrix {
		for col, v := range row {
			xys = append(xys, plotter.XY{X: float64(col) - 0.3, Y: float64(r)})
			text = append(text, fmt.Sprintf("%.2f", v))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return nil, err
	}
	p.Add(labels)

	p.NominalX(c.Heatmap.Columns...)
	p.NominalY(c.Heatmap.Columns...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}

func scatterPlot(c *Chart) (*plot.Plot, error) {
	p := newPlot(c)
	var byClass [2]plotter.XYs
	for _, pt := range c.Points {
		byClass[pt.Target] = append(byClass[pt.Target], plotter.XY{X: pt.X, Y: pt.Y})
	}
	for class, xys := range byClass {
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = classColors[class]
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("target=%d", class), s)
	}
	return p, nil
}
