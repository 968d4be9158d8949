package chart

import (
	"image/color"

	"moviedash/internal/biz"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// directorBoxes draws one horizontal box per director from precomputed
// BoxStats. The first director sits on top.
type directorBoxes struct {
	Stats []biz.BoxStats

	Width        vg.Length
	CapWidth     vg.Length
	FillColor    color.Color
	BoxStyle     draw.LineStyle
	MedianStyle  draw.LineStyle
	WhiskerStyle draw.LineStyle
	GlyphStyle   draw.GlyphStyle
}

func newDirectorBoxes(stats []biz.BoxStats) *directorBoxes {
	return &directorBoxes{
		Stats:        stats,
		Width:        boxWidth,
		CapWidth:     boxWidth / 2,
		FillColor:    barColor,
		BoxStyle:     plotter.DefaultLineStyle,
		MedianStyle:  plotter.DefaultLineStyle,
		WhiskerStyle: plotter.DefaultLineStyle,
		GlyphStyle:   plotter.DefaultGlyphStyle,
	}
}

// location is the y value of the i-th box.
func (b *directorBoxes) location(i int) float64 {
	return float64(len(b.Stats) - 1 - i)
}

// Names returns the director labels bottom to top, ready for NominalY.
func (b *directorBoxes) Names() []string {
	names := make([]string, len(b.Stats))
	for i, s := range b.Stats {
		names[int(b.location(i))] = s.Director
	}
	return names
}

func (b *directorBoxes) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	half := b.Width / 2
	capHalf := b.CapWidth / 2
	for i, s := range b.Stats {
		y := trY(b.location(i))
		if !c.ContainsY(y) {
			continue
		}
		q1, q3 := trX(s.Q1), trX(s.Q3)
		med := trX(s.Median)
		lo, hi := trX(s.LowWhisker), trX(s.HiWhisker)

		pts := []vg.Point{
			{X: q1, Y: y - half},
			{X: q3, Y: y - half},
			{X: q3, Y: y + half},
			{X: q1, Y: y + half},
			{X: q1, Y: y - half - b.BoxStyle.Width/2},
		}
		if b.FillColor != nil {
			c.FillPolygon(b.FillColor, c.ClipPolygonX(pts))
		}
		c.StrokeLines(b.BoxStyle, c.ClipLinesX(pts)...)
		c.StrokeLines(b.MedianStyle, c.ClipLinesX([]vg.Point{{X: med, Y: y - half}, {X: med, Y: y + half}})...)
		c.StrokeLines(b.WhiskerStyle, c.ClipLinesX(
			[]vg.Point{{X: q3, Y: y}, {X: hi, Y: y}},
			[]vg.Point{{X: hi, Y: y - capHalf}, {X: hi, Y: y + capHalf}},
			[]vg.Point{{X: q1, Y: y}, {X: lo, Y: y}},
			[]vg.Point{{X: lo, Y: y - capHalf}, {X: lo, Y: y + capHalf}},
		)...)

		for _, v := range s.Outliers {
			x := trX(v)
			if c.ContainsX(x) {
				c.DrawGlyphNoClip(b.GlyphStyle, vg.Point{X: x, Y: y})
			}
		}
	}
}

// DataRange implements plot.DataRanger.
func (b *directorBoxes) DataRange() (xmin, xmax, ymin, ymax float64) {
	if len(b.Stats) == 0 {
		return 0, 0, 0, 0
	}
	xmin, xmax = b.Stats[0].Min, b.Stats[0].Max
	for _, s := range b.Stats[1:] {
		xmin = min(xmin, s.Min)
		xmax = max(xmax, s.Max)
	}
	return xmin, xmax, 0, float64(len(b.Stats) - 1)
}

// GlyphBoxes implements plot.GlyphBoxer so boxes and outliers are not clipped.
func (b *directorBoxes) GlyphBoxes(plt *plot.Plot) []plot.GlyphBox {
	var bs []plot.GlyphBox
	for i, s := range b.Stats {
		y := plt.Y.Norm(b.location(i))
		for _, v := range s.Outliers {
			bs = append(bs, plot.GlyphBox{X: plt.X.Norm(v), Y: y, Rectangle: b.GlyphStyle.Rectangle()})
		}
		bs = append(bs, plot.GlyphBox{
			X: plt.X.Norm(s.Median),
			Y: y,
			Rectangle: vg.Rectangle{
				Min: vg.Point{Y: -(b.Width/2 + b.BoxStyle.Width/2)},
				Max: vg.Point{Y: b.Width/2 + b.BoxStyle.Width/2},
			},
		})
	}
	return bs
}
