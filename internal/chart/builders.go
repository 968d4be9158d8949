package chart

import (
	"image/color"
	"math"
	"sort"

	"moviedash/internal/biz"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	barWidth     = 12 * vg.Millimeter
	boxWidth     = 10 * vg.Millimeter
	pointRadius  = 2.5 * vg.Millimeter / 2
	scatterAlpha = 0.6
)

var barColor = color.NRGBA{R: 76, G: 114, B: 176, A: 255}

// categorical is the ten-color qualitative palette used for director hues.
var categorical = []color.Color{
	color.NRGBA{R: 31, G: 119, B: 180, A: 255},
	color.NRGBA{R: 255, G: 127, B: 14, A: 255},
	color.NRGBA{R: 44, G: 160, B: 44, A: 255},
	color.NRGBA{R: 214, G: 39, B: 40, A: 255},
	color.NRGBA{R: 148, G: 103, B: 189, A: 255},
	color.NRGBA{R: 140, G: 86, B: 75, A: 255},
	color.NRGBA{R: 227, G: 119, B: 194, A: 255},
	color.NRGBA{R: 127, G: 127, B: 127, A: 255},
	color.NRGBA{R: 188, G: 189, B: 34, A: 255},
	color.NRGBA{R: 23, G: 190, B: 207, A: 255},
}

// CountPerDirector draws one horizontal bar per director with its movie count.
func CountPerDirector(records []*biz.JoinedRecord) (*Figure, error) {
	fig := newFigure(CountPerDirectorName, "Movies per director (top 10)", "Number of movies", "Director")
	counts := biz.CountByDirector(records)

	names := make([]string, len(counts))
	values := make(plotter.Values, len(counts))
	for i, c := range counts {
		names[i] = c.Director
		values[i] = float64(c.Count)
	}
	if err := addHorizontalBars(fig, names, values); err != nil {
		return nil, err
	}
	return fig, nil
}

// PopularityBoxPerDirector draws the popularity distribution of each director
// as a horizontal box plot.
func PopularityBoxPerDirector(records []*biz.JoinedRecord) (*Figure, error) {
	fig := newFigure(PopularityBoxPerDirectorName, "Popularity per director (top 10 by movie count)", "Popularity", "Director")
	stats := biz.PopularityByDirector(records)
	if len(stats) == 0 {
		return fig, nil
	}

	boxes := newDirectorBoxes(stats)
	fig.Plot.Add(boxes)
	fig.Plot.NominalY(boxes.Names()...)
	return fig, nil
}

// PopularityVsRating scatters popularity against vote average, one color per
// director. Movies missing either value are left out.
func PopularityVsRating(records []*biz.JoinedRecord) (*Figure, error) {
	fig := newFigure(PopularityVsRatingName, "Popularity and rating for the top 10 directors", "Popularity", "Rating")
	points := biz.PopularityVsRating(records)
	if len(points) == 0 {
		return fig, nil
	}

	byDirector := make(map[string]plotter.XYs)
	for _, pt := range points {
		byDirector[pt.Director] = append(byDirector[pt.Director], plotter.XY{X: pt.Popularity, Y: pt.VoteAverage})
	}
	directors := make([]string, 0, len(byDirector))
	for name := range byDirector {
		directors = append(directors, name)
	}
	sort.Strings(directors)

	colors := directorColors(len(directors))
	for i, name := range directors {
		s, err := plotter.NewScatter(byDirector[name])
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = pointRadius
		s.GlyphStyle.Color = withAlpha(colors[i], scatterAlpha)
		fig.Plot.Add(s)
		fig.Plot.Legend.Add(name, s)
	}
	fig.Plot.Legend.Top = true
	fig.Plot.Add(plotter.NewGrid())
	return fig, nil
}

// MedianPopularityPerDirector draws median popularity per director, highest on top.
func MedianPopularityPerDirector(records []*biz.JoinedRecord) (*Figure, error) {
	fig := newFigure(MedianPopularityPerDirectorName, "Typical popularity per director (median, top 10)", "Median popularity", "Director")
	if err := addMedianBars(fig, biz.MedianPopularityByDirector(records)); err != nil {
		return nil, err
	}
	return fig, nil
}

// MedianRatingPerDirector draws median vote average per director. Movies
// without a rating are left out.
func MedianRatingPerDirector(records []*biz.JoinedRecord) (*Figure, error) {
	fig := newFigure(MedianRatingPerDirectorName, "Typical rating per director (median, top 10)", "Median rating", "Director")
	if err := addMedianBars(fig, biz.MedianRatingByDirector(records)); err != nil {
		return nil, err
	}
	return fig, nil
}

func addMedianBars(fig *Figure, medians []biz.DirectorValue) error {
	names := make([]string, len(medians))
	values := make(plotter.Values, len(medians))
	for i, m := range medians {
		names[i] = m.Director
		values[i] = m.Value
	}
	return addHorizontalBars(fig, names, values)
}

// addHorizontalBars draws bars top to bottom in the order given.
func addHorizontalBars(fig *Figure, names []string, values plotter.Values) error {
	n := len(values)
	if n == 0 {
		return nil
	}
	revNames := make([]string, n)
	revValues := make(plotter.Values, n)
	for i := range values {
		revNames[n-1-i] = names[i]
		revValues[n-1-i] = values[i]
	}

	bars, err := plotter.NewBarChart(revValues, barWidth)
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	fig.Plot.Add(bars)
	fig.Plot.NominalY(revNames...)
	return nil
}

// directorColors returns n distinct colors, one per director.
func directorColors(n int) []color.Color {
	if n <= len(categorical) {
		return categorical[:n]
	}
	return palette.Rainbow(n, palette.Red, palette.Magenta, 0.8, 0.85, 1).Colors()
}

func withAlpha(c color.Color, alpha float64) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(math.Round(alpha * 255)),
	}
}
