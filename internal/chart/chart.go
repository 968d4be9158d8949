// Package chart renders dashboard figures from aggregated movie data.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"moviedash/internal/biz"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Chart names, used in URLs and element ids.
const (
	CountPerDirectorName            = "count-per-director"
	PopularityBoxPerDirectorName    = "popularity-per-director"
	PopularityVsRatingName          = "popularity-vs-rating"
	MedianPopularityPerDirectorName = "median-popularity-per-director"
	MedianRatingPerDirectorName     = "median-rating-per-director"
)

// Output formats accepted by Figure.Encode.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

var (
	ErrUnknownChart  = errors.New("unknown chart")
	ErrUnknownFormat = errors.New("unknown format")
)

const (
	defaultWidth  = 7 * vg.Inch
	defaultHeight = 4.5 * vg.Inch
)

// Figure is a finished chart ready to be encoded.
type Figure struct {
	Name   string
	Title  string
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

func newFigure(name, title, xLabel, yLabel string) *Figure {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return &Figure{
		Name:   name,
		Title:  title,
		Plot:   p,
		Width:  defaultWidth,
		Height: defaultHeight,
	}
}

// Encode writes the figure as svg or png.
func (f *Figure) Encode(w io.Writer, format string) error {
	format = strings.ToLower(format)
	if format != FormatSVG && format != FormatPNG {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	wt, err := f.Plot.WriterTo(f.Width, f.Height, format)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", f.Name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	return nil
}

// SVG renders the figure to an SVG document.
func (f *Figure) SVG() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Encode(&buf, FormatSVG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if strings.ToLower(format) == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Builder turns the filtered record set into a figure.
type Builder func(records []*biz.JoinedRecord) (*Figure, error)

var builders = map[string]Builder{
	CountPerDirectorName:            CountPerDirector,
	PopularityBoxPerDirectorName:    PopularityBoxPerDirector,
	PopularityVsRatingName:          PopularityVsRating,
	MedianPopularityPerDirectorName: MedianPopularityPerDirector,
	MedianRatingPerDirectorName:     MedianRatingPerDirector,
}

// Build runs the builder registered under name.
func Build(name string, records []*biz.JoinedRecord) (*Figure, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return b(records)
}

// Tab is a titled group of charts on the dashboard.
type Tab struct {
	ID     string
	Title  string
	Charts []string
}

// Tabs is the dashboard layout.
var Tabs = []Tab{
	{ID: "directors", Title: "Directors", Charts: []string{CountPerDirectorName, PopularityBoxPerDirectorName}},
	{ID: "popularity", Title: "Popularity", Charts: []string{MedianPopularityPerDirectorName, PopularityVsRatingName}},
	{ID: "ratings", Title: "Ratings", Charts: []string{MedianRatingPerDirectorName}},
}
