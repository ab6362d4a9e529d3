// Package render draws point clouds to image files with gonum/plot.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/plycloud/internal/pointcloud"
)

// ErrNoPoints is returned when a cloud has nothing to draw.
var ErrNoPoints = errors.New("render: no drawable points")

// Options controls the top-down plot.
type Options struct {
	Title       string
	Width       vg.Length
	Height      vg.Length
	PointRadius vg.Length
}

// DefaultOptions returns a square 8 inch plot with small markers.
func DefaultOptions() Options {
	return Options{
		Title:       "Point cloud (top-down, colour = Z)",
		Width:       8 * vg.Inch,
		Height:      8 * vg.Inch,
		PointRadius: vg.Points(1.5),
	}
}

// TopDown builds a scatter of X against Y with each marker coloured by Z.
// Missing points are skipped.
func TopDown(cloud *pointcloud.Cloud, opts Options) (*plot.Plot, error) {
	lo, hi, ok := cloud.Bounds()
	if !ok {
		return nil, ErrNoPoints
	}

	xys := make(plotter.XYs, 0, cloud.Len())
	zs := make([]float64, 0, cloud.Len())
	for _, p := range cloud.Points() {
		if p.IsMissing() {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(p.X), Y: float64(p.Y)})
		zs = append(zs, float64(p.Z))
	}

	cmap := moreland.SmoothBlueRed()
	zmin, zmax := float64(lo.Z), float64(hi.Z)
	if zmax <= zmin {
		// flat cloud: give the colour map a non-empty range
		zmax = zmin + 1
	}
	cmap.SetMin(zmin)
	cmap.SetMax(zmax)

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("render: scatter: %w", err)
	}
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		style := draw.GlyphStyle{Radius: opts.PointRadius, Shape: draw.CircleGlyph{}}
		c, err := cmap.At(zs[i])
		if err != nil {
			c = color.Black
		}
		style.Color = c
		return style
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(scatter)
	return p, nil
}

// Save renders cloud to path. The image format follows the extension
// (.png, .svg, .pdf, ...).
func Save(cloud *pointcloud.Cloud, path string, opts Options) error {
	p, err := TopDown(cloud, opts)
	if err != nil {
		return err
	}
	if err := p.Save(opts.Width, opts.Height, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
