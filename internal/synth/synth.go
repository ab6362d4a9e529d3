// Package synth builds synthetic point clouds for demos and tests.
package synth

import (
	"github.com/chewxy/math32"

	"github.com/banshee-data/plycloud/internal/pointcloud"
)

// SineField returns a width×height height field laid out row by row. Point
// w + width*h sits at (w, h) with
//
//	Z = amplitude · sin(2π·w/(width/2)) · sin(2π·h/(height/2))
//
// so each axis completes two full periods.
func SineField(width, height int, amplitude float32) *pointcloud.Cloud {
	if width <= 0 || height <= 0 {
		return pointcloud.New()
	}
	halfW := float32(width) / 2
	halfH := float32(height) / 2

	pts := make([]pointcloud.Point, width*height)
	for h := 0; h < height; h++ {
		sy := math32.Sin(2 * math32.Pi * float32(h) / halfH)
		for w := 0; w < width; w++ {
			sx := math32.Sin(2 * math32.Pi * float32(w) / halfW)
			pts[w+width*h] = pointcloud.Point{X: float32(w), Y: float32(h), Z: amplitude * sx * sy}
		}
	}
	return pointcloud.FromPoints(pts)
}
