// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/banshee-data/plycloud/internal/pointcloud"
)

// WriteTempFile writes data to name inside a per-test temporary directory
// and returns the full path.
func WriteTempFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// DiffPoints returns a human-readable diff between two point lists, or ""
// when they match. NaN coordinates compare equal to each other.
func DiffPoints(want, got []pointcloud.Point) string {
	return cmp.Diff(want, got, cmpopts.EquateNaNs(), cmpopts.EquateEmpty())
}

// AssertPoints fails the test if got differs from want.
func AssertPoints(t testing.TB, want, got []pointcloud.Point) {
	t.Helper()
	if diff := DiffPoints(want, got); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

// Grid returns width*height points laid out row by row with X=column,
// Y=row and Z=column*row.
func Grid(width, height int) []pointcloud.Point {
	pts := make([]pointcloud.Point, 0, width*height)
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			pts = append(pts, pointcloud.Point{X: float32(c), Y: float32(r), Z: float32(c * r)})
		}
	}
	return pts
}
