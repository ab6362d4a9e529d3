package pointcloud

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
)

// ErrIndexOutOfRange is returned by indexed access outside [0, Len).
var ErrIndexOutOfRange = errors.New("index out of range")

// Point is a single cartesian sample.
type Point struct {
	X, Y, Z float32
}

// Missing returns a point with every coordinate set to NaN. Range-grid cells
// with no return decode to this value.
func Missing() Point {
	nan := math32.NaN()
	return Point{X: nan, Y: nan, Z: nan}
}

// IsMissing reports whether any coordinate of p is NaN.
func (p Point) IsMissing() bool {
	return math32.IsNaN(p.X) || math32.IsNaN(p.Y) || math32.IsNaN(p.Z)
}

// Cloud is an ordered, mutable sequence of points. It is owned by a single
// caller and is not safe for concurrent mutation.
type Cloud struct {
	points []Point
}

// New returns an empty cloud.
func New() *Cloud {
	return &Cloud{}
}

// FromPoints wraps pts without copying; the cloud takes ownership.
func FromPoints(pts []Point) *Cloud {
	return &Cloud{points: pts}
}

// Clone returns a deep copy. Cloning a nil cloud yields an empty one.
func (c *Cloud) Clone() *Cloud {
	if c == nil || len(c.points) == 0 {
		return New()
	}
	pts := make([]Point, len(c.points))
	copy(pts, c.points)
	return &Cloud{points: pts}
}

// Update swaps the backing storage for pts.
func (c *Cloud) Update(pts []Point) {
	c.points = pts
}

// Len returns the number of points, 0 for a nil cloud.
func (c *Cloud) Len() int {
	if c == nil {
		return 0
	}
	return len(c.points)
}

// Points returns the backing slice. Writes through it are visible to c.
func (c *Cloud) Points() []Point {
	if c == nil {
		return nil
	}
	return c.points
}

// At returns the point at index i.
func (c *Cloud) At(i int) (Point, error) {
	if i < 0 || i >= c.Len() {
		return Point{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, c.Len())
	}
	return c.points[i], nil
}

// Set replaces the point at index i.
func (c *Cloud) Set(i int, p Point) error {
	if i < 0 || i >= c.Len() {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, c.Len())
	}
	c.points[i] = p
	return nil
}

// MissingMask returns a bitset with bit i set when point i is missing.
func (c *Cloud) MissingMask() *bitset.BitSet {
	mask := bitset.New(uint(c.Len()))
	for i, p := range c.Points() {
		if p.IsMissing() {
			mask.Set(uint(i))
		}
	}
	return mask
}

// Bounds returns the axis-aligned bounding box of all non-missing points.
// ok is false when there are none.
func (c *Cloud) Bounds() (lo, hi Point, ok bool) {
	for _, p := range c.Points() {
		if p.IsMissing() {
			continue
		}
		if !ok {
			lo, hi, ok = p, p, true
			continue
		}
		lo = Point{X: math32.Min(lo.X, p.X), Y: math32.Min(lo.Y, p.Y), Z: math32.Min(lo.Z, p.Z)}
		hi = Point{X: math32.Max(hi.X, p.X), Y: math32.Max(hi.Y, p.Y), Z: math32.Max(hi.Z, p.Z)}
	}
	return lo, hi, ok
}
