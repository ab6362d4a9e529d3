package pointcloud

import (
	"fmt"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/mat"
)

const degToRad = math32.Pi / 180

// Transforms are 4x4 row-major matrices applied to column vectors, so the
// translation lives in the last column (m03, m13, m23).

// Rotation builds a rotation from per-axis angles in degrees. The point is
// rolled about Z first, then pitched about X, then yawed about Y: R = Ry·Rx·Rz.
func Rotation(xDeg, yDeg, zDeg float32) *mat.Dense {
	sx, cx := sincos(xDeg * degToRad)
	sy, cy := sincos(yDeg * degToRad)
	sz, cz := sincos(zDeg * degToRad)

	rx := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, cx, -sx, 0,
		0, sx, cx, 0,
		0, 0, 0, 1,
	})
	ry := mat.NewDense(4, 4, []float64{
		cy, 0, sy, 0,
		0, 1, 0, 0,
		-sy, 0, cy, 0,
		0, 0, 0, 1,
	})
	rz := mat.NewDense(4, 4, []float64{
		cz, -sz, 0, 0,
		sz, cz, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	var r mat.Dense
	r.Product(ry, rx, rz)
	return &r
}

func sincos(rad float32) (s, c float64) {
	return float64(math32.Sin(rad)), float64(math32.Cos(rad))
}

// Scaling builds a per-axis scale matrix.
func Scaling(x, y, z float32) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		float64(x), 0, 0, 0,
		0, float64(y), 0, 0,
		0, 0, float64(z), 0,
		0, 0, 0, 1,
	})
}

// Translation builds a matrix that offsets points by (x, y, z).
func Translation(x, y, z float32) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, float64(x),
		0, 1, 0, float64(y),
		0, 0, 1, float64(z),
		0, 0, 0, 1,
	})
}

// affine is the top three rows of a 4x4 transform, row-major.
type affine [12]float64

func toAffine(m mat.Matrix) affine {
	if r, c := m.Dims(); r != 4 || c != 4 {
		panic(fmt.Sprintf("pointcloud: transform must be 4x4, got %dx%d", r, c))
	}
	var a affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			a[i*4+j] = m.At(i, j)
		}
	}
	return a
}

func (a *affine) apply(p Point) Point {
	x, y, z := float64(p.X), float64(p.Y), float64(p.Z)
	return Point{
		X: float32(a[0]*x + a[1]*y + a[2]*z + a[3]),
		Y: float32(a[4]*x + a[5]*y + a[6]*z + a[7]),
		Z: float32(a[8]*x + a[9]*y + a[10]*z + a[11]),
	}
}

// Apply transforms a single point. The bottom row of m is ignored. It panics
// if m is not 4x4.
func Apply(m mat.Matrix, p Point) Point {
	a := toAffine(m)
	return a.apply(p)
}

// Transform applies m to every point in place.
func (c *Cloud) Transform(m mat.Matrix) {
	if c.Len() == 0 {
		return
	}
	a := toAffine(m)
	for i := range c.points {
		c.points[i] = a.apply(c.points[i])
	}
}

// Rotate rotates every point by the given angles in degrees.
func (c *Cloud) Rotate(x, y, z float32) {
	c.Transform(Rotation(x, y, z))
}

// Scale multiplies every point per axis.
func (c *Cloud) Scale(x, y, z float32) {
	c.Transform(Scaling(x, y, z))
}

// Shift translates every point.
func (c *Cloud) Shift(x, y, z float32) {
	c.Transform(Translation(x, y, z))
}

// FlattenZ sets every Z to zero.
func (c *Cloud) FlattenZ() {
	for i := range c.Points() {
		c.points[i].Z = 0
	}
}
