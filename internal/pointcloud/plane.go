package pointcloud

// Plane is the set of points p with Normal·p + D == 0.
type Plane struct {
	Normal Point
	D      float32
}

// SignedDistance returns Normal·p + D. For a unit normal this is the
// euclidean distance, negative on the side opposite the normal.
func (pl Plane) SignedDistance(p Point) float32 {
	return pl.Normal.X*p.X + pl.Normal.Y*p.Y + pl.Normal.Z*p.Z + pl.D
}

// SuppressTo clamps Z to level for every point behind the plane, or in front
// of it when invert is set. Points on the plane count as in front.
func (c *Cloud) SuppressTo(pl Plane, level float32, invert bool) {
	for i, p := range c.Points() {
		if invert != (pl.SignedDistance(p) < 0) {
			c.points[i].Z = level
		}
	}
}
