// Package pointcloud owns the in-memory point buffer and the arithmetic
// applied to it.
//
// Responsibilities: the Cloud container (indexed access, bulk replace,
// deep copy), 4x4 affine transforms built on gonum/mat, half-space
// suppression against a plane, and NaN-aware helpers for clouds that carry
// range-grid holes.
// Key types: Point, Cloud, Plane.
//
// A Cloud carries no grid dimensions. Width and height belong to the file
// format and are validated by the codec at load time only.
package pointcloud
