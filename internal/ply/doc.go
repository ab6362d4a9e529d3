// Package ply reads and writes point clouds in the PLY format.
//
// The writer emits a vertex-only file with float x/y/z properties, either as
// ASCII or binary little-endian, and optionally records the scan grid as
// "obj_info num_cols" / "obj_info num_rows".
//
// The reader accepts the same files plus scanner output that carries a
// binary "range_grid" element: one entry per grid cell, each either empty
// (decoded as a NaN point) or a single index into the vertex list. When a
// range grid is present the expanded per-cell list is returned instead of
// the raw vertices. Binary vertices are returned with Z negated, which is
// the axis convention of that scanner output; ASCII vertices are returned
// as written.
//
// Grid dimensions are only trusted when num_cols*num_rows equals the number
// of decoded points; otherwise both are reported as zero.
//
// Range grids in ASCII files are not decoded. The element is accepted and
// the raw vertex list is returned.
package ply
