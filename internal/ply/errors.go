package ply

import (
	"errors"

	"github.com/banshee-data/plycloud/internal/pointcloud"
)

// Error classes. Returned errors wrap exactly one of these, and the
// underlying cause where there is one, so callers can use errors.Is.
var (
	// ErrFormat reports a header contract violation or a truncated body.
	ErrFormat = errors.New("ply: format error")
	// ErrParse reports a malformed numeric token.
	ErrParse = errors.New("ply: parse error")
	// ErrIO reports a failure at the filesystem boundary.
	ErrIO = errors.New("ply: i/o error")
	// ErrIndex reports a range-grid entry pointing outside the vertex list.
	ErrIndex = pointcloud.ErrIndexOutOfRange
)
