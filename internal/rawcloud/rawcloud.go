// Package rawcloud reads and writes headerless float32 point dumps.
//
// Layout, all little-endian: an optional int32 width and int32 height
// (present only when both are positive at write time), then x, y, z float32
// per point. Nothing in the file says whether the grid prefix is there, so
// readers must be told.
package rawcloud

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/banshee-data/plycloud/internal/fsutil"
	"github.com/banshee-data/plycloud/internal/pointcloud"
)

const pointSize = 12

// ErrTruncated reports a dump whose length is not a whole number of points.
var ErrTruncated = errors.New("rawcloud: truncated dump")

// Encode writes cloud to w.
func Encode(w io.Writer, cloud *pointcloud.Cloud, width, height int) error {
	bw := bufio.NewWriter(w)
	if width > 0 && height > 0 {
		var dims [8]byte
		binary.LittleEndian.PutUint32(dims[0:], uint32(int32(width)))
		binary.LittleEndian.PutUint32(dims[4:], uint32(int32(height)))
		bw.Write(dims[:])
	}
	var rec [pointSize]byte
	for _, p := range cloud.Points() {
		binary.LittleEndian.PutUint32(rec[0:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(rec[4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(rec[8:], math.Float32bits(p.Z))
		bw.Write(rec[:])
	}
	return bw.Flush()
}

// Decode reads a dump from r. When withGrid is set the first eight bytes are
// taken as width and height.
func Decode(r io.Reader, withGrid bool) (cloud *pointcloud.Cloud, width, height int, err error) {
	br := bufio.NewReader(r)
	if withGrid {
		var dims [8]byte
		if _, err := io.ReadFull(br, dims[:]); err != nil {
			return nil, 0, 0, fmt.Errorf("%w: grid prefix: %w", ErrTruncated, err)
		}
		width = int(int32(binary.LittleEndian.Uint32(dims[0:])))
		height = int(int32(binary.LittleEndian.Uint32(dims[4:])))
	}

	var pts []pointcloud.Point
	var rec [pointSize]byte
	for {
		_, err := io.ReadFull(br, rec[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, 0, 0, fmt.Errorf("%w: partial point %d", ErrTruncated, len(pts))
			}
			return nil, 0, 0, err
		}
		pts = append(pts, pointcloud.Point{
			X: math.Float32frombits(binary.LittleEndian.Uint32(rec[0:])),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(rec[4:])),
			Z: math.Float32frombits(binary.LittleEndian.Uint32(rec[8:])),
		})
	}
	return pointcloud.FromPoints(pts), width, height, nil
}

// Save writes a dump to path on fsys.
func Save(fsys fsutil.FileSystem, cloud *pointcloud.Cloud, path string, width, height int) (err error) {
	f, err := fsys.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Encode(f, cloud, width, height)
}

// Load reads a dump from path on fsys.
func Load(fsys fsutil.FileSystem, path string, withGrid bool) (*pointcloud.Cloud, int, int, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()
	cloud, w, h, err := Decode(f, withGrid)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%s: %w", path, err)
	}
	return cloud, w, h, nil
}
