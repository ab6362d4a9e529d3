package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/plycloud/internal/monitoring"
	"github.com/banshee-data/plycloud/internal/pointcloud"
)

// maxPrealloc bounds the capacity reserved from a header count, so a
// corrupt header cannot force a huge allocation before any data is read.
const maxPrealloc = 1 << 22

// Decode reads a complete PLY stream and returns the decoded cloud with the
// grid dimensions recorded in the header. Width and height are zero unless
// their product equals the number of points returned.
func Decode(r io.ReadSeeker) (cloud *pointcloud.Cloud, width, height int, err error) {
	lr := newLineReader(r)
	h, err := parseHeader(lr)
	if err != nil {
		return nil, 0, 0, err
	}

	var pts []pointcloud.Point
	if h.IsASCII() {
		pts, err = decodeASCII(lr, h)
	} else {
		var end int64
		if end, err = r.Seek(0, io.SeekEnd); err != nil {
			return nil, 0, 0, fmt.Errorf("%w: seek to end: %w", ErrIO, err)
		}
		// The line reader has buffered past the header; go back to the
		// exact byte after end_header.
		if _, err = r.Seek(h.Length, io.SeekStart); err != nil {
			return nil, 0, 0, fmt.Errorf("%w: seek to body: %w", ErrIO, err)
		}
		pts, err = decodeBinary(bufio.NewReader(r), h, end-h.Length)
	}
	if err != nil {
		return nil, 0, 0, err
	}

	width, height = reconcileGrid(len(pts), h.NumCols, h.NumRows)
	return pointcloud.FromPoints(pts), width, height, nil
}

func reconcileGrid(n, width, height int) (int, int) {
	if n == width*height {
		return width, height
	}
	if width != 0 || height != 0 {
		monitoring.Logf("ply: grid %dx%d does not match %d points; ignoring grid", width, height, n)
	}
	return 0, 0
}

func decodeASCII(lr *lineReader, h Header) ([]pointcloud.Point, error) {
	if h.RangeGridCount > 0 {
		monitoring.Logf("ply: range_grid with %d entries ignored in ascii body", h.RangeGridCount)
	}

	pts := make([]pointcloud.Point, 0, min(h.VertexCount, maxPrealloc))
	for i := 0; i < h.VertexCount; i++ {
		line, ok, err := lr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: vertex %d: %w", ErrParse, i, io.ErrUnexpectedEOF)
		}

		parts := strings.Split(strings.TrimSpace(line), " ")
		if len(parts) < 3 {
			return nil, fmt.Errorf("%w: vertex %d: want 3 values, got %q", ErrParse, i, strings.TrimSpace(line))
		}
		var xyz [3]float32
		for k := range xyz {
			v, err := parseDecimal(parts[k])
			if err != nil {
				return nil, fmt.Errorf("%w: vertex %d: %w", ErrParse, i, err)
			}
			xyz[k] = v
		}
		pts = append(pts, pointcloud.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	return pts, nil
}

// parseDecimal parses one ASCII coordinate. strconv also takes hex floats
// (and underscores between hex digits), which PLY text never contains.
func parseDecimal(tok string) (float32, error) {
	digits := strings.TrimLeft(tok, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, fmt.Errorf("hex float %q", tok)
	}
	v, err := strconv.ParseFloat(tok, 32)
	return float32(v), err
}

// vertexLayout locates x, y and z inside one binary vertex record.
type vertexLayout struct {
	stride     int
	xOff, yOff int
	zOff       int
}

// scannerLayout is the scanner record: float x, y, z followed by three
// colour bytes. Scanner headers declare either no vertex properties or just
// x, y and z, leaving the colour bytes undeclared.
var scannerLayout = vertexLayout{stride: 15, xOff: 0, yOff: 4, zOff: 8}

// plainLayout is the record this package writes.
var plainLayout = vertexLayout{stride: 12, xOff: 0, yOff: 4, zOff: 8}

// layoutFor picks the vertex record layout. bodyLen is the byte count after
// end_header and is only consulted for a bare float x, y, z header, where
// 15-byte scanner records and 12-byte records share the same declaration.
func layoutFor(h Header, bodyLen int64) (vertexLayout, error) {
	props := h.VertexProperties
	if len(props) == 0 {
		return scannerLayout, nil
	}
	if onlyXYZ(props) {
		if h.RangeGridCount > 0 || bodyLen >= int64(h.VertexCount)*int64(scannerLayout.stride) {
			return scannerLayout, nil
		}
		return plainLayout, nil
	}

	offsets := map[string]int{}
	l := vertexLayout{}
	for _, p := range props {
		switch p.Name {
		case "x", "y", "z":
			if !isFloat(p.Type) {
				return l, fmt.Errorf("%w: vertex property %s must be float, got %s", ErrFormat, p.Name, p.Type)
			}
			offsets[p.Name] = l.stride
		}
		l.stride += p.Size()
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := offsets[name]; !ok {
			return l, fmt.Errorf("%w: vertex property %s not declared", ErrFormat, name)
		}
	}
	l.xOff, l.yOff, l.zOff = offsets["x"], offsets["y"], offsets["z"]
	return l, nil
}

func onlyXYZ(props []Property) bool {
	if len(props) != 3 {
		return false
	}
	for i, name := range []string{"x", "y", "z"} {
		if props[i].Name != name || !isFloat(props[i].Type) {
			return false
		}
	}
	return true
}

func isFloat(typ string) bool {
	return typ == "float" || typ == "float32"
}

func decodeBinary(r io.Reader, h Header, bodyLen int64) ([]pointcloud.Point, error) {
	layout, err := layoutFor(h, bodyLen)
	if err != nil {
		return nil, err
	}

	raw := make([]pointcloud.Point, 0, min(h.VertexCount, maxPrealloc))
	rec := make([]byte, layout.stride)
	for i := 0; i < h.VertexCount; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, bodyError("vertex", i, err)
		}
		raw = append(raw, pointcloud.Point{
			X: f32(rec[layout.xOff:]),
			Y: f32(rec[layout.yOff:]),
			Z: -f32(rec[layout.zOff:]),
		})
	}

	if h.RangeGridCount == 0 {
		return raw, nil
	}
	return expandRangeGrid(r, raw, h.RangeGridCount)
}

// expandRangeGrid resolves each range-grid cell to a vertex or a NaN point.
// Only single-index cells are supported; a larger count is read as one.
func expandRangeGrid(r io.Reader, raw []pointcloud.Point, count int) ([]pointcloud.Point, error) {
	out := make([]pointcloud.Point, 0, min(count, maxPrealloc))
	var buf [4]byte
	warned := false
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, buf[:1]); err != nil {
			return nil, bodyError("range_grid entry", i, err)
		}
		n := buf[0]
		if n == 0 {
			out = append(out, pointcloud.Missing())
			continue
		}
		if n > 1 && !warned {
			monitoring.Logf("ply: range_grid entry %d lists %d vertices; only the first is read", i, n)
			warned = true
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, bodyError("range_grid entry", i, err)
		}
		idx := int32(binary.LittleEndian.Uint32(buf[:]))
		if idx < 0 || int(idx) >= len(raw) {
			return nil, fmt.Errorf("%w: range_grid entry %d references vertex %d of %d", ErrIndex, i, idx, len(raw))
		}
		out = append(out, raw[idx])
	}
	return out, nil
}

func f32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func bodyError(what string, i int, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated binary body at %s %d: %w", ErrFormat, what, i, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("%w: reading %s %d: %w", ErrIO, what, i, err)
}
