package ply

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/banshee-data/plycloud/internal/pointcloud"
)

// Encode writes cloud as a PLY stream. Grid dimensions are recorded only
// when both are positive. The writer never emits a range_grid element.
func Encode(w io.Writer, cloud *pointcloud.Cloud, ascii bool, width, height int) error {
	bw := bufio.NewWriter(w)

	format := FormatBinaryLittleEndian
	if ascii {
		format = FormatASCII
	}
	fmt.Fprintf(bw, "ply\nformat %s 1.0\n", format)
	if width > 0 && height > 0 {
		fmt.Fprintf(bw, "obj_info num_cols %d\n", width)
		fmt.Fprintf(bw, "obj_info num_rows %d\n", height)
	}
	fmt.Fprintf(bw, "element vertex %d\n", cloud.Len())
	bw.WriteString("property float x\nproperty float y\nproperty float z\nend_header\n")

	if ascii {
		writeASCII(bw, cloud.Points())
	} else {
		writeBinary(bw, cloud.Points())
	}

	// bufio.Writer latches the first write error, so checking Flush is enough.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// writeASCII uses the shortest float32 text; strconv ignores locale.
func writeASCII(bw *bufio.Writer, pts []pointcloud.Point) {
	buf := make([]byte, 0, 64)
	for _, p := range pts {
		buf = strconv.AppendFloat(buf[:0], float64(p.X), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(p.Y), 'g', -1, 32)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(p.Z), 'g', -1, 32)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
}

func writeBinary(bw *bufio.Writer, pts []pointcloud.Point) {
	var rec [12]byte
	for _, p := range pts {
		binary.LittleEndian.PutUint32(rec[0:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(rec[4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(rec[8:], math.Float32bits(p.Z))
		bw.Write(rec[:])
	}
}
