package ply

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/banshee-data/plycloud/internal/monitoring"
)

// vertex encodes one binary vertex record: float x, y, z then any trailing
// bytes (colour and the like).
func vertex(x, y, z float32, extra ...byte) []byte {
	var b [12]byte
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(x))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(z))
	return append(b[:], extra...)
}

// cell encodes a single-index range-grid entry.
func cell(idx int32) []byte {
	b := []byte{1, 0, 0, 0, 0}
	binary.LittleEndian.PutUint32(b[1:], uint32(idx))
	return b
}

var emptyCell = []byte{0}

func file(header string, body ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(header)
	for _, b := range body {
		buf.Write(b)
	}
	return buf.Bytes()
}

// logCapture records monitoring output for the duration of a test.
type logCapture struct {
	mu    sync.Mutex
	lines []string
}

func captureLogs(t *testing.T) *logCapture {
	t.Helper()
	lc := &logCapture{}
	restore := monitoring.Swap(func(format string, v ...any) {
		lc.mu.Lock()
		defer lc.mu.Unlock()
		lc.lines = append(lc.lines, fmt.Sprintf(format, v...))
	})
	t.Cleanup(restore)
	return lc
}

func (lc *logCapture) all() []string {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return append([]string(nil), lc.lines...)
}
