package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/plycloud/internal/fsutil"
	"github.com/banshee-data/plycloud/internal/monitoring"
	"github.com/banshee-data/plycloud/internal/ply"
	"github.com/banshee-data/plycloud/internal/pointcloud"
	"github.com/banshee-data/plycloud/internal/rawcloud"
	"github.com/banshee-data/plycloud/internal/version"
)

func executeCommand(t *testing.T, fsys fsutil.FileSystem, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(monitoring.Swap(nil))

	buf := new(bytes.Buffer)
	root := newRootCmd(fsys)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, fsutil.NewMemoryFileSystem(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.String()+"\n", out)
}

func TestGenerate_WritesGridPLY(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	out, err := executeCommand(t, fsys, "generate", "--width", "3", "--height", "2", "field.ply")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 6 points (3x2) to field.ply")

	data, err := fsys.ReadFile("field.ply")
	require.NoError(t, err)
	assert.Contains(t, string(data), "format ascii 1.0\n")
	assert.Contains(t, string(data), "obj_info num_cols 3\n")

	cloud, w, h, err := ply.NewCodec(fsys).Load("field.ply")
	require.NoError(t, err)
	assert.Equal(t, 6, cloud.Len())
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	p, err := cloud.At(4)
	require.NoError(t, err)
	assert.Equal(t, float32(1), p.X)
	assert.Equal(t, float32(1), p.Y)
}

func TestGenerate_BinaryNoGrid(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	_, err := executeCommand(t, fsys, "generate", "--width", "4", "--height", "4", "--binary", "--no-grid", "f.ply")
	require.NoError(t, err)

	h, err := ply.NewCodec(fsys).Inspect("f.ply")
	require.NoError(t, err)
	assert.Equal(t, ply.FormatBinaryLittleEndian, h.Format)
	assert.Equal(t, 16, h.VertexCount)
	assert.Zero(t, h.NumCols)
	assert.Zero(t, h.NumRows)
}

func TestGenerate_RawDump(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	_, err := executeCommand(t, fsys, "generate", "--width", "3", "--height", "2", "field.bin")
	require.NoError(t, err)

	cloud, w, h, err := rawcloud.Load(fsys, "field.bin", true)
	require.NoError(t, err)
	assert.Equal(t, 6, cloud.Len())
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
}

func TestGenerate_ConfigDefaults(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("plycloud.yaml", []byte("width: 4\nheight: 2\nformat: binary\n"), 0o644))

	_, err := executeCommand(t, fsys, "--config", "plycloud.yaml", "generate", "out.ply")
	require.NoError(t, err)

	h, err := ply.NewCodec(fsys).Inspect("out.ply")
	require.NoError(t, err)
	assert.Equal(t, ply.FormatBinaryLittleEndian, h.Format)
	assert.Equal(t, 8, h.VertexCount)
	assert.Equal(t, 4, h.NumCols)
	assert.Equal(t, 2, h.NumRows)
}

func TestGenerate_FlagsOverrideConfig(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("c.json", []byte(`{"width": 4, "format": "binary"}`), 0o644))

	_, err := executeCommand(t, fsys, "--config", "c.json", "generate", "--width", "2", "--height", "2", "--binary=false", "out.ply")
	require.NoError(t, err)

	h, err := ply.NewCodec(fsys).Inspect("out.ply")
	require.NoError(t, err)
	assert.True(t, h.IsASCII())
	assert.Equal(t, 4, h.VertexCount)
}

func TestGenerate_Errors(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()

	_, err := executeCommand(t, fsys, "generate", "--width", "0", "out.ply")
	assert.ErrorContains(t, err, "must be positive")

	_, err = executeCommand(t, fsys, "generate")
	assert.Error(t, err)

	_, err = executeCommand(t, fsys, "--config", "missing.yaml", "generate", "out.ply")
	assert.ErrorContains(t, err, "failed to load config")
}

func TestVerbose_LogsCodecActivity(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	out, err := executeCommand(t, fsys, "-v", "generate", "--width", "2", "--height", "2", "f.ply")
	require.NoError(t, err)
	assert.Contains(t, out, "ply: wrote 4 points to f.ply")

	out, err = executeCommand(t, fsys, "generate", "--width", "2", "--height", "2", "f.ply")
	require.NoError(t, err)
	assert.NotContains(t, out, "ply: wrote")
}

func TestInfo(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	cloud := pointcloud.FromPoints([]pointcloud.Point{
		{X: 0, Y: 0, Z: 1},
		pointcloud.Missing(),
		{X: 2, Y: -1, Z: 3},
	})
	require.NoError(t, ply.NewCodec(fsys).Save(cloud, "scan.ply", true, 3, 1))

	out, err := executeCommand(t, fsys, "info", "scan.ply")
	require.NoError(t, err)
	for _, want := range []string{"scan.ply", "ascii", "3x1", "missing", "0 -1 1", "2 0 3"} {
		assert.Contains(t, out, want)
	}

	assert.Regexp(t, regexp.MustCompile(`missing[^\n]*\s1\n`), out)
}

func TestInfo_MissingFile(t *testing.T) {
	_, err := executeCommand(t, fsutil.NewMemoryFileSystem(), "info", "nope.ply")
	assert.Error(t, err)
}

func TestConvert_Transforms(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	cloud := pointcloud.FromPoints([]pointcloud.Point{{X: 1, Y: 2, Z: 3}, {X: -1, Y: 0, Z: 5}})
	require.NoError(t, ply.NewCodec(fsys).Save(cloud, "in.ply", true, 2, 1))

	out, err := executeCommand(t, fsys, "convert", "--scale", "2,2,2", "--shift", "1,0,0", "--flatten", "in.ply", "out.ply")
	require.NoError(t, err)
	assert.Contains(t, out, "converted 2 points")

	got, w, h, err := ply.NewCodec(fsys).Load("out.ply")
	require.NoError(t, err)
	assert.Equal(t, []pointcloud.Point{{X: 3, Y: 4, Z: 0}, {X: -1, Y: 0, Z: 0}}, got.Points())
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)
}

func TestConvert_SuppressPlane(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	cloud := pointcloud.FromPoints([]pointcloud.Point{{X: -1, Y: 0, Z: 7}, {X: 1, Y: 0, Z: 7}})
	require.NoError(t, ply.NewCodec(fsys).Save(cloud, "in.ply", true, 0, 0))

	_, err := executeCommand(t, fsys, "convert", "--suppress-plane", "1,0,0,0", "--suppress-level=-2", "in.ply", "out.ply")
	require.NoError(t, err)

	got, _, _, err := ply.NewCodec(fsys).Load("out.ply")
	require.NoError(t, err)
	assert.Equal(t, []pointcloud.Point{{X: -1, Y: 0, Z: -2}, {X: 1, Y: 0, Z: 7}}, got.Points())
}

func TestConvert_BinaryAndRaw(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	cloud := pointcloud.FromPoints([]pointcloud.Point{{X: 1, Y: 2, Z: 3}})
	require.NoError(t, ply.NewCodec(fsys).Save(cloud, "in.ply", true, 1, 1))

	_, err := executeCommand(t, fsys, "convert", "--binary", "--no-grid", "in.ply", "out.ply")
	require.NoError(t, err)
	h, err := ply.NewCodec(fsys).Inspect("out.ply")
	require.NoError(t, err)
	assert.False(t, h.IsASCII())
	assert.Zero(t, h.NumCols)

	_, err = executeCommand(t, fsys, "convert", "in.ply", "out.bin")
	require.NoError(t, err)
	raw, w, ht, err := rawcloud.Load(fsys, "out.bin", true)
	require.NoError(t, err)
	assert.Equal(t, []pointcloud.Point{{X: 1, Y: 2, Z: 3}}, raw.Points())
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, ht)
}

func TestConvert_RawInput(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	pts := []pointcloud.Point{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}}
	require.NoError(t, rawcloud.Save(fsys, pointcloud.FromPoints(pts), "grid.bin", 2, 1))
	require.NoError(t, rawcloud.Save(fsys, pointcloud.FromPoints(pts), "bare.bin", 0, 0))

	_, err := executeCommand(t, fsys, "convert", "--grid-prefix", "grid.bin", "grid.ply")
	require.NoError(t, err)
	got, w, h, err := ply.NewCodec(fsys).Load("grid.ply")
	require.NoError(t, err)
	assert.Equal(t, pts, got.Points())
	assert.Equal(t, 2, w)
	assert.Equal(t, 1, h)

	_, err = executeCommand(t, fsys, "convert", "--shift", "0,0,1", "bare.bin", "bare.ply")
	require.NoError(t, err)
	got, w, h, err = ply.NewCodec(fsys).Load("bare.ply")
	require.NoError(t, err)
	assert.Equal(t, []pointcloud.Point{{X: 1, Y: 2, Z: 4}, {X: 4, Y: 5, Z: 7}}, got.Points())
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestConvert_RawInputTruncated(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, fsys.WriteFile("short.bin", make([]byte, 13), 0o644))

	_, err := executeCommand(t, fsys, "convert", "short.bin", "out.ply")
	assert.ErrorIs(t, err, rawcloud.ErrTruncated)
}

func TestConvert_BadVectorLength(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, ply.NewCodec(fsys).Save(pointcloud.New(), "in.ply", true, 0, 0))

	_, err := executeCommand(t, fsys, "convert", "--rotate", "1,2", "in.ply", "out.ply")
	assert.ErrorContains(t, err, "--rotate needs 3 values, got 2")

	_, err = executeCommand(t, fsys, "convert", "--suppress-plane", "0,0,1", "in.ply", "out.ply")
	assert.ErrorContains(t, err, "--suppress-plane needs 4 values")
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "field.ply")
	png := filepath.Join(dir, "field.png")

	_, err := executeCommand(t, fsutil.OSFileSystem{}, "generate", "--width", "8", "--height", "8", in)
	require.NoError(t, err)

	out, err := executeCommand(t, fsutil.OSFileSystem{}, "plot", "--width", "2", "--height", "2", in, png)
	require.NoError(t, err)
	assert.Contains(t, out, "plotted 64 points")

	st, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}

func TestPlot_RawInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "field.bin")
	png := filepath.Join(dir, "field.png")

	_, err := executeCommand(t, fsutil.OSFileSystem{}, "generate", "--width", "4", "--height", "4", in)
	require.NoError(t, err)

	out, err := executeCommand(t, fsutil.OSFileSystem{}, "plot", "--grid-prefix", "--width", "2", "--height", "2", in, png)
	require.NoError(t, err)
	assert.Contains(t, out, "plotted 16 points")

	st, err := os.Stat(png)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}
