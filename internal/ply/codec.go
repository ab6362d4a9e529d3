package ply

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/banshee-data/plycloud/internal/fsutil"
	"github.com/banshee-data/plycloud/internal/monitoring"
	"github.com/banshee-data/plycloud/internal/pointcloud"
)

// Codec loads and saves PLY files through a FileSystem.
type Codec struct {
	FS fsutil.FileSystem
}

// NewCodec returns a codec backed by fsys.
func NewCodec(fsys fsutil.FileSystem) *Codec {
	return &Codec{FS: fsys}
}

var defaultCodec = NewCodec(fsutil.OSFileSystem{})

// Load reads the PLY file at path from the OS filesystem.
func Load(path string) (*pointcloud.Cloud, int, int, error) {
	return defaultCodec.Load(path)
}

// Save writes cloud to path on the OS filesystem.
func Save(cloud *pointcloud.Cloud, path string, ascii bool, width, height int) error {
	return defaultCodec.Save(cloud, path, ascii, width, height)
}

// Inspect reads only the header of the PLY file at path.
func Inspect(path string) (Header, error) {
	return defaultCodec.Inspect(path)
}

// compression is the container wrapped around a PLY stream, chosen by the
// file extension.
type compression int

const (
	compressNone compression = iota
	compressGzip
	compressZstd
)

func compressionFor(path string) compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return compressGzip
	case ".zst", ".zstd":
		return compressZstd
	default:
		return compressNone
	}
}

// Load reads and decodes the PLY file at path. Compressed files are
// inflated into memory first so the body can still be located by offset.
func (c *Codec) Load(path string) (*pointcloud.Cloud, int, int, error) {
	f, err := c.FS.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	src, err := openSource(f, compressionFor(path))
	if err != nil {
		return nil, 0, 0, err
	}

	cloud, width, height, err := Decode(src)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%s: %w", path, err)
	}
	monitoring.Logf("ply: loaded %d points from %s (grid %dx%d)", cloud.Len(), path, width, height)
	return cloud, width, height, nil
}

// Inspect parses only the header of the file at path.
func (c *Codec) Inspect(path string) (Header, error) {
	f, err := c.FS.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	src, err := openSource(f, compressionFor(path))
	if err != nil {
		return Header{}, err
	}
	h, err := ParseHeader(src)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Save encodes cloud to path. A failure part way through leaves a truncated
// file behind.
func (c *Codec) Save(cloud *pointcloud.Cloud, path string, ascii bool, width, height int) (err error) {
	f, err := c.FS.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrIO, path, cerr)
		}
	}()

	w, finish, err := wrapSink(f, compressionFor(path))
	if err != nil {
		return err
	}
	if err := Encode(w, cloud, ascii, width, height); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := finish(); err != nil {
		return fmt.Errorf("%w: finish %s: %w", ErrIO, path, err)
	}
	monitoring.Logf("ply: wrote %d points to %s", cloud.Len(), path)
	return nil
}

func openSource(f fsutil.File, comp compression) (io.ReadSeeker, error) {
	var (
		data []byte
		err  error
	)
	switch comp {
	case compressNone:
		return f, nil
	case compressGzip:
		var zr *gzip.Reader
		if zr, err = gzip.NewReader(f); err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrIO, err)
		}
		defer zr.Close()
		data, err = io.ReadAll(zr)
	case compressZstd:
		var dec *zstd.Decoder
		if dec, err = zstd.NewReader(f); err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrIO, err)
		}
		defer dec.Close()
		data, err = io.ReadAll(dec)
	default:
		return nil, errors.New("ply: unknown compression")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrIO, err)
	}
	return bytes.NewReader(data), nil
}

func wrapSink(w io.Writer, comp compression) (io.Writer, func() error, error) {
	switch comp {
	case compressGzip:
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	case compressZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: zstd: %w", ErrIO, err)
		}
		return enc, enc.Close, nil
	default:
		return w, func() error { return nil }, nil
	}
}
