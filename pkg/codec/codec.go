// Package codec wraps the archive byte stream in a compression
// filter. The compiler itself is agnostic to compression; codecs are
// pure pass-through byte filters applied outside the writer/reader
// boundary.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

type Codec string

const (
	None  Codec = ""
	Gzip  Codec = "gzip"
	Bzip2 Codec = "bzip2"
	Xz    Codec = "xz"
	Zstd  Codec = "zstd"
)

var suffixes = map[string]Codec{
	".gz":   Gzip,
	".tgz":  Gzip,
	".taz":  Gzip,
	".bz2":  Bzip2,
	".tbz":  Bzip2,
	".tbz2": Bzip2,
	".tz2":  Bzip2,
	".xz":   Xz,
	".txz":  Xz,
	".zst":  Zstd,
	".tzst": Zstd,
}

// Detect picks a codec from a filename suffix. Unknown suffixes mean
// no compression.
func Detect(filename string) Codec {
	ext := strings.ToLower(filepath.Ext(filename))
	return suffixes[ext]
}

// NewWriter wraps w in the codec's compressor. The returned writer
// must be closed to flush the stream; closing it does not close w.
func (c Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Bzip2:
		return bzip2.NewWriter(w, nil)
	case Xz:
		return xz.NewWriter(w)
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	}
	return nil, fmt.Errorf("unknown codec %q", c)
}

// NewReader wraps r in the codec's decompressor.
func (c Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		return gzip.NewReader(r)
	case Bzip2:
		return bzip2.NewReader(r, nil)
	case Xz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	}
	return nil, fmt.Errorf("unknown codec %q", c)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
