package pack

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsontar/jsontar/pkg/manifest"
)

// base64Prefix marks inline content carrying base64-encoded bytes.
const base64Prefix = "base64:"

// ContentSource provides the payload bytes for one file record. Size
// is fixed before writing; the writer verifies the bytes actually
// produced against it.
type ContentSource interface {
	Size() int64
	Open() (io.ReadCloser, error)
}

type bytesSource []byte

func (s bytesSource) Size() int64 { return int64(len(s)) }

func (s bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s)), nil
}

type fileSource struct {
	path string
	size int64
}

func (s *fileSource) Size() int64 { return s.size }

func (s *fileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

// openContent builds the ContentSource for a file record: inline
// bytes (literal or base64), an external path resolved against
// baseDir, or an empty payload when the record carries neither.
func openContent(
	rec manifest.Record, baseDir string,
) (ContentSource, error) {
	if rec.Source != "" {
		path := rec.Source
		if baseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf(
				"source %q is not a regular file", rec.Source,
			)
		}
		return &fileSource{path: path, size: info.Size()}, nil
	}

	if strings.HasPrefix(rec.Content, base64Prefix) {
		data, err := base64.StdEncoding.DecodeString(
			rec.Content[len(base64Prefix):],
		)
		if err != nil {
			return nil, fmt.Errorf("decode inline content: %w", err)
		}
		return bytesSource(data), nil
	}
	return bytesSource(rec.Content), nil
}

// encodeContent is the inverse of openContent for generate mode:
// archive payload bytes become inline base64 content. Empty payloads
// stay empty.
func encodeContent(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	return base64Prefix + base64.StdEncoding.EncodeToString(data)
}
