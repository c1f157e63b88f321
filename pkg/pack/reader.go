package pack

import (
	"archive/tar"
	"fmt"
	"io"
	"strings"

	"github.com/jsontar/jsontar/pkg/manifest"
)

// Reader enumerates the members of a tar stream as manifest records.
// It is a finite, single-pass iterator: records come out lazily in
// archive order and the stream cannot be rewound.
type Reader struct {
	tr     *tar.Reader
	member int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{tr: tar.NewReader(r), member: -1}
}

// Next returns the record for the next archive member, or io.EOF
// after the last one. File payloads are captured inline, sized to the
// recorded length; no partial record is ever returned.
func (r *Reader) Next() (manifest.Record, error) {
	for {
		hdr, err := r.tr.Next()
		if err == io.EOF {
			return manifest.Record{}, io.EOF
		}
		r.member++
		if err != nil {
			return manifest.Record{}, &ReadError{
				Member: r.member,
				Err:    fmt.Errorf("%w: %v", ErrCorruptArchive, err),
			}
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		return r.record(hdr)
	}
}

func (r *Reader) record(hdr *tar.Header) (manifest.Record, error) {
	rec := manifest.Record{
		Path:  strings.TrimSuffix(hdr.Name, "/"),
		Mode:  hdr.Mode & 0o7777,
		UID:   hdr.Uid,
		GID:   hdr.Gid,
		Uname: hdr.Uname,
		Gname: hdr.Gname,
		Mtime: hdr.ModTime.Unix(),
	}

	switch hdr.Typeflag {
	case tar.TypeReg:
		rec.Kind = manifest.KindFile
		data, err := io.ReadAll(r.tr)
		if err != nil {
			return manifest.Record{}, &ReadError{
				Member: r.member,
				Path:   rec.Path,
				Err:    fmt.Errorf("%w: %v", ErrCorruptArchive, err),
			}
		}
		if int64(len(data)) != hdr.Size {
			return manifest.Record{}, &ReadError{
				Member: r.member,
				Path:   rec.Path,
				Err:    fmt.Errorf("%w: truncated payload", ErrCorruptArchive),
			}
		}
		rec.Content = encodeContent(data)
	case tar.TypeDir:
		rec.Kind = manifest.KindDir
	case tar.TypeSymlink:
		rec.Kind = manifest.KindSymlink
		rec.Target = hdr.Linkname
	case tar.TypeLink:
		rec.Kind = manifest.KindHardlink
		rec.Target = hdr.Linkname
	default:
		return manifest.Record{}, &ReadError{
			Member: r.member,
			Path:   rec.Path,
			Err: fmt.Errorf(
				"%w: typeflag %q", ErrUnsupportedEntryType,
				hdr.Typeflag,
			),
		}
	}
	return rec, nil
}
