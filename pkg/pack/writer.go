package pack

import (
	"archive/tar"
	"fmt"
	"io"
	"time"

	"github.com/jsontar/jsontar/pkg/manifest"
)

// Write serializes resolved records to w as a PAX tar stream, one
// header plus payload per record, in input order. Output is a pure
// function of the records: absent metadata was defaulted at parse
// time and no wall-clock or machine state leaks in.
func Write(
	recs []manifest.Record, w io.Writer, baseDir string,
) error {
	tw := tar.NewWriter(w)
	for _, rec := range recs {
		if err := writeRecord(tw, rec, baseDir); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("terminate archive: %w", err)
	}
	return nil
}

func writeRecord(
	tw *tar.Writer, rec manifest.Record, baseDir string,
) error {
	hdr := &tar.Header{
		Format:  tar.FormatPAX,
		Name:    rec.Path,
		Mode:    rec.Mode,
		Uid:     rec.UID,
		Gid:     rec.GID,
		Uname:   rec.Uname,
		Gname:   rec.Gname,
		ModTime: time.Unix(rec.Mtime, 0).UTC(),
	}

	switch rec.Kind {
	case manifest.KindDir:
		hdr.Typeflag = tar.TypeDir
		hdr.Name += "/"
	case manifest.KindSymlink:
		hdr.Typeflag = tar.TypeSymlink
		hdr.Linkname = rec.Target
	case manifest.KindHardlink:
		hdr.Typeflag = tar.TypeLink
		hdr.Linkname = rec.Target
	case manifest.KindFile:
		src, err := openContent(rec, baseDir)
		if err != nil {
			return &WriteError{Path: rec.Path, Err: err}
		}
		return writeFile(tw, hdr, rec.Path, src)
	default:
		return &WriteError{
			Path: rec.Path,
			Err:  fmt.Errorf("unknown record kind %q", rec.Kind),
		}
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return &WriteError{Path: rec.Path, Err: err}
	}
	return nil
}

// writeFile emits a regular-file header and streams the payload,
// verifying the byte count against the declared size.
func writeFile(
	tw *tar.Writer, hdr *tar.Header, path string, src ContentSource,
) error {
	hdr.Typeflag = tar.TypeReg
	hdr.Size = src.Size()

	if err := tw.WriteHeader(hdr); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	f, err := src.Open()
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	n, copyErr := io.Copy(tw, f)
	closeErr := f.Close()

	if copyErr != nil {
		if copyErr == tar.ErrWriteTooLong {
			copyErr = ErrLengthMismatch
		}
		return &WriteError{Path: path, Err: copyErr}
	}
	if closeErr != nil {
		return &WriteError{Path: path, Err: closeErr}
	}
	if n != hdr.Size {
		return &WriteError{Path: path, Err: ErrLengthMismatch}
	}
	return nil
}
