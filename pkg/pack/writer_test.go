package pack

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsontar/jsontar/pkg/manifest"
)

type member struct {
	hdr  tar.Header
	body string
}

func readTar(t *testing.T, data []byte) []member {
	t.Helper()
	tr := tar.NewReader(bytes.NewReader(data))
	var out []member
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		body, err := io.ReadAll(tr)
		require.NoError(t, err)
		out = append(out, member{hdr: *hdr, body: string(body)})
	}
}

func TestWriteMembers(t *testing.T) {
	recs := []manifest.Record{
		{
			Path: "etc", Kind: manifest.KindDir,
			Mode: 0755, Mtime: 100,
		},
		{
			Path: "etc/motd", Kind: manifest.KindFile,
			Content: "welcome\n", Mode: 0644,
			UID: 1000, Uname: "build",
		},
		{
			Path: "etc/issue", Kind: manifest.KindSymlink,
			Target: "motd", Mode: 0777,
		},
		{
			Path: "etc/motd.hard", Kind: manifest.KindHardlink,
			Target: "etc/motd", Mode: 0644,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(recs, &buf, ""))

	got := readTar(t, buf.Bytes())
	require.Len(t, got, 4)

	assert.Equal(t, "etc/", got[0].hdr.Name)
	assert.Equal(t, byte(tar.TypeDir), got[0].hdr.Typeflag)
	assert.Equal(t, int64(0755), got[0].hdr.Mode)
	assert.Equal(t, time.Unix(100, 0).UTC(), got[0].hdr.ModTime)

	assert.Equal(t, "etc/motd", got[1].hdr.Name)
	assert.Equal(t, "welcome\n", got[1].body)
	assert.Equal(t, 1000, got[1].hdr.Uid)
	assert.Equal(t, "build", got[1].hdr.Uname)
	assert.Equal(t, time.Unix(0, 0).UTC(), got[1].hdr.ModTime)

	assert.Equal(t, byte(tar.TypeSymlink), got[2].hdr.Typeflag)
	assert.Equal(t, "motd", got[2].hdr.Linkname)
	assert.Empty(t, got[2].body)

	assert.Equal(t, byte(tar.TypeLink), got[3].hdr.Typeflag)
	assert.Equal(t, "etc/motd", got[3].hdr.Linkname)
}

func TestWriteBase64Content(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write([]manifest.Record{{
		Path: "bin/blob", Kind: manifest.KindFile,
		Content: "base64:aGVsbG8=", Mode: 0755,
	}}, &buf, ""))

	got := readTar(t, buf.Bytes())
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].body)
}

func TestWriteSourceFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "payload"), []byte("from disk"), 0644))

	var buf bytes.Buffer
	require.NoError(t, Write([]manifest.Record{{
		Path: "data", Kind: manifest.KindFile,
		Source: "payload", Mode: 0644,
	}}, &buf, dir))

	got := readTar(t, buf.Bytes())
	require.Len(t, got, 1)
	assert.Equal(t, "from disk", got[0].body)
}

func TestWriteSourceMissing(t *testing.T) {
	var buf bytes.Buffer
	err := Write([]manifest.Record{{
		Path: "data", Kind: manifest.KindFile,
		Source: "no/such/file", Mode: 0644,
	}}, &buf, t.TempDir())

	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, "data", werr.Path)
}

type fakeSource struct {
	data []byte
	size int64
}

func (s *fakeSource) Size() int64 { return s.size }

func (s *fakeSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func TestWriteLengthMismatch(t *testing.T) {
	// source declares more bytes than it produces
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	err := writeFile(tw, &tar.Header{
		Format: tar.FormatPAX, Name: "short", Mode: 0644,
		ModTime: time.Unix(0, 0).UTC(),
	}, "short", &fakeSource{data: []byte("ab"), size: 5})

	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	// source produces more bytes than it declares
	buf.Reset()
	tw = tar.NewWriter(&buf)
	err = writeFile(tw, &tar.Header{
		Format: tar.FormatPAX, Name: "long", Mode: 0644,
		ModTime: time.Unix(0, 0).UTC(),
	}, "long", &fakeSource{data: []byte("abcdef"), size: 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestWriteDeterministic(t *testing.T) {
	recs := []manifest.Record{
		{Path: "d", Kind: manifest.KindDir, Mode: 0755},
		{
			Path: "d/f", Kind: manifest.KindFile,
			Content: "stable", Mode: 0644,
		},
	}

	var a, b bytes.Buffer
	require.NoError(t, Write(recs, &a, ""))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, Write(recs, &b, ""))
	assert.Equal(t, a.Bytes(), b.Bytes())
}
