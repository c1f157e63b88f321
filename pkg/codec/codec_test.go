package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	cases := map[string]Codec{
		"out.tar":     None,
		"out.tar.gz":  Gzip,
		"out.tgz":     Gzip,
		"out.taz":     Gzip,
		"out.tar.bz2": Bzip2,
		"out.tbz":     Bzip2,
		"out.tbz2":    Bzip2,
		"out.tz2":     Bzip2,
		"out.tar.xz":  Xz,
		"out.txz":     Xz,
		"out.tar.zst": Zstd,
		"out.tzst":    Zstd,
		"out.TAR.GZ":  Gzip,
		"out":         None,
		"":            None,
	}
	for name, want := range cases {
		assert.Equal(t, want, Detect(name), name)
	}
}

func roundTrip(t *testing.T, c Codec, payload []byte) {
	t.Helper()
	var buf bytes.Buffer

	w, err := c.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := c.NewReader(&buf)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, payload, got)
}

func TestRoundTrips(t *testing.T) {
	payload := bytes.Repeat([]byte("deterministic archive bytes "), 512)
	for _, c := range []Codec{None, Gzip, Bzip2, Xz, Zstd} {
		name := string(c)
		if name == "" {
			name = "none"
		}
		t.Run(name, func(t *testing.T) {
			roundTrip(t, c, payload)
		})
	}
}

func TestNoneIsPassThrough(t *testing.T) {
	var buf bytes.Buffer
	w, err := None.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte("raw"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "raw", buf.String())
}

func TestGzipDeterministic(t *testing.T) {
	compress := func() []byte {
		var buf bytes.Buffer
		w, err := Gzip.NewWriter(&buf)
		require.NoError(t, err)
		_, err = w.Write([]byte("same input"))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return buf.Bytes()
	}
	assert.Equal(t, compress(), compress())
}
