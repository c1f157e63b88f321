// Package pack compiles manifest records into deterministic tar
// streams and enumerates tar streams back into records.
package pack

import (
	"io"

	"github.com/jsontar/jsontar/pkg/manifest"
	"github.com/jsontar/jsontar/pkg/vars"
)

// Options configures a compilation.
type Options struct {
	// Vars is the template variable table. A nil table still fails
	// on any placeholder, never substituting empty strings.
	Vars vars.Table

	// Policy resolves duplicate directory declarations. Zero value
	// means PolicyFirst.
	Policy Policy

	// BaseDir anchors relative source paths of file records.
	// Empty means the current directory.
	BaseDir string
}

// Compile reads ND-JSON manifest records from r and writes the
// compiled tar stream to w. The pipeline is parse, substitute,
// resolve, write; any stage error aborts the whole compilation, since
// a manifest is a declarative whole. On error the caller owns
// discarding whatever was already written to w.
func Compile(r io.Reader, w io.Writer, opts Options) error {
	if opts.Policy == "" {
		opts.Policy = PolicyFirst
	}

	parsed, err := manifest.NewDecoder(r).ReadAll()
	if err != nil {
		return err
	}

	resolved := make([]manifest.Record, 0, len(parsed))
	for _, rec := range parsed {
		sub, err := Substitute(rec, opts.Vars)
		if err != nil {
			return err
		}
		resolved = append(resolved, sub)
	}

	resolved, err = Resolve(resolved, opts.Policy)
	if err != nil {
		return err
	}
	return Write(resolved, w, opts.BaseDir)
}

// Generate is the inverse of Compile: it enumerates the tar stream r
// and writes one ND-JSON record per member to w.
func Generate(r io.Reader, w io.Writer) error {
	reader := NewReader(r)
	enc := manifest.NewEncoder(w)
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
}
