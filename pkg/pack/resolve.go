package pack

import (
	"fmt"

	"github.com/jsontar/jsontar/pkg/manifest"
)

// Policy selects how duplicate directory declarations are resolved.
// Duplicate non-directory paths are an error under every policy.
type Policy string

const (
	// PolicyFirst keeps the first occurrence's metadata.
	PolicyFirst Policy = "first"

	// PolicyLast keeps the last occurrence's metadata, at the
	// first occurrence's position.
	PolicyLast Policy = "last"

	// PolicyOmit drops all directory records from the output.
	PolicyOmit Policy = "omit"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyFirst, PolicyLast, PolicyOmit:
		return p, nil
	}
	return "", fmt.Errorf(
		"invalid directory policy %q (want first, last, or omit)", s,
	)
}

// Resolve applies the directory policy to substituted records,
// returning a new slice in first-seen order. Input records are not
// mutated.
func Resolve(
	recs []manifest.Record, policy Policy,
) ([]manifest.Record, error) {
	type slot struct {
		index int // position in out, -1 for omitted dirs
		isDir bool
	}
	seen := make(map[string]slot, len(recs))
	out := make([]manifest.Record, 0, len(recs))

	for _, rec := range recs {
		prev, dup := seen[rec.Path]
		isDir := rec.Kind == manifest.KindDir

		if dup {
			if !isDir || !prev.isDir {
				return nil, &ConflictError{
					Path: rec.Path, Line: rec.Line,
				}
			}
			// duplicate directory: policy decides
			if policy == PolicyLast && prev.index >= 0 {
				out[prev.index] = rec
			}
			continue
		}

		index := -1
		if !isDir || policy != PolicyOmit {
			index = len(out)
			out = append(out, rec)
		}
		seen[rec.Path] = slot{index: index, isDir: isDir}
	}
	return out, nil
}
