package pack

import (
	"errors"

	"github.com/jsontar/jsontar/pkg/manifest"
	"github.com/jsontar/jsontar/pkg/vars"
)

// Substitute expands ${NAME} placeholders in the path, target, and
// source fields of rec against table, returning a new record. Inline
// content is payload and passes through untouched. The expanded path
// is re-validated: a variable must not expand a path out of the
// archive root.
func Substitute(
	rec manifest.Record, table vars.Table,
) (manifest.Record, error) {
	out := rec

	path, err := expandField(rec, rec.Path, table)
	if err != nil {
		return manifest.Record{}, err
	}
	norm, ok := manifest.NormalizePath(path)
	if !ok {
		return manifest.Record{}, &manifest.ParseError{
			Kind: manifest.UnsafePath,
			Line: rec.Line,
			Path: path,
		}
	}
	out.Path = norm

	if out.Target, err = expandField(rec, rec.Target, table); err != nil {
		return manifest.Record{}, err
	}
	if out.Source, err = expandField(rec, rec.Source, table); err != nil {
		return manifest.Record{}, err
	}
	return out, nil
}

func expandField(
	rec manifest.Record, s string, table vars.Table,
) (string, error) {
	expanded, err := vars.Expand(s, table)
	if err != nil {
		var undef *vars.UndefinedError
		if errors.As(err, &undef) {
			return "", &SubstitutionError{
				Name: undef.Name,
				Path: rec.Path,
				Line: rec.Line,
			}
		}
		return "", err
	}
	return expanded, nil
}
