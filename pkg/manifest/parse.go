package manifest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// rawRecord mirrors the wire shape of one manifest line. Pointers
// distinguish absent fields from zero values; unknown keys are
// rejected by the decoder.
type rawRecord struct {
	Path    *string          `json:"path"`
	Kind    *string          `json:"kind"`
	Content *string          `json:"content"`
	Source  *string          `json:"source"`
	Target  *string          `json:"target"`
	Mode    *json.RawMessage `json:"mode"`
	Owner   *json.RawMessage `json:"owner"`
	Group   *json.RawMessage `json:"group"`
	Mtime   *int64           `json:"mtime"`
}

// ParseLine turns one manifest line into a Record. line is the
// 1-based line number used for error context.
func ParseLine(data []byte, line int) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw rawRecord
	if err := dec.Decode(&raw); err != nil {
		return Record{}, &ParseError{
			Kind: MalformedJSON, Line: line, Err: err,
		}
	}
	if err := trailingGarbage(dec); err != nil {
		return Record{}, &ParseError{
			Kind: MalformedJSON, Line: line, Err: err,
		}
	}

	if raw.Path == nil {
		return Record{}, &ParseError{
			Kind: MissingField, Line: line, Field: "path",
		}
	}
	if raw.Kind == nil {
		return Record{}, &ParseError{
			Kind: MissingField, Line: line, Field: "kind",
			Path: *raw.Path,
		}
	}

	kind := Kind(*raw.Kind)
	if !kind.valid() {
		return Record{}, &ParseError{
			Kind: InvalidKind, Line: line,
			Path: *raw.Path, Field: *raw.Kind,
		}
	}

	norm, ok := NormalizePath(*raw.Path)
	if !ok {
		return Record{}, &ParseError{
			Kind: UnsafePath, Line: line, Path: *raw.Path,
		}
	}

	rec := Record{
		Path: norm,
		Kind: kind,
		Mode: defaultMode(kind),
		Line: line,
	}

	if err := applyContent(&rec, &raw, line); err != nil {
		return Record{}, err
	}

	if raw.Mode != nil {
		mode, err := parseMode(*raw.Mode)
		if err != nil {
			return Record{}, &ParseError{
				Kind: InvalidField, Line: line,
				Path: rec.Path, Field: "mode", Err: err,
			}
		}
		rec.Mode = mode
	}
	if raw.Owner != nil {
		id, name, err := parseIdentity(*raw.Owner)
		if err != nil {
			return Record{}, &ParseError{
				Kind: InvalidField, Line: line,
				Path: rec.Path, Field: "owner", Err: err,
			}
		}
		rec.UID, rec.Uname = id, name
	}
	if raw.Group != nil {
		id, name, err := parseIdentity(*raw.Group)
		if err != nil {
			return Record{}, &ParseError{
				Kind: InvalidField, Line: line,
				Path: rec.Path, Field: "group", Err: err,
			}
		}
		rec.GID, rec.Gname = id, name
	}
	if raw.Mtime != nil {
		rec.Mtime = *raw.Mtime
	}

	return rec, nil
}

// applyContent enforces the per-kind content fields: files take
// content or source (or neither, for an empty file), links require a
// target, directories take none of the three.
func applyContent(rec *Record, raw *rawRecord, line int) error {
	switch rec.Kind {
	case KindFile:
		if raw.Target != nil {
			return &ParseError{
				Kind: InvalidField, Line: line,
				Path: rec.Path, Field: "target",
			}
		}
		if raw.Content != nil && raw.Source != nil {
			return &ParseError{
				Kind: InvalidField, Line: line,
				Path: rec.Path, Field: "source",
				Err:  errBothContentSource,
			}
		}
		if raw.Content != nil {
			rec.Content = *raw.Content
		}
		if raw.Source != nil {
			rec.Source = *raw.Source
		}
	case KindSymlink, KindHardlink:
		if raw.Content != nil || raw.Source != nil {
			return &ParseError{
				Kind: InvalidField, Line: line,
				Path: rec.Path, Field: "content",
			}
		}
		if raw.Target == nil || *raw.Target == "" {
			return &ParseError{
				Kind: MissingField, Line: line,
				Path: rec.Path, Field: "target",
			}
		}
		rec.Target = *raw.Target
	case KindDir:
		if raw.Content != nil || raw.Source != nil ||
			raw.Target != nil {
			return &ParseError{
				Kind: InvalidField, Line: line,
				Path: rec.Path, Field: "content",
			}
		}
	}
	return nil
}

// parseMode reads permission bits from either a JSON string or a JSON
// number. Both forms are sequences of octal digits: "0644" and 644
// mean the same thing.
func parseMode(raw json.RawMessage) (int64, error) {
	digits := strings.TrimSpace(string(raw))
	if len(digits) > 0 && digits[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		digits = s
	}
	mode, err := strconv.ParseInt(digits, 8, 32)
	if err != nil {
		return 0, err
	}
	if mode < 0 || mode > 0o7777 {
		return 0, errModeRange
	}
	return mode, nil
}

// parseIdentity reads an owner or group value: a JSON number is a
// numeric id, a JSON string is a name.
func parseIdentity(raw json.RawMessage) (int, string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return 0, "", err
		}
		return 0, name, nil
	}
	var id int
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, "", err
	}
	if id < 0 {
		return 0, "", errNegativeID
	}
	return id, "", nil
}

func trailingGarbage(dec *json.Decoder) error {
	if dec.More() {
		return errTrailingData
	}
	return nil
}
