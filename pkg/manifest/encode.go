package manifest

import (
	"encoding/json"
	"fmt"
	"io"
)

// wireRecord is the output shape of one ND-JSON line. Mode is always
// emitted as an octal string so the line re-parses to the same
// record.
type wireRecord struct {
	Path    string `json:"path"`
	Kind    Kind   `json:"kind"`
	Content string `json:"content,omitempty"`
	Source  string `json:"source,omitempty"`
	Target  string `json:"target,omitempty"`
	Mode    string `json:"mode"`
	Owner   any    `json:"owner,omitempty"`
	Group   any    `json:"group,omitempty"`
	Mtime   int64  `json:"mtime,omitempty"`
}

// Encoder writes records as ND-JSON, one line per record.
type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) Encode(rec Record) error {
	wire := wireRecord{
		Path:    rec.Path,
		Kind:    rec.Kind,
		Content: rec.Content,
		Source:  rec.Source,
		Target:  rec.Target,
		Mode:    fmt.Sprintf("%04o", rec.Mode),
		Mtime:   rec.Mtime,
	}
	wire.Owner = identityValue(rec.UID, rec.Uname)
	wire.Group = identityValue(rec.GID, rec.Gname)

	data, err := json.Marshal(wire)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}

func identityValue(id int, name string) any {
	if name != "" {
		return name
	}
	if id != 0 {
		return id
	}
	return nil
}
