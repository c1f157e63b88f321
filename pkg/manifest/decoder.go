package manifest

import (
	"bufio"
	"io"
	"strings"
)

// maxLineBytes bounds a single manifest line. Inline content is
// base64 on one line, so the cap is generous.
const maxLineBytes = 64 << 20

// Decoder reads ND-JSON manifest records from a stream, one object
// per line, tracking line numbers for error context. Blank lines are
// skipped.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Decoder{scanner: sc}
}

// Next returns the next record, or io.EOF when the stream is
// exhausted.
func (d *Decoder) Next() (Record, error) {
	for d.scanner.Scan() {
		d.line++
		text := d.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		return ParseLine([]byte(text), d.line)
	}
	if err := d.scanner.Err(); err != nil {
		return Record{}, err
	}
	return Record{}, io.EOF
}

// ReadAll consumes the remaining records.
func (d *Decoder) ReadAll() ([]Record, error) {
	var recs []Record
	for {
		rec, err := d.Next()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
}
