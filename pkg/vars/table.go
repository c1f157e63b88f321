// Package vars builds the template variable table and expands
// ${NAME} placeholders against it.
package vars

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Table maps variable names to their substitution values. It is
// built once per invocation and read-only afterwards.
type Table map[string]string

// Define applies one KEY=VALUE flag. Redefining a key already set by
// a flag is an error; flag definitions override file definitions.
func (t Table) Define(def string) error {
	key, value, ok := strings.Cut(def, "=")
	if !ok || key == "" {
		return fmt.Errorf("invalid definition %q (want KEY=VALUE)", def)
	}
	if _, dup := t[key]; dup {
		return fmt.Errorf("duplicate definition for key %q", key)
	}
	t[key] = value
	return nil
}

// Merge copies defs over t, later definitions winning.
func (t Table) Merge(defs Table) {
	for k, v := range defs {
		t[k] = v
	}
}

// defLine matches one definition-file line: a blank or comment line,
// or NAME = VALUE where VALUE is either a JSON-quoted string or a
// bare value with an optional trailing comment.
var defLine = regexp.MustCompile(
	`^\s*(?:(?:#.*)?|(\w+)\s*=\s*(?:(".*)|(.*?)\s*(?:#.*)?))$`,
)

var trailer = regexp.MustCompile(`^\s*(?:#.*)?$`)

// Load reads a -T definitions file: KEY=VALUE lines with # comments,
// or ND-JSON objects of string values (a line starting with "{").
// Within the file, later definitions of a key win. name is used in
// error messages.
func Load(r io.Reader, name string) (Table, error) {
	table := Table{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(text), "{") {
			if err := loadObject(table, text); err != nil {
				return nil, fmt.Errorf(
					"%s line %d: %w", name, line, err,
				)
			}
			continue
		}
		if err := loadPair(table, text); err != nil {
			return nil, fmt.Errorf(
				"%s line %d: %w", name, line, err,
			)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return table, nil
}

func loadObject(table Table, text string) error {
	var defs map[string]string
	if err := json.Unmarshal([]byte(text), &defs); err != nil {
		return fmt.Errorf("invalid definition object: %w", err)
	}
	for k, v := range defs {
		table[k] = v
	}
	return nil
}

func loadPair(table Table, text string) error {
	m := defLine.FindStringSubmatch(strings.TrimRight(text, "\r"))
	if m == nil {
		return fmt.Errorf("invalid syntax")
	}
	key, quoted, bare := m[1], m[2], m[3]
	if key == "" {
		return nil // blank or comment line
	}
	if quoted != "" {
		var value string
		dec := json.NewDecoder(strings.NewReader(quoted))
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("invalid quoted value: %w", err)
		}
		if !trailer.MatchString(quoted[dec.InputOffset():]) {
			return fmt.Errorf("trailing characters after quoted value")
		}
		table[key] = value
		return nil
	}
	table[key] = bare
	return nil
}
