package vars

import "fmt"

// UndefinedError reports a placeholder referencing a name absent from
// the table. Substitution never falls back to an empty string.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// Expand replaces each ${NAME} placeholder in s with its table value.
// A backslash escapes a dollar sign (`\${NAME}` stays literal, minus
// the backslash). The scan is a single pass: substituted values are
// not re-scanned, so expansion always terminates.
func Expand(s string, t Table) (string, error) {
	var out []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && s[i+1] == '$' {
			out = append(out, '$')
			i++
			continue
		}
		if c != '$' || i+1 >= len(s) || s[i+1] != '{' {
			out = append(out, c)
			continue
		}
		name, end := scanName(s, i+2)
		if end < 0 {
			// not a well-formed placeholder, keep literally
			out = append(out, c)
			continue
		}
		value, ok := t[name]
		if !ok {
			return "", &UndefinedError{Name: name}
		}
		out = append(out, value...)
		i = end
	}
	return string(out), nil
}

// scanName reads the NAME} portion starting at i. It returns the name
// and the index of the closing brace, or -1 when the text is not a
// placeholder.
func scanName(s string, i int) (string, int) {
	start := i
	for ; i < len(s); i++ {
		c := s[i]
		if c == '}' {
			if i == start {
				return "", -1
			}
			return s[start:i], i
		}
		if !wordByte(c) {
			return "", -1
		}
	}
	return "", -1
}

func wordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
