package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	table := Table{
		"NAME":    "app",
		"VERSION": "1.2",
		"EMPTY":   "",
		"NESTED":  "${NAME}",
	}

	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${NAME}", "app"},
		{"${NAME}-${VERSION}.tar", "app-1.2.tar"},
		{"${NAME}${VERSION}", "app1.2"},
		{"x${EMPTY}y", "xy"},
		{`\${NAME}`, "${NAME}"},
		{`cost: \$5`, "cost: $5"},
		{"$NAME", "$NAME"},     // no braces, not a placeholder
		{"${}", "${}"},         // empty name, kept literally
		{"${NA ME}", "${NA ME}"}, // invalid name, kept literally
		{"trailing$", "trailing$"},
		{"${NESTED}", "${NAME}"}, // single pass, no re-scan
	}
	for _, tc := range cases {
		got, err := Expand(tc.in, table)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestExpandUndefined(t *testing.T) {
	_, err := Expand("${MISSING}", Table{"OTHER": "x"})
	var undef *UndefinedError
	require.ErrorAs(t, err, &undef)
	assert.Equal(t, "MISSING", undef.Name)

	// never an empty-string fallback, even with a nil table
	_, err = Expand("${X}", nil)
	assert.Error(t, err)
}

func TestExpandEscapedThenReal(t *testing.T) {
	got, err := Expand(`\${A}${A}`, Table{"A": "v"})
	require.NoError(t, err)
	assert.Equal(t, "${A}v", got)
}
