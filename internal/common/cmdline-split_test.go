package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommandLineIntoArguments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		commandLine string
		want        []string
	}{
		{"quotes inside a switch are kept", `/ruleset:"C:\Orig\rules.xml" /nowarn`, []string{`/ruleset:"C:\Orig\rules.xml"`, "/nowarn"}},
		{"whole quoted token is unquoted", `"a b.cs" c.cs`, []string{"a b.cs", "c.cs"}},
		{"extra whitespace", "  a.cs \t\n b.cs  ", []string{"a.cs", "b.cs"}},
		{"escaped quote doesn't toggle", `a\"b c`, []string{`a\"b`, "c"}},
		{"even backslashes before quote", `"C:\dir\\" next`, []string{`C:\dir\\`, "next"}},
		{"pipe is dropped", "x|y", []string{"xy"}},
		{"hash is not a comment", "a#b #c", []string{"a#b", "#c"}},
		{"escaped quote inside a quoted token", `"a\"b" "c d" x`, []string{`a\"b`, "c d", "x"}},
		{"escaped quote after a quoted string", `"ab"\" y`, []string{`"ab"\"`, "y"}},
		{"two quoted strings are kept", `"a"b"c" z`, []string{`"a"b"c"`, "z"}},
		{"quoted spaces inside a switch", `/out:"C:\My Out\a.dll" a.cs`, []string{`/out:"C:\My Out\a.dll"`, "a.cs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCommandLineIntoArguments(tt.commandLine, false))
		})
	}
}

func TestSplitCommandLineIntoArgumentsHashComments(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a#b"}, SplitCommandLineIntoArguments("a#b #c d", true))
	assert.Empty(t, SplitCommandLineIntoArguments("", false))
	assert.Empty(t, SplitCommandLineIntoArguments("   ", false))
}

func TestIsQuoted(t *testing.T) {
	t.Parallel()
	assert.True(t, IsQuoted(`"a"`))
	assert.True(t, IsQuoted(`"C:\a b\c.xml"`))
	assert.False(t, IsQuoted(`""`))
	assert.False(t, IsQuoted(`"`))
	assert.False(t, IsQuoted(`"abc`))
	assert.False(t, IsQuoted(`abc"`))

	assert.Equal(t, "abc", Unquote(`"abc"`))
	assert.Equal(t, `"abc`, Unquote(`"abc`))
}
