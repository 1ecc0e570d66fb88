package common

import (
	"strings"
	"unicode"
)

// SplitCommandLineIntoArguments splits a recorded compiler command line the way the compiler
// itself would see argv, except that quotes and backslashes are kept in place:
// `/ruleset:"C:\a b\x.ruleset"` stays one token with its quotes, so a later rewrite can keep them.
//
// Rules:
//   - whitespace outside quotes separates tokens;
//   - `"` toggles quoting and is kept;
//   - a run of backslashes followed by `"` is kept, the quote toggles quoting only if the run length is even;
//   - a token that is exactly one quoted string ("a b.cs", "a\"b") is unquoted;
//   - control characters and '|' are dropped;
//   - with removeHashComments, a token starting with '#' ends the line.
func SplitCommandLineIntoArguments(commandLine string, removeHashComments bool) []string {
	line := []rune(commandLine)
	args := make([]string, 0, 16)
	var token strings.Builder

	for i := 0; i < len(line); {
		for i < len(line) && unicode.IsSpace(line[i]) {
			i++
		}
		if i == len(line) {
			break
		}
		if line[i] == '#' && removeHashComments {
			break
		}

		quoteCount := 0
		endsWithQuote := false // the last rune written is a quote that toggled quoting
		token.Reset()
		for i < len(line) && (!unicode.IsSpace(line[i]) || quoteCount%2 != 0) {
			switch c := line[i]; {
			case c == '\\':
				slashCount := 0
				for i < len(line) && line[i] == '\\' {
					token.WriteRune('\\')
					slashCount++
					i++
				}
				endsWithQuote = false
				if i < len(line) && line[i] == '"' {
					if slashCount%2 == 0 {
						quoteCount++
						endsWithQuote = true
					}
					token.WriteRune('"')
					i++
				}
			case c == '"':
				token.WriteRune(c)
				quoteCount++
				endsWithQuote = true
				i++
			case (c >= 0x1 && c <= 0x1f) || c == '|':
				i++
			default:
				token.WriteRune(c)
				endsWithQuote = false
				i++
			}
		}

		arg := token.String()
		if quoteCount == 2 && endsWithQuote && arg[0] == '"' {
			arg = arg[1 : len(arg)-1]
		}
		if arg != "" {
			args = append(args, arg)
		}
	}

	return args
}

// IsQuoted reports whether value is wrapped in a pair of double quotes with something inside.
func IsQuoted(value string) bool {
	return len(value) > 2 && value[0] == '"' && value[len(value)-1] == '"'
}

// Unquote strips one pair of surrounding double quotes, see IsQuoted.
func Unquote(value string) string {
	if IsQuoted(value) {
		return value[1 : len(value)-1]
	}
	return value
}
