package replay

import (
	"strings"

	"compreplay/internal/common"
)

// pathBearingSwitches are switches whose value is a file the parser itself opens,
// so it must point into the current environment before parsing.
// Other paths (sources, references) are only recorded by the parser and remapped afterward.
var pathBearingSwitches = []string{"/ruleset:", "-ruleset:"}

// RewriteArguments remaps values of path-bearing switches in tokens, keeping their quoting.
// All other tokens are copied as is.
func RewriteArguments(tokens []string, mapPath func(string) string) []string {
	rewritten := make([]string, 0, len(tokens))
	for _, token := range tokens {
		rewritten = append(rewritten, rewriteToken(token, mapPath))
	}
	return rewritten
}

// RewriteCommandLine splits a recorded command line (a '#' is not a comment) and rewrites it.
func RewriteCommandLine(commandLine string, mapPath func(string) string) []string {
	return RewriteArguments(common.SplitCommandLineIntoArguments(commandLine, false), mapPath)
}

func rewriteToken(token string, mapPath func(string) string) string {
	for _, prefix := range pathBearingSwitches {
		if len(token) < len(prefix) || !strings.EqualFold(token[:len(prefix)], prefix) {
			continue
		}

		value := token[len(prefix):]
		if common.IsQuoted(value) {
			return token[:len(prefix)] + `"` + mapPath(common.Unquote(value)) + `"`
		}
		return token[:len(prefix)] + mapPath(value)
	}
	return token
}
