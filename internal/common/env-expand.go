package common

import (
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// ExpandEnv expands $VAR and ${VAR} references in value like a shell here-document would
// (quotes are literal, a backslash only escapes '$', '`' and '\').
// Referencing an unset variable is an error: a mapping target silently collapsing to "" would point anywhere.
func ExpandEnv(value string, lookupEnv func(string) (string, bool)) (string, error) {
	if !strings.ContainsRune(value, '$') {
		return value, nil
	}

	word, err := syntax.NewParser().Document(strings.NewReader(value))
	if err != nil {
		return "", fmt.Errorf("can't parse %q: %w", value, err)
	}

	cfg := &expand.Config{
		Env:     lookupEnviron(lookupEnv),
		NoUnset: true,
	}
	expanded, err := expand.Document(cfg, word)
	if err != nil {
		return "", fmt.Errorf("can't expand %q: %w", value, err)
	}
	return expanded, nil
}

// lookupEnviron tells set-but-empty variables from unset ones, which expand.FuncEnviron can't.
// Only parameters written in the word are checked against NoUnset, shell internals like IFS are asked for but stay optional.
type lookupEnviron func(string) (string, bool)

func (f lookupEnviron) Get(name string) expand.Variable {
	value, ok := f(name)
	if !ok {
		return expand.Variable{}
	}
	return expand.Variable{Set: true, Exported: true, Kind: expand.String, Str: value}
}

func (f lookupEnviron) Each(func(name string, vr expand.Variable) bool) {}

// ExpandPathMappingTargets expands env references in To of every mapping, taking values from the process env.
// From is left as-is: it describes the machine the invocation was recorded on, not this one.
func ExpandPathMappingTargets(mappings []PathMapping) ([]PathMapping, error) {
	expanded := make([]PathMapping, 0, len(mappings))
	for _, mapping := range mappings {
		to, err := ExpandEnv(mapping.To, os.LookupEnv)
		if err != nil {
			return nil, fmt.Errorf("path mapping %q: %w", mapping.From, err)
		}
		expanded = append(expanded, PathMapping{From: mapping.From, To: to})
	}
	return expanded, nil
}
