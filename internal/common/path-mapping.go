package common

import (
	"os"
	"strings"
)

// PathMapping is one rule translating a path from the machine an invocation was recorded on
// to the machine it is replayed on. From and To are directories or files.
type PathMapping struct {
	From string `json:"From" toml:"From"`
	To   string `json:"To" toml:"To"`
}

// PathMapper applies an ordered list of PathMapping rules.
// The first matching rule wins: a rule listed earlier beats a more specific one listed later.
// When nothing matches, the path is returned as-is, so that files outside the recorded build root
// (shared SDKs, reference packs) keep pointing where they already point.
//
// Mapping is not re-entrant on its own output: if a To target itself matches a later From,
// mapping an already mapped path again may move it further. Callers must map every path once.
type PathMapper struct {
	mappings            []PathMapping
	normalizeSeparators bool
}

func MakePathMapper(mappings []PathMapping, normalizeSeparators bool) PathMapper {
	return PathMapper{
		mappings:            append([]PathMapping(nil), mappings...),
		normalizeSeparators: normalizeSeparators,
	}
}

func (mapper PathMapper) Mappings() []PathMapping {
	return append([]PathMapping(nil), mapper.mappings...)
}

// Map never fails; see PathMapper for matching rules.
func (mapper PathMapper) Map(path string) string {
	for _, mapping := range mapper.mappings {
		if strings.EqualFold(path, mapping.From) {
			return mapping.To
		}

		fromDir := withTrailingSeparator(mapping.From)
		if len(path) < len(fromDir) || !strings.EqualFold(path[:len(fromDir)], fromDir) {
			continue
		}

		relative := strings.TrimLeft(path[len(fromDir):], `/\`)
		toDir := withTrailingSeparator(mapping.To)
		if mapper.normalizeSeparators {
			relative = replaceSeparators(relative, separatorOf(toDir))
		}
		return toDir + relative
	}

	return path
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}

// separatorOf returns the last separator used in p, or the host separator if p has none.
func separatorOf(p string) byte {
	if idx := strings.LastIndexAny(p, `/\`); idx != -1 {
		return p[idx]
	}
	return os.PathSeparator
}

func withTrailingSeparator(p string) string {
	if len(p) > 0 && isSeparator(p[len(p)-1]) {
		return p
	}
	return p + string(separatorOf(p))
}

func replaceSeparators(p string, sep byte) string {
	if sep == '/' {
		return strings.ReplaceAll(p, `\`, "/")
	}
	return strings.ReplaceAll(p, "/", `\`)
}
