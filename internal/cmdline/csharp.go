package cmdline

import (
	"strconv"
	"strings"
)

// CSharpParser parses csc command lines.
type CSharpParser struct{}

var csharpDialect = &dialect{
	language:               "C#",
	scriptExtension:        ".csx",
	defaultLanguageVersion: "default",
	defaultWarningLevel:    4,
	parseReferences:        parseCSharpReferences,
	parseDefines:           parseCSharpDefines,
	parseSpecificSwitch:    parseCSharpSwitch,
}

func (CSharpParser) Parse(args []string, baseDirectory string, interactive bool, sdkDirectory string) (*ParsedInvocation, error) {
	return parseCommandLine(csharpDialect, args, baseDirectory, interactive, sdkDirectory)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c > 0x7f || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}

// parseCSharpReferences handles /r:a.dll;b.dll and the aliased form /r:alias=a.dll (exactly one file then).
func parseCSharpReferences(state *parseState, sw commandLineSwitch) ([]CommandLineReference, error) {
	value := unquoteValue(sw.value)
	if eq := strings.IndexByte(value, '='); eq > 0 {
		aliases := strings.Split(value[:eq], ",")
		valid := true
		for i := range aliases {
			aliases[i] = strings.TrimSpace(aliases[i])
			valid = valid && isIdentifier(aliases[i])
		}
		if valid {
			fileName := strings.TrimSpace(value[eq+1:])
			if fileName == "" || strings.ContainsAny(fileName, ",;") {
				return nil, newParseError(sw.arg, "an aliased reference must name exactly one file")
			}
			return []CommandLineReference{{Reference: state.resolve(fileName), Aliases: aliases}}, nil
		}
	}

	paths, err := sw.requireList()
	if err != nil {
		return nil, err
	}
	references := make([]CommandLineReference, 0, len(paths))
	for _, p := range state.resolveAll(paths) {
		references = append(references, CommandLineReference{Reference: p})
	}
	return references, nil
}

func parseCSharpDefines(sw commandLineSwitch) ([]PreprocessorSymbol, error) {
	names := splitList(sw.value)
	symbols := make([]PreprocessorSymbol, 0, len(names))
	for _, name := range names {
		if !isIdentifier(name) {
			return nil, newParseError(sw.arg, "invalid preprocessor symbol %q", name)
		}
		symbols = append(symbols, PreprocessorSymbol{Name: name})
	}
	return symbols, nil
}

func parseCSharpSwitch(state *parseState, sw commandLineSwitch) (bool, error) {
	options := &state.result.CompilationOptions

	if v, ok := sw.toggle("unsafe"); ok {
		options.AllowUnsafe = v
		return true, nil
	}
	if v, ok := sw.toggle("checked"); ok {
		options.CheckOverflow = v
		return true, nil
	}
	if v, ok := sw.toggle("nullable"); ok {
		options.Nullable = "disable"
		if v {
			options.Nullable = "enable"
		}
		return true, nil
	}

	switch sw.name {
	case "warn", "w":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		level, err := strconv.Atoi(value)
		if err != nil || level < 0 {
			return true, newParseError(sw.arg, "invalid warning level %q", value)
		}
		options.WarningLevel = level
		return true, nil

	case "nullable":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		switch v := strings.ToLower(value); v {
		case "enable", "disable", "warnings", "annotations":
			options.Nullable = v
		default:
			return true, newParseError(sw.arg, "invalid nullable context %q", value)
		}
		return true, nil
	}

	return false, nil
}
