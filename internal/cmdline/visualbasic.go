package cmdline

import (
	"strings"
)

// VisualBasicParser parses vbc command lines.
type VisualBasicParser struct{}

var visualBasicDialect = &dialect{
	language:               "Visual Basic",
	scriptExtension:        ".vbx",
	defaultLanguageVersion: "default",
	defaultWarningLevel:    1,
	parseReferences:        parseVisualBasicReferences,
	parseDefines:           parseVisualBasicDefines,
	parseSpecificSwitch:    parseVisualBasicSwitch,
}

func (VisualBasicParser) Parse(args []string, baseDirectory string, interactive bool, sdkDirectory string) (*ParsedInvocation, error) {
	result, err := parseCommandLine(visualBasicDialect, args, baseDirectory, interactive, sdkDirectory)
	if err != nil {
		return nil, err
	}
	if result.CompilationOptions.OptionStrict == "" {
		result.CompilationOptions.OptionStrict = "off"
	}
	return result, nil
}

func parseVisualBasicReferences(state *parseState, sw commandLineSwitch) ([]CommandLineReference, error) {
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

// parseVisualBasicDefines handles /define:DEBUG,TRACE=1,CONFIG="Release"; a bare name means True.
func parseVisualBasicDefines(sw commandLineSwitch) ([]PreprocessorSymbol, error) {
	items := splitList(sw.value)
	symbols := make([]PreprocessorSymbol, 0, len(items))
	for _, item := range items {
		name, value, hasValue := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !isIdentifier(name) {
			return nil, newParseError(sw.arg, "invalid conditional compilation constant %q", name)
		}
		if !hasValue {
			value = "True"
		}
		symbols = append(symbols, PreprocessorSymbol{Name: name, Value: strings.TrimSpace(value)})
	}
	return symbols, nil
}

func parseVisualBasicSwitch(state *parseState, sw commandLineSwitch) (bool, error) {
	options := &state.result.CompilationOptions

	if v, ok := sw.toggle("optionstrict"); ok {
		options.OptionStrict = "off"
		if v {
			options.OptionStrict = "on"
		}
		return true, nil
	}
	if v, ok := sw.toggle("optionexplicit"); ok {
		options.OptionExplicit = v
		return true, nil
	}
	if v, ok := sw.toggle("optioninfer"); ok {
		options.OptionInfer = v
		return true, nil
	}
	if v, ok := sw.toggle("removeintchecks"); ok {
		options.CheckOverflow = !v
		return true, nil
	}
	if _, ok := sw.toggle("vbruntime"); ok {
		return true, nil
	}
	if sw.is("netcf", "quiet", "verbose") {
		return true, nil
	}

	switch sw.name {
	case "rootnamespace":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		options.RootNamespace = value
		return true, nil

	case "imports", "import":
		imports, err := sw.requireList()
		if err != nil {
			return true, err
		}
		options.GlobalImports = append(options.GlobalImports, imports...)
		return true, nil

	case "optionstrict":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		if !strings.EqualFold(value, "custom") {
			return true, newParseError(sw.arg, "invalid option strict value %q", value)
		}
		options.OptionStrict = "custom"
		return true, nil

	case "optioncompare":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		switch strings.ToLower(value) {
		case "binary":
			options.OptionCompareText = false
		case "text":
			options.OptionCompareText = true
		default:
			return true, newParseError(sw.arg, "invalid option compare value %q", value)
		}
		return true, nil

	case "vbruntime", "sdkpath":
		// runtime and SDK locations are resolved by the environment the unit is replayed in
		return true, nil
	}

	return false, nil
}
