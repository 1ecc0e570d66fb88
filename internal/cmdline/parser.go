package cmdline

import (
	"strconv"
	"strings"

	"compreplay/internal/common"
)

// dialect is what differs between the C# and the Visual Basic command line.
type dialect struct {
	language               string
	scriptExtension        string
	defaultLanguageVersion string
	defaultWarningLevel    int

	parseReferences func(state *parseState, sw commandLineSwitch) ([]CommandLineReference, error)
	parseDefines    func(sw commandLineSwitch) ([]PreprocessorSymbol, error)

	// parseSpecificSwitch handles switches known to one language only;
	// handled=false makes the switch unrecognized
	parseSpecificSwitch func(state *parseState, sw commandLineSwitch) (handled bool, err error)
}

// commandLineSwitch is one "/name:value" or "-name:value" argument.
type commandLineSwitch struct {
	arg      string // as given
	name     string // lower-cased, without prefix and value
	value    string // raw, quotes are kept
	hasValue bool
}

// parseSwitch splits an argument into a switch, or returns false if arg is not a switch.
// Arguments like "/usr/src/a.cs" look like switches, but a '/' before any ':' means a unix path.
func parseSwitch(arg string) (commandLineSwitch, bool) {
	if len(arg) < 2 || (arg[0] != '/' && arg[0] != '-') {
		return commandLineSwitch{}, false
	}

	colon := strings.IndexByte(arg, ':')
	if arg[0] == '/' {
		if sep := strings.IndexByte(arg[1:], '/'); sep != -1 && (colon == -1 || sep+1 < colon) {
			return commandLineSwitch{}, false
		}
	}

	sw := commandLineSwitch{arg: arg}
	if colon == -1 {
		sw.name = strings.ToLower(arg[1:])
	} else {
		sw.name = strings.ToLower(arg[1:colon])
		sw.value = arg[colon+1:]
		sw.hasValue = true
	}
	return sw, true
}

// toggle matches "/name", "/name+" and "/name-" without a value.
func (sw commandLineSwitch) toggle(names ...string) (value bool, ok bool) {
	if sw.hasValue {
		return false, false
	}
	for _, name := range names {
		switch sw.name {
		case name, name + "+":
			return true, true
		case name + "-":
			return false, true
		}
	}
	return false, false
}

func (sw commandLineSwitch) is(names ...string) bool {
	for _, name := range names {
		if sw.name == name {
			return true
		}
	}
	return false
}

func (sw commandLineSwitch) requireValue() (string, error) {
	value := unquoteValue(sw.value)
	if !sw.hasValue || value == "" {
		return "", newParseError(sw.arg, "missing value")
	}
	return value, nil
}

func (sw commandLineSwitch) requireList() ([]string, error) {
	if !sw.hasValue {
		return nil, newParseError(sw.arg, "missing value")
	}
	items := splitList(sw.value)
	if len(items) == 0 {
		return nil, newParseError(sw.arg, "missing value")
	}
	return items, nil
}

// unquoteValue removes quotes the way argv parsing would: `"a b"` -> `a b`, `\"` -> `"`.
// Backslashes not followed by a quote stay as they are, so `C:\dir\` is not damaged.
func unquoteValue(value string) string {
	if !strings.ContainsRune(value, '"') {
		return value
	}

	var b strings.Builder
	for i := 0; i < len(value); {
		if value[i] == '\\' {
			slashCount := 0
			for i < len(value) && value[i] == '\\' {
				slashCount++
				i++
			}
			if i < len(value) && value[i] == '"' {
				b.WriteString(strings.Repeat(`\`, slashCount/2))
				if slashCount%2 == 1 {
					b.WriteByte('"')
				}
				i++
			} else {
				b.WriteString(strings.Repeat(`\`, slashCount))
			}
			continue
		}
		if value[i] != '"' {
			b.WriteByte(value[i])
		}
		i++
	}
	return b.String()
}

// splitList splits a switch value on ',' and ';' outside quotes, unquoting every item and dropping empty ones.
func splitList(value string) []string {
	items := make([]string, 0, 4)
	inQuotes := false
	start := 0
	for i := 0; i <= len(value); i++ {
		if i < len(value) {
			c := value[i]
			if c == '"' {
				inQuotes = !inQuotes
			}
			if inQuotes || (c != ',' && c != ';') {
				continue
			}
		}
		if item := strings.TrimSpace(unquoteValue(value[start:i])); item != "" {
			items = append(items, item)
		}
		start = i + 1
	}
	return items
}

type parseState struct {
	dialect       *dialect
	baseDirectory string
	interactive   bool
	result        *ParsedInvocation

	ruleSetPath          string
	cmdDiagnosticOptions map[string]ReportDiagnostic
	cmdGeneralOption     *ReportDiagnostic
}

func (state *parseState) resolve(p string) string {
	return common.ResolvePath(state.baseDirectory, p)
}

func (state *parseState) resolveAll(paths []string) []string {
	resolved := make([]string, 0, len(paths))
	for _, p := range paths {
		resolved = append(resolved, state.resolve(p))
	}
	return resolved
}

func (state *parseState) setGeneralDiagnosticOption(report ReportDiagnostic) {
	state.cmdGeneralOption = &report
}

func (state *parseState) setSpecificDiagnosticOptions(ids []string, report ReportDiagnostic) {
	for _, id := range ids {
		state.cmdDiagnosticOptions[strings.ToUpper(id)] = report
	}
}

func parseCommandLine(d *dialect, args []string, baseDirectory string, interactive bool, sdkDirectory string) (*ParsedInvocation, error) {
	state := &parseState{
		dialect:       d,
		baseDirectory: baseDirectory,
		interactive:   interactive,
		result: &ParsedInvocation{
			Language:      d.language,
			BaseDirectory: baseDirectory,
			CompilationOptions: CompilationOptions{
				OutputKind:                ConsoleApplication,
				WarningLevel:              d.defaultWarningLevel,
				SpecificDiagnosticOptions: make(map[string]ReportDiagnostic),
			},
			ParseOptions: ParseOptions{
				LanguageVersion:   d.defaultLanguageVersion,
				DocumentationMode: "none",
				Features:          make(map[string]string),
			},
		},
		cmdDiagnosticOptions: make(map[string]ReportDiagnostic),
	}
	if sdkDirectory != "" {
		state.result.LibPaths = append(state.result.LibPaths, sdkDirectory)
	}

	for _, arg := range args {
		if arg == "" {
			continue
		}

		sw, isSwitch := parseSwitch(arg)
		if !isSwitch {
			if err := state.addSourceFile(arg); err != nil {
				return nil, err
			}
			continue
		}

		handled, err := state.parseCommonSwitch(sw)
		if err == nil && !handled {
			handled, err = d.parseSpecificSwitch(state, sw)
		}
		if err != nil {
			return nil, err
		}
		if !handled {
			return nil, newParseError(arg, "unrecognized option")
		}
	}

	if err := state.applyDiagnosticOptions(); err != nil {
		return nil, err
	}
	if err := state.fillDefaults(); err != nil {
		return nil, err
	}
	return state.result, nil
}

func (state *parseState) addSourceFile(arg string) error {
	fileName := unquoteValue(arg)
	switch {
	case fileName == "-":
		return newParseError(arg, "reading sources from stdin is not supported")
	case strings.HasPrefix(fileName, "@"):
		return newParseError(arg, "response files are not supported")
	case strings.ContainsAny(fileName, "*?"):
		return newParseError(arg, "wildcards in source file names are not supported")
	}

	isScript := state.interactive && strings.EqualFold(pathExt(fileName), state.dialect.scriptExtension)
	state.result.SourceFiles = append(state.result.SourceFiles, CommandLineSourceFile{
		Path:     state.resolve(fileName),
		IsScript: isScript,
	})
	return nil
}

func pathExt(p string) string {
	base := common.BaseName(p)
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		return base[idx:]
	}
	return ""
}

// parseCommonSwitch handles switches shared by all languages.
func (state *parseState) parseCommonSwitch(sw commandLineSwitch) (bool, error) {
	result := state.result
	options := &result.CompilationOptions

	if v, ok := sw.toggle("optimize", "o"); ok {
		options.Optimize = v
		return true, nil
	}
	if v, ok := sw.toggle("deterministic"); ok {
		options.Deterministic = v
		return true, nil
	}
	if v, ok := sw.toggle("debug"); ok {
		options.DebugInformation = ""
		if v {
			options.DebugInformation = "full"
		}
		return true, nil
	}
	if sw.is("nostdlib", "nostdlib+", "nostdlib-", "noconfig", "nologo", "utf8output", "highentropyva", "highentropyva+", "highentropyva-",
		"delaysign", "delaysign+", "delaysign-", "publicsign", "publicsign+", "publicsign-", "fullpaths", "nowin32manifest",
		"refonly", "errorendlocation", "reportanalyzer", "skipanalyzers", "skipanalyzers+", "skipanalyzers-", "nosdkpath",
		"parallel", "parallel+", "parallel-", "p", "p+", "p-", "noautoconfig") {
		return true, nil
	}

	switch sw.name {
	case "out":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		outPath := state.resolve(value)
		result.OutputFileName = common.BaseName(outPath)
		result.OutputDirectory = common.DirName(outPath)
		return true, nil

	case "target", "t":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		switch strings.ToLower(value) {
		case "exe":
			options.OutputKind = ConsoleApplication
		case "winexe":
			options.OutputKind = WindowsApplication
		case "library":
			options.OutputKind = DynamicallyLinkedLibrary
		case "module":
			options.OutputKind = NetModule
		case "winmdobj":
			options.OutputKind = WindowsRuntimeMetadata
		case "appcontainerexe":
			options.OutputKind = WindowsRuntimeApplication
		default:
			return true, newParseError(sw.arg, "invalid target type %q", value)
		}
		return true, nil

	case "reference", "r":
		if !sw.hasValue {
			return true, newParseError(sw.arg, "missing value")
		}
		references, err := state.dialect.parseReferences(state, sw)
		if err != nil {
			return true, err
		}
		result.MetadataReferences = append(result.MetadataReferences, references...)
		return true, nil

	case "link", "l", "addmodule":
		paths, err := sw.requireList()
		if err != nil {
			return true, err
		}
		for _, p := range state.resolveAll(paths) {
			reference := CommandLineReference{Reference: p, EmbedInteropTypes: sw.name != "addmodule"}
			if sw.name == "addmodule" {
				reference.Kind = ReferenceModule
			}
			result.MetadataReferences = append(result.MetadataReferences, reference)
		}
		return true, nil

	case "additionalfile":
		paths, err := sw.requireList()
		if err != nil {
			return true, err
		}
		for _, p := range state.resolveAll(paths) {
			result.AdditionalFiles = append(result.AdditionalFiles, CommandLineSourceFile{Path: p})
		}
		return true, nil

	case "analyzerconfig":
		paths, err := sw.requireList()
		if err != nil {
			return true, err
		}
		result.AnalyzerConfigPaths = append(result.AnalyzerConfigPaths, state.resolveAll(paths)...)
		return true, nil

	case "analyzer", "a":
		paths, err := sw.requireList()
		if err != nil {
			return true, err
		}
		result.AnalyzerReferences = append(result.AnalyzerReferences, state.resolveAll(paths)...)
		return true, nil

	case "lib", "libpath", "libpaths":
		paths, err := sw.requireList()
		if err != nil {
			return true, err
		}
		result.LibPaths = append(result.LibPaths, state.resolveAll(paths)...)
		return true, nil

	case "define", "d":
		if !sw.hasValue {
			return true, newParseError(sw.arg, "missing value")
		}
		symbols, err := state.dialect.parseDefines(sw)
		if err != nil {
			return true, err
		}
		result.ParseOptions.PreprocessorSymbols = append(result.ParseOptions.PreprocessorSymbols, symbols...)
		return true, nil

	case "nowarn":
		if !sw.hasValue {
			state.setGeneralDiagnosticOption(ReportSuppress)
			return true, nil
		}
		ids, err := sw.requireList()
		if err != nil {
			return true, err
		}
		state.setSpecificDiagnosticOptions(ids, ReportSuppress)
		return true, nil

	case "warnaserror", "warnaserror+", "warnaserror-":
		report := ReportError
		if sw.name == "warnaserror-" {
			report = ReportDefault
		}
		if !sw.hasValue {
			state.setGeneralDiagnosticOption(report)
			return true, nil
		}
		ids, err := sw.requireList()
		if err != nil {
			return true, err
		}
		state.setSpecificDiagnosticOptions(ids, report)
		return true, nil

	case "debug":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		switch v := strings.ToLower(value); v {
		case "full", "pdbonly", "portable", "embedded":
			options.DebugInformation = v
		default:
			return true, newParseError(sw.arg, "invalid debug information format %q", value)
		}
		return true, nil

	case "langversion":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		result.ParseOptions.LanguageVersion = strings.ToLower(value)
		return true, nil

	case "codepage":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		codePage, err := strconv.Atoi(value)
		if err != nil {
			return true, newParseError(sw.arg, "invalid code page %q", value)
		}
		enc, err := common.EncodingForCodePage(codePage)
		if err != nil {
			return true, &ParseError{Arg: sw.arg, Err: err}
		}
		result.Encoding = enc
		return true, nil

	case "platform":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		switch v := strings.ToLower(value); v {
		case "x86", "x64", "anycpu", "anycpu32bitpreferred", "arm", "arm64", "itanium":
			options.Platform = v
		default:
			return true, newParseError(sw.arg, "invalid platform %q", value)
		}
		return true, nil

	case "main", "m":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		options.MainTypeName = value
		return true, nil

	case "doc":
		result.ParseOptions.DocumentationMode = "diagnose"
		if sw.hasValue {
			value, err := sw.requireValue()
			if err != nil {
				return true, err
			}
			result.DocumentationPath = state.resolve(value)
		}
		return true, nil

	case "pdb":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		result.PdbPath = state.resolve(value)
		return true, nil

	case "ruleset":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		state.ruleSetPath = state.resolve(value)
		return true, nil

	case "features":
		for _, feature := range splitList(sw.value) {
			name, value, _ := strings.Cut(feature, "=")
			if value == "" {
				value = "true"
			}
			result.ParseOptions.Features[name] = value
		}
		return true, nil

	case "modulename", "moduleassemblyname":
		value, err := sw.requireValue()
		if err != nil {
			return true, err
		}
		options.ModuleName = value
		return true, nil

	case "recurse":
		return true, newParseError(sw.arg, "recursive source discovery is not supported")

	case "help", "?":
		return true, newParseError(sw.arg, "help requested instead of a compilation")

	case "keyfile", "keycontainer", "win32res", "win32icon", "win32manifest", "resource", "res", "linkresource", "linkres",
		"errorreport", "filealign", "baseaddress", "subsystemversion", "preferreduilang", "pathmap", "sourcelink",
		"instrument", "generatedfilesout", "checksumalgorithm", "errorlog", "appconfig", "refout", "touchedfiles",
		"sqmsessionguid", "embed", "runtimemetadataversion":
		// emit-only settings: they don't change what's being compiled
		return true, nil
	}

	return false, nil
}

func (state *parseState) applyDiagnosticOptions() error {
	options := &state.result.CompilationOptions

	if state.ruleSetPath != "" {
		ruleSet, err := loadRuleSet(state.ruleSetPath)
		if err != nil {
			return err
		}
		state.result.RuleSetPath = state.ruleSetPath
		options.GeneralDiagnosticOption = ruleSet.generalOption
		for id, report := range ruleSet.specificOptions {
			options.SpecificDiagnosticOptions[id] = report
		}
	}

	if state.cmdGeneralOption != nil {
		options.GeneralDiagnosticOption = *state.cmdGeneralOption
	}
	for id, report := range state.cmdDiagnosticOptions {
		if report == ReportDefault {
			delete(options.SpecificDiagnosticOptions, id)
			continue
		}
		options.SpecificDiagnosticOptions[id] = report
	}
	return nil
}

func (state *parseState) fillDefaults() error {
	result := state.result

	if len(result.SourceFiles) == 0 && result.OutputFileName == "" {
		return newParseError("", "no source files specified")
	}

	if result.OutputFileName == "" {
		result.OutputFileName = common.FileNameWithoutExt(result.SourceFiles[0].Path) + result.CompilationOptions.OutputKind.DefaultExtension()
	}
	if result.OutputDirectory == "" {
		result.OutputDirectory = state.baseDirectory
	}
	if result.CompilationName == "" {
		result.CompilationName = common.FileNameWithoutExt(result.OutputFileName)
	}
	return nil
}
