package cmdline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func parseCSharp(t *testing.T, baseDir string, args ...string) *ParsedInvocation {
	t.Helper()
	parsed, err := CSharpParser{}.Parse(args, baseDir, false, "")
	require.NoError(t, err)
	return parsed
}

func TestParseSourcesAndDefaults(t *testing.T) {
	t.Parallel()
	parsed := parseCSharp(t, "/src/app", "Program.cs", "sub/Util.cs", "/abs/Shared.cs")

	assert.Equal(t, "C#", parsed.Language)
	assert.Equal(t, "/src/app", parsed.BaseDirectory)
	assert.Equal(t, []CommandLineSourceFile{
		{Path: "/src/app/Program.cs"},
		{Path: "/src/app/sub/Util.cs"},
		{Path: "/abs/Shared.cs"},
	}, parsed.SourceFiles)
	assert.Equal(t, "Program.exe", parsed.OutputFileName)
	assert.Equal(t, "/src/app", parsed.OutputDirectory)
	assert.Equal(t, "Program", parsed.CompilationName)
	assert.Equal(t, ConsoleApplication, parsed.CompilationOptions.OutputKind)
	assert.Equal(t, 4, parsed.CompilationOptions.WarningLevel)
	assert.Equal(t, "default", parsed.ParseOptions.LanguageVersion)
	assert.Equal(t, "none", parsed.ParseOptions.DocumentationMode)
	assert.Nil(t, parsed.Encoding)
}

func TestParseWindowsPaths(t *testing.T) {
	t.Parallel()
	parsed := parseCSharp(t, `C:\Src\App`,
		`/out:obj\Debug\App.dll`, "/target:library", `Program.cs`, `/r:C:\Ref\A.dll;..\B.dll`, `-analyzer:"C:\My Analyzers\X.dll"`)

	assert.Equal(t, `C:\Src\App\Program.cs`, parsed.SourceFiles[0].Path)
	assert.Equal(t, "App.dll", parsed.OutputFileName)
	assert.Equal(t, `C:\Src\App\obj\Debug`, parsed.OutputDirectory)
	assert.Equal(t, "App", parsed.CompilationName)
	assert.Equal(t, DynamicallyLinkedLibrary, parsed.CompilationOptions.OutputKind)
	assert.Equal(t, []CommandLineReference{
		{Reference: `C:\Ref\A.dll`},
		{Reference: `C:\Src\App\..\B.dll`},
	}, parsed.MetadataReferences)
	assert.Equal(t, []string{`C:\My Analyzers\X.dll`}, parsed.AnalyzerReferences)
}

func TestParseUnixPathIsNotASwitch(t *testing.T) {
	t.Parallel()
	parsed := parseCSharp(t, "/src", "/usr/src/a.cs", "/out:/tmp/out/a.dll")

	assert.Equal(t, "/usr/src/a.cs", parsed.SourceFiles[0].Path)
	assert.Equal(t, "a.dll", parsed.OutputFileName)
	assert.Equal(t, "/tmp/out", parsed.OutputDirectory)
}

func TestParseFileLists(t *testing.T) {
	t.Parallel()
	parsed := parseCSharp(t, "/p", "a.cs",
		"/additionalfile:x.txt,y.txt", "/analyzerconfig:.editorconfig", "/link:interop.dll", "/addmodule:m.netmodule", "/lib:libs;/opt/libs")

	assert.Equal(t, []CommandLineSourceFile{{Path: "/p/x.txt"}, {Path: "/p/y.txt"}}, parsed.AdditionalFiles)
	assert.Equal(t, []string{"/p/.editorconfig"}, parsed.AnalyzerConfigPaths)
	assert.Equal(t, []CommandLineReference{
		{Reference: "/p/interop.dll", EmbedInteropTypes: true},
		{Reference: "/p/m.netmodule", Kind: ReferenceModule},
	}, parsed.MetadataReferences)
	assert.Equal(t, []string{"/p/libs", "/opt/libs"}, parsed.LibPaths)
}

func TestParseOptions(t *testing.T) {
	t.Parallel()
	parsed := parseCSharp(t, "/p", "a.cs",
		"/optimize+", "/deterministic", "/debug:portable", "/langversion:Preview", "/platform:x64", "/main:App.Program",
		"/doc:a.xml", "/pdb:a.pdb", "/features:strict;flow-analysis=x", "/nologo", "/keyfile:k.snk", "/modulename:M")

	options := parsed.CompilationOptions
	assert.True(t, options.Optimize)
	assert.True(t, options.Deterministic)
	assert.Equal(t, "portable", options.DebugInformation)
	assert.Equal(t, "x64", options.Platform)
	assert.Equal(t, "App.Program", options.MainTypeName)
	assert.Equal(t, "M", options.ModuleName)
	assert.Equal(t, "preview", parsed.ParseOptions.LanguageVersion)
	assert.Equal(t, "diagnose", parsed.ParseOptions.DocumentationMode)
	assert.Equal(t, map[string]string{"strict": "true", "flow-analysis": "x"}, parsed.ParseOptions.Features)
	assert.Equal(t, "/p/a.xml", parsed.DocumentationPath)
	assert.Equal(t, "/p/a.pdb", parsed.PdbPath)

	parsed = parseCSharp(t, "/p", "a.cs", "/o+", "/o-", "/debug+", "/debug-")
	assert.False(t, parsed.CompilationOptions.Optimize)
	assert.Equal(t, "", parsed.CompilationOptions.DebugInformation)
}

func TestParseCodePage(t *testing.T) {
	t.Parallel()
	parsed := parseCSharp(t, "/p", "a.cs", "/codepage:1252")
	assert.Equal(t, charmap.Windows1252, parsed.Encoding)

	_, err := CSharpParser{}.Parse([]string{"a.cs", "/codepage:abc"}, "/p", false, "")
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseDiagnosticOptions(t *testing.T) {
	t.Parallel()
	parsed := parseCSharp(t, "/p", "a.cs", "/nowarn:CS0168,cs0219", "/warnaserror+:CS1591", "/warnaserror")

	options := parsed.CompilationOptions
	assert.Equal(t, ReportError, options.GeneralDiagnosticOption)
	assert.Equal(t, map[string]ReportDiagnostic{
		"CS0168": ReportSuppress,
		"CS0219": ReportSuppress,
		"CS1591": ReportError,
	}, options.SpecificDiagnosticOptions)
}

func TestParseRuleSet(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ruleSetPath := filepath.Join(dir, "rules.ruleset")
	require.NoError(t, os.WriteFile(ruleSetPath, []byte(`<?xml version="1.0" encoding="utf-8"?>
<RuleSet Name="Rules" ToolsVersion="16.0">
  <IncludeAll Action="Warning" />
  <Rules AnalyzerId="Microsoft.CodeAnalysis.NetAnalyzers" RuleNamespace="Microsoft.CodeAnalysis.NetAnalyzers">
    <Rule Id="CA1001" Action="Error" />
    <Rule Id="CA1822" Action="None" />
    <Rule Id="CA2000" Action="Info" />
  </Rules>
</RuleSet>`), 0644))

	parsed := parseCSharp(t, dir, "a.cs", `/ruleset:"`+ruleSetPath+`"`, "/nowarn:CA2000")

	options := parsed.CompilationOptions
	assert.Equal(t, ruleSetPath, parsed.RuleSetPath)
	assert.Equal(t, ReportWarn, options.GeneralDiagnosticOption)
	assert.Equal(t, map[string]ReportDiagnostic{
		"CA1001": ReportError,
		"CA1822": ReportSuppress,
		"CA2000": ReportSuppress, // command line beats the rule set
	}, options.SpecificDiagnosticOptions)

	// relative to the base directory
	parsed = parseCSharp(t, dir, "a.cs", "/ruleset:rules.ruleset")
	assert.Equal(t, ruleSetPath, parsed.RuleSetPath)
}

func TestParseRuleSetErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	malformed := filepath.Join(dir, "bad.ruleset")
	require.NoError(t, os.WriteFile(malformed, []byte(`<RuleSet><Rules><Rule Id="X" Action="Sometimes"/></Rules></RuleSet>`), 0644))

	for _, arg := range []string{"/ruleset:" + malformed, "/ruleset:" + filepath.Join(dir, "missing.ruleset")} {
		_, err := CSharpParser{}.Parse([]string{"a.cs", arg}, dir, false, "")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr, arg)
	}

	_, err := CSharpParser{}.Parse([]string{"a.cs", "/ruleset:" + filepath.Join(dir, "missing.ruleset")}, dir, false, "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown switch", []string{"a.cs", "/frobnicate"}},
		{"missing value", []string{"a.cs", "/out:"}},
		{"bad target", []string{"a.cs", "/target:dll"}},
		{"bad platform", []string{"a.cs", "/platform:mips"}},
		{"bad debug", []string{"a.cs", "/debug:everything"}},
		{"no sources", []string{"/target:library"}},
		{"wildcard", []string{"*.cs"}},
		{"response file", []string{"@args.rsp"}},
		{"stdin", []string{"-"}},
		{"recurse", []string{"a.cs", "/recurse:*.cs"}},
		{"help", []string{"/?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := CSharpParser{}.Parse(tt.args, "/p", false, "")
			assert.Nil(t, parsed)
			assert.True(t, errors.Is(err, ErrParse), "%v", err)
		})
	}
}

func TestParseSdkDirectoryAndScripts(t *testing.T) {
	t.Parallel()
	parsed, err := CSharpParser{}.Parse([]string{"a.csx", "b.cs"}, "/p", true, "/sdk")
	require.NoError(t, err)

	assert.Equal(t, []string{"/sdk"}, parsed.LibPaths)
	assert.True(t, parsed.SourceFiles[0].IsScript)
	assert.False(t, parsed.SourceFiles[1].IsScript)

	parsed = parseCSharp(t, "/p", "a.csx")
	assert.False(t, parsed.SourceFiles[0].IsScript)
}
