package cmdline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseVisualBasic(t *testing.T, baseDir string, args ...string) *ParsedInvocation {
	t.Helper()
	parsed, err := VisualBasicParser{}.Parse(args, baseDir, false, "")
	require.NoError(t, err)
	return parsed
}

func TestVisualBasicDefaults(t *testing.T) {
	t.Parallel()
	parsed := parseVisualBasic(t, `C:\Src\Lib`, "/t:library", "Module1.vb")

	assert.Equal(t, "Visual Basic", parsed.Language)
	assert.Equal(t, `C:\Src\Lib\Module1.vb`, parsed.SourceFiles[0].Path)
	assert.Equal(t, "Module1.dll", parsed.OutputFileName)
	assert.Equal(t, "off", parsed.CompilationOptions.OptionStrict)
}

func TestVisualBasicDefines(t *testing.T) {
	t.Parallel()
	parsed := parseVisualBasic(t, "/p", "a.vb", `/define:DEBUG,TRACE=False,CONFIG="Release"`)

	assert.Equal(t, []PreprocessorSymbol{
		{Name: "DEBUG", Value: "True"},
		{Name: "TRACE", Value: "False"},
		{Name: "CONFIG", Value: "Release"},
	}, parsed.ParseOptions.PreprocessorSymbols)
}

func TestVisualBasicSpecificSwitches(t *testing.T) {
	t.Parallel()
	parsed := parseVisualBasic(t, "/p", "a.vb",
		"/rootnamespace:Company.App", "/imports:System,System.Linq", "/optionstrict:custom", "/optionexplicit+",
		"/optioninfer-", "/optioncompare:text", "/removeintchecks-", "/vbruntime:Microsoft.VisualBasic.dll", "/sdkpath:/opt/sdk", "/netcf")

	options := parsed.CompilationOptions
	assert.Equal(t, "Company.App", options.RootNamespace)
	assert.Equal(t, []string{"System", "System.Linq"}, options.GlobalImports)
	assert.Equal(t, "custom", options.OptionStrict)
	assert.True(t, options.OptionExplicit)
	assert.False(t, options.OptionInfer)
	assert.True(t, options.OptionCompareText)
	assert.True(t, options.CheckOverflow)

	parsed = parseVisualBasic(t, "/p", "a.vb", "/optionstrict+", "/removeintchecks")
	assert.Equal(t, "on", parsed.CompilationOptions.OptionStrict)
	assert.False(t, parsed.CompilationOptions.CheckOverflow)
}

func TestVisualBasicErrors(t *testing.T) {
	t.Parallel()
	for _, arg := range []string{"/optionstrict:sometimes", "/optioncompare:fuzzy", "/unsafe", "/define:9X", "/imports:"} {
		_, err := VisualBasicParser{}.Parse([]string{"a.vb", arg}, "/p", false, "")
		require.ErrorIs(t, err, ErrParse, arg)
	}
}
