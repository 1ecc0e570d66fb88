package cmdline

import (
	"golang.org/x/text/encoding"
)

type OutputKind int

const (
	ConsoleApplication OutputKind = iota
	WindowsApplication
	DynamicallyLinkedLibrary
	NetModule
	WindowsRuntimeMetadata
	WindowsRuntimeApplication
)

func (kind OutputKind) String() string {
	switch kind {
	case ConsoleApplication:
		return "exe"
	case WindowsApplication:
		return "winexe"
	case DynamicallyLinkedLibrary:
		return "library"
	case NetModule:
		return "module"
	case WindowsRuntimeMetadata:
		return "winmdobj"
	case WindowsRuntimeApplication:
		return "appcontainerexe"
	default:
		return "unknown"
	}
}

// DefaultExtension is the extension of the output file when /out: is not given.
func (kind OutputKind) DefaultExtension() string {
	switch kind {
	case DynamicallyLinkedLibrary:
		return ".dll"
	case NetModule:
		return ".netmodule"
	case WindowsRuntimeMetadata:
		return ".winmdobj"
	default:
		return ".exe"
	}
}

// ReportDiagnostic is what a compiler does with a diagnostic: the effect of /nowarn, /warnaserror and rule sets.
type ReportDiagnostic int

const (
	ReportDefault ReportDiagnostic = iota
	ReportError
	ReportWarn
	ReportInfo
	ReportHidden
	ReportSuppress
)

func (report ReportDiagnostic) String() string {
	switch report {
	case ReportError:
		return "error"
	case ReportWarn:
		return "warning"
	case ReportInfo:
		return "info"
	case ReportHidden:
		return "hidden"
	case ReportSuppress:
		return "suppress"
	default:
		return "default"
	}
}

type CompilationOptions struct {
	OutputKind                OutputKind
	ModuleName                string
	MainTypeName              string
	Platform                  string
	Optimize                  bool
	CheckOverflow             bool
	AllowUnsafe               bool
	Deterministic             bool
	DebugInformation          string // "" when /debug is absent
	WarningLevel              int
	GeneralDiagnosticOption   ReportDiagnostic
	SpecificDiagnosticOptions map[string]ReportDiagnostic
	Nullable                  string

	// Visual Basic only
	RootNamespace     string
	GlobalImports     []string
	OptionStrict      string // "off", "on" or "custom"
	OptionExplicit    bool
	OptionInfer       bool
	OptionCompareText bool
}

type PreprocessorSymbol struct {
	Name  string
	Value string // VB allows /define:NAME=value; always "" for C#
}

type ParseOptions struct {
	LanguageVersion     string
	PreprocessorSymbols []PreprocessorSymbol
	DocumentationMode   string // "none" unless /doc: is given
	Features            map[string]string
}

type CommandLineSourceFile struct {
	Path     string
	IsScript bool
}

type ReferenceKind int

const (
	ReferenceAssembly ReferenceKind = iota
	ReferenceModule
)

type CommandLineReference struct {
	Reference         string
	Kind              ReferenceKind
	Aliases           []string
	EmbedInteropTypes bool
}

// ParsedInvocation is a compiler command line after parsing.
// All file paths in it are resolved against BaseDirectory, but not otherwise touched:
// they still point into the environment the command line was recorded in.
type ParsedInvocation struct {
	Language           string
	BaseDirectory      string
	CompilationOptions CompilationOptions
	ParseOptions       ParseOptions

	OutputFileName    string
	OutputDirectory   string
	CompilationName   string
	DocumentationPath string
	PdbPath           string
	RuleSetPath       string

	SourceFiles         []CommandLineSourceFile
	MetadataReferences  []CommandLineReference
	AdditionalFiles     []CommandLineSourceFile
	AnalyzerConfigPaths []string
	AnalyzerReferences  []string
	LibPaths            []string

	// nil means auto-detection: byte order mark, then UTF-8, then Windows-1252
	Encoding encoding.Encoding
}

// Parser is the per-language command-line parsing capability.
// sdkDirectory is "" when there is no SDK directory override.
type Parser interface {
	Parse(args []string, baseDirectory string, interactive bool, sdkDirectory string) (*ParsedInvocation, error)
}
