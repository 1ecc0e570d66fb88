package replay

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/encoding"

	"compreplay/internal/cmdline"
	"compreplay/internal/common"
	"compreplay/internal/workspace"
)

// CompilerInvocationResult is a replayed invocation: the compiled unit, the language services that built it
// and the project file path exactly as it was recorded (not remapped).
type CompilerInvocationResult struct {
	Compilation      *workspace.Compilation
	LanguageServices LanguageServices
	ProjectFilePath  string
}

// TextLoaderFactory creates a loader for a document at a remapped path.
type TextLoaderFactory func(filePath string, enc encoding.Encoding) workspace.TextLoader

// Builder turns an InvocationDescriptor into a CompilerInvocationResult.
// It keeps no state between builds, so one Builder may serve concurrent Build calls.
type Builder struct {
	resolver            LanguageServicesResolver
	fallbackMappings    []common.PathMapping
	normalizeSeparators bool
	newTextLoader       TextLoaderFactory
}

type BuilderOption func(*Builder)

// WithFallbackMappings appends rules after the descriptor's own ones, so the descriptor's rules win.
func WithFallbackMappings(mappings []common.PathMapping) BuilderOption {
	return func(b *Builder) {
		b.fallbackMappings = append(b.fallbackMappings, mappings...)
	}
}

// WithNormalizeSeparators makes remapped paths use the separators of their mapping target.
func WithNormalizeSeparators(normalize bool) BuilderOption {
	return func(b *Builder) {
		b.normalizeSeparators = normalize
	}
}

func WithLanguageServicesResolver(resolver LanguageServicesResolver) BuilderOption {
	return func(b *Builder) {
		b.resolver = resolver
	}
}

func WithTextLoaderFactory(factory TextLoaderFactory) BuilderOption {
	return func(b *Builder) {
		b.newTextLoader = factory
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		resolver: MakeDefaultRegistry(),
		newTextLoader: func(filePath string, enc encoding.Encoding) workspace.TextLoader {
			return workspace.FileTextLoader{Path: filePath, Encoding: enc}
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateFromSerializedInvocation loads a descriptor from text and builds it.
func CreateFromSerializedInvocation(ctx context.Context, serializedText string, opts ...BuilderOption) (*CompilerInvocationResult, error) {
	descriptor, err := LoadDescriptor(serializedText)
	if err != nil {
		return nil, err
	}
	return NewBuilder(opts...).Build(ctx, descriptor)
}

// Build replays descriptor: it parses the recorded arguments, remaps every path the parsed invocation refers to
// and loads the result into a workspace owned by this call only.
// Errors are returned unwrapped: *UnsupportedToolError, *cmdline.ParseError, *workspace.CompilationError,
// or ctx.Err() if ctx is done while loading files.
func (b *Builder) Build(ctx context.Context, descriptor InvocationDescriptor) (*CompilerInvocationResult, error) {
	start := time.Now()

	language, err := LanguageForTool(descriptor.Tool)
	if err != nil {
		return nil, err
	}
	services, err := b.resolver.Resolve(language)
	if err != nil {
		return nil, err
	}

	mappings := make([]common.PathMapping, 0, len(descriptor.PathMappings)+len(b.fallbackMappings))
	mappings = append(mappings, descriptor.PathMappings...)
	mappings = append(mappings, b.fallbackMappings...)
	mapper := common.MakePathMapper(mappings, b.normalizeSeparators)

	// the parser resolves relative values against the recorded directory, that's what we pass it;
	// path-bearing switches are made absolute first, so that what the parser opens is remapped;
	// an empty value stays empty for the parser to report it missing
	baseDirectory := common.DirName(descriptor.ProjectFilePath)
	args := RewriteCommandLine(descriptor.Arguments, func(p string) string {
		if strings.Trim(p, `"`) == "" {
			return p
		}
		return mapper.Map(common.ResolvePath(baseDirectory, p))
	})
	logReplay.Info(2, "rewritten arguments", args)

	parsed, err := services.CommandLineParser().Parse(args, baseDirectory, false, "")
	if err != nil {
		return nil, err
	}

	projectInfo := b.makeProjectInfo(descriptor, parsed, mapper)
	logReplay.Info(1, "project", projectInfo.Name, "id", projectInfo.ID, "documents", len(projectInfo.Documents), "references", len(projectInfo.MetadataReferences))

	ws := workspace.New()
	defer ws.Close()

	if err := ws.AddProject(projectInfo); err != nil {
		return nil, err
	}
	compilation, err := ws.GetCompilation(ctx, projectInfo.ID)
	if err != nil {
		return nil, err
	}

	logReplay.Info(0, "built", descriptor.ProjectFilePath, "in", time.Since(start).Round(time.Millisecond))
	return &CompilerInvocationResult{
		Compilation:      compilation,
		LanguageServices: services,
		ProjectFilePath:  descriptor.ProjectFilePath,
	}, nil
}

// makeProjectInfo remaps every path of parsed exactly once.
// A document is named by its full remapped path: two files named a.cs in different folders stay distinct.
func (b *Builder) makeProjectInfo(descriptor InvocationDescriptor, parsed *cmdline.ParsedInvocation, mapper common.PathMapper) workspace.ProjectInfo {
	projectID := workspace.NewProjectID()

	makeDocuments := func(files []cmdline.CommandLineSourceFile) []workspace.DocumentInfo {
		documents := make([]workspace.DocumentInfo, 0, len(files))
		for _, file := range files {
			filePath := mapper.Map(file.Path)
			documents = append(documents, workspace.DocumentInfo{
				ID:       workspace.NewDocumentID(projectID, filePath),
				Name:     filePath,
				FilePath: filePath,
				IsScript: file.IsScript,
				Loader:   b.newTextLoader(filePath, parsed.Encoding),
			})
		}
		return documents
	}

	analyzerConfigs := make([]cmdline.CommandLineSourceFile, 0, len(parsed.AnalyzerConfigPaths))
	for _, p := range parsed.AnalyzerConfigPaths {
		analyzerConfigs = append(analyzerConfigs, cmdline.CommandLineSourceFile{Path: p})
	}

	references := make([]workspace.MetadataReference, 0, len(parsed.MetadataReferences))
	for _, reference := range parsed.MetadataReferences {
		references = append(references, workspace.MetadataReference{
			FilePath:          mapper.Map(reference.Reference),
			Kind:              reference.Kind,
			Aliases:           reference.Aliases,
			EmbedInteropTypes: reference.EmbedInteropTypes,
		})
	}

	analyzerReferences := make([]string, 0, len(parsed.AnalyzerReferences))
	for _, p := range parsed.AnalyzerReferences {
		analyzerReferences = append(analyzerReferences, mapper.Map(p))
	}

	return workspace.ProjectInfo{
		ID:                      projectID,
		Name:                    common.FileNameWithoutExt(descriptor.ProjectFilePath),
		AssemblyName:            parsed.CompilationName,
		Language:                parsed.Language,
		FilePath:                descriptor.ProjectFilePath,
		OutputFilePath:          common.ResolvePath(parsed.OutputDirectory, parsed.OutputFileName),
		CompilationOptions:      parsed.CompilationOptions,
		ParseOptions:            parsed.ParseOptions,
		Documents:               makeDocuments(parsed.SourceFiles),
		AdditionalDocuments:     makeDocuments(parsed.AdditionalFiles),
		AnalyzerConfigDocuments: makeDocuments(analyzerConfigs),
		MetadataReferences:      references,
		AnalyzerReferences:      analyzerReferences,
	}
}
