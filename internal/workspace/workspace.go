package workspace

import (
	"context"
	"fmt"
	"os"
	"sync"

	"compreplay/internal/cmdline"
)

// Workspace holds projects and turns them into compilations.
// It's meant to be short-lived: create one, add a project, get its compilation, close it.
// Workspaces share nothing, so independent builds may run concurrently, each with its own.
type Workspace struct {
	table  map[ProjectID]*ProjectInfo
	mu     sync.RWMutex
	closed bool
}

// SourceText is a loaded document.
type SourceText struct {
	ID       DocumentID
	FilePath string
	IsScript bool
	Text     string
}

// Compilation is a compiled unit ready for analysis: options plus all inputs loaded.
type Compilation struct {
	ProjectID      ProjectID
	ProjectName    string
	AssemblyName   string
	Language       string
	OutputFilePath string

	Options      cmdline.CompilationOptions
	ParseOptions cmdline.ParseOptions

	SyntaxTrees        []SourceText
	AdditionalTexts    []SourceText
	AnalyzerConfigs    []SourceText
	References         []MetadataReference
	AnalyzerReferences []string
}

func New() *Workspace {
	return &Workspace{
		table: make(map[ProjectID]*ProjectInfo, 1),
	}
}

func (ws *Workspace) AddProject(info ProjectInfo) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.closed {
		return ErrWorkspaceClosed
	}
	if _, exists := ws.table[info.ID]; exists {
		return fmt.Errorf("project %s is already added", info.ID)
	}
	ws.table[info.ID] = &info
	return nil
}

// GetCompilation loads every document of the project and checks every metadata reference.
// ctx is checked between files; on cancellation ctx.Err() is returned as is.
func (ws *Workspace) GetCompilation(ctx context.Context, projectID ProjectID) (*Compilation, error) {
	ws.mu.RLock()
	info := ws.table[projectID]
	closed := ws.closed
	ws.mu.RUnlock()

	if closed {
		return nil, ErrWorkspaceClosed
	}
	if info == nil {
		return nil, &CompilationError{Err: fmt.Errorf("unknown project %s", projectID)}
	}

	compilation := &Compilation{
		ProjectID:          info.ID,
		ProjectName:        info.Name,
		AssemblyName:       info.AssemblyName,
		Language:           info.Language,
		OutputFilePath:     info.OutputFilePath,
		Options:            info.CompilationOptions,
		ParseOptions:       info.ParseOptions,
		AnalyzerReferences: info.AnalyzerReferences,
	}

	var err error
	if compilation.SyntaxTrees, err = loadDocuments(ctx, info.Documents); err != nil {
		return nil, err
	}
	if compilation.AdditionalTexts, err = loadDocuments(ctx, info.AdditionalDocuments); err != nil {
		return nil, err
	}
	if compilation.AnalyzerConfigs, err = loadDocuments(ctx, info.AnalyzerConfigDocuments); err != nil {
		return nil, err
	}

	for _, reference := range info.MetadataReferences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := checkMetadataReference(reference.FilePath); err != nil {
			return nil, err
		}
		compilation.References = append(compilation.References, reference)
	}

	return compilation, nil
}

func loadDocuments(ctx context.Context, documents []DocumentInfo) ([]SourceText, error) {
	texts := make([]SourceText, 0, len(documents))
	for _, document := range documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if document.Loader == nil {
			return nil, &CompilationError{Path: document.FilePath, Err: fmt.Errorf("document has no loader")}
		}
		text, err := document.Loader.LoadText(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, &CompilationError{Path: document.FilePath, Err: err}
		}
		texts = append(texts, SourceText{
			ID:       document.ID,
			FilePath: document.FilePath,
			IsScript: document.IsScript,
			Text:     text,
		})
	}
	return texts, nil
}

func checkMetadataReference(filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return &CompilationError{Path: filePath, Err: err}
	}
	if !stat.Mode().IsRegular() {
		return &CompilationError{Path: filePath, Err: fmt.Errorf("metadata reference is not a regular file")}
	}
	return nil
}

// Close drops all projects; the workspace can't be used afterward.
func (ws *Workspace) Close() {
	ws.mu.Lock()
	ws.closed = true
	ws.table = nil
	ws.mu.Unlock()
}
