package workspace

import (
	"github.com/google/uuid"

	"compreplay/internal/cmdline"
)

type ProjectID uuid.UUID

// NewProjectID returns a fresh random identity: two projects built from the same invocation never share one.
func NewProjectID() ProjectID {
	return ProjectID(uuid.New())
}

func (id ProjectID) String() string {
	return uuid.UUID(id).String()
}

type DocumentID uuid.UUID

// NewDocumentID derives a document identity from its (already remapped) path within a project.
// The same path in the same project always gets the same identity.
func NewDocumentID(project ProjectID, filePath string) DocumentID {
	return DocumentID(uuid.NewSHA1(uuid.UUID(project), []byte(filePath)))
}

func (id DocumentID) String() string {
	return uuid.UUID(id).String()
}

type DocumentInfo struct {
	ID       DocumentID
	Name     string // a replayed document is named by its full path, the same as FilePath
	FilePath string
	IsScript bool
	Loader   TextLoader
}

type MetadataReference struct {
	FilePath          string
	Kind              cmdline.ReferenceKind
	Aliases           []string
	EmbedInteropTypes bool
}

// ProjectInfo is everything needed to produce a Compilation; all paths in it point into the current environment.
type ProjectInfo struct {
	ID             ProjectID
	Name           string
	AssemblyName   string
	Language       string
	FilePath       string
	OutputFilePath string

	CompilationOptions cmdline.CompilationOptions
	ParseOptions       cmdline.ParseOptions

	Documents               []DocumentInfo
	AdditionalDocuments     []DocumentInfo
	AnalyzerConfigDocuments []DocumentInfo
	MetadataReferences      []MetadataReference
	AnalyzerReferences      []string
}
