package replay

// Summary describes a replayed invocation without its contents:
// it's what the CLI prints and what the server sends back.
type Summary struct {
	ProjectName     string `json:"projectName"`
	ProjectFilePath string `json:"projectFilePath"`
	AssemblyName    string `json:"assemblyName"`
	Language        string `json:"language"`
	OutputFilePath  string `json:"outputFilePath"`

	Documents           []string `json:"documents"`
	AdditionalDocuments []string `json:"additionalDocuments"`
	AnalyzerConfigs     []string `json:"analyzerConfigs"`
	References          []string `json:"references"`
}

func Summarize(result *CompilerInvocationResult) Summary {
	compilation := result.Compilation
	summary := Summary{
		ProjectName:         compilation.ProjectName,
		ProjectFilePath:     result.ProjectFilePath,
		AssemblyName:        compilation.AssemblyName,
		Language:            string(result.LanguageServices.Language()),
		OutputFilePath:      compilation.OutputFilePath,
		Documents:           make([]string, 0, len(compilation.SyntaxTrees)),
		AdditionalDocuments: make([]string, 0, len(compilation.AdditionalTexts)),
		AnalyzerConfigs:     make([]string, 0, len(compilation.AnalyzerConfigs)),
		References:          make([]string, 0, len(compilation.References)),
	}
	for _, text := range compilation.SyntaxTrees {
		summary.Documents = append(summary.Documents, text.FilePath)
	}
	for _, text := range compilation.AdditionalTexts {
		summary.AdditionalDocuments = append(summary.AdditionalDocuments, text.FilePath)
	}
	for _, text := range compilation.AnalyzerConfigs {
		summary.AnalyzerConfigs = append(summary.AnalyzerConfigs, text.FilePath)
	}
	for _, reference := range compilation.References {
		summary.References = append(summary.References, reference.FilePath)
	}
	return summary
}

// Inputs lists every file the compiled unit was made of, in a stable order.
func (summary Summary) Inputs() []string {
	inputs := make([]string, 0, len(summary.Documents)+len(summary.AdditionalDocuments)+len(summary.AnalyzerConfigs)+len(summary.References))
	inputs = append(inputs, summary.Documents...)
	inputs = append(inputs, summary.AdditionalDocuments...)
	inputs = append(inputs, summary.AnalyzerConfigs...)
	inputs = append(inputs, summary.References...)
	return inputs
}
