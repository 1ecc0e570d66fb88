package pb

import (
	"google.golang.org/protobuf/types/known/structpb"

	"compreplay/internal/replay"
)

func stringList(items []string) []any {
	list := make([]any, 0, len(items))
	for _, item := range items {
		list = append(list, item)
	}
	return list
}

func SummaryToStruct(summary replay.Summary) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"projectName":         summary.ProjectName,
		"projectFilePath":     summary.ProjectFilePath,
		"assemblyName":        summary.AssemblyName,
		"language":            summary.Language,
		"outputFilePath":      summary.OutputFilePath,
		"documents":           stringList(summary.Documents),
		"additionalDocuments": stringList(summary.AdditionalDocuments),
		"analyzerConfigs":     stringList(summary.AnalyzerConfigs),
		"references":          stringList(summary.References),
	})
}

// SummaryFromStruct is the inverse of SummaryToStruct; fields of unexpected types are left empty.
func SummaryFromStruct(s *structpb.Struct) replay.Summary {
	fields := s.GetFields()
	str := func(name string) string {
		return fields[name].GetStringValue()
	}
	list := func(name string) []string {
		values := fields[name].GetListValue().GetValues()
		items := make([]string, 0, len(values))
		for _, value := range values {
			items = append(items, value.GetStringValue())
		}
		return items
	}

	return replay.Summary{
		ProjectName:         str("projectName"),
		ProjectFilePath:     str("projectFilePath"),
		AssemblyName:        str("assemblyName"),
		Language:            str("language"),
		OutputFilePath:      str("outputFilePath"),
		Documents:           list("documents"),
		AdditionalDocuments: list("additionalDocuments"),
		AnalyzerConfigs:     list("analyzerConfigs"),
		References:          list("references"),
	}
}
