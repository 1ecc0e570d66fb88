package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"compreplay/internal/replay"
)

func renderSummaryJSON(w io.Writer, summary replay.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// renderSummary prints a summary for humans; with verbose, every input path is listed.
func renderSummary(w io.Writer, summary replay.Summary, verbose bool) {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ replayed ") + TitleStyle.Render(summary.ProjectName) + "\n")
	field := func(label string, value string) {
		b.WriteString(labelStyle.Render(label) + PathStyle.Render(value) + "\n")
	}
	field("project", summary.ProjectFilePath)
	field("language", summary.Language)
	field("assembly", summary.AssemblyName)
	field("output", summary.OutputFilePath)

	list := func(label string, paths []string) {
		b.WriteString(labelStyle.Render(label) + fmt.Sprint(len(paths)) + "\n")
		if !verbose {
			return
		}
		for _, p := range paths {
			b.WriteString("  " + SubtitleStyle.Render("•") + " " + PathStyle.Render(p) + "\n")
		}
	}
	list("documents", summary.Documents)
	list("additional", summary.AdditionalDocuments)
	list("configs", summary.AnalyzerConfigs)
	list("references", summary.References)

	_, _ = io.WriteString(w, b.String())
}
