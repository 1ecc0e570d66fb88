package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"compreplay/internal/client"
	"compreplay/internal/replay"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		asJSON    bool
		depsFile  string
		mapFlags  []string
		normalize bool
	)

	cmd := &cobra.Command{
		Use:   "build <descriptor|->",
		Short: "Replay a serialized invocation on this machine",
		Long: `Replay a serialized invocation on this machine and print a summary of the compiled unit.

Mapping rules of the descriptor are applied first, then those of the config file, then --map ones.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDescriptorText(cmd, args[0])
			if err != nil {
				return failed(err)
			}
			extraMappings, err := parseMappingFlags(mapFlags)
			if err != nil {
				return failed(err)
			}

			result, err := replay.CreateFromSerializedInvocation(cmd.Context(), text, a.builderOptions(extraMappings, normalize)...)
			if err != nil {
				return failed(err)
			}
			summary := replay.Summarize(result)

			if depsFile != "" {
				if err := client.MakeDepFileFromSummary(summary).WriteToFile(depsFile); err != nil {
					return failed(fmt.Errorf("can't write deps file: %w", err))
				}
			}

			if asJSON {
				return failed(renderSummaryJSON(cmd.OutOrStdout(), summary))
			}
			renderSummary(cmd.OutOrStdout(), summary, a.verbose)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as json")
	cmd.Flags().StringVar(&depsFile, "deps", "", "write a make-style dependency file listing every input")
	cmd.Flags().StringArrayVar(&mapFlags, "map", nil, "extra path mapping `from=to`, may be repeated")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "use separators of a mapping target in remapped paths")

	return cmd
}
