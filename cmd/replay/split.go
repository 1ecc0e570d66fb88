package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"compreplay/internal/common"
	"compreplay/internal/replay"
)

func newSplitCmd(a *app) *cobra.Command {
	var (
		rewrite        bool
		descriptorFile string
		mapFlags       []string
	)

	cmd := &cobra.Command{
		Use:   "split <command line>...",
		Short: "Print the tokens of a compiler command line, one per line",
		Long: `Print the tokens of a compiler command line, one per line.
Arguments are joined with spaces into one command line first.
With --rewrite, path-bearing switches (/ruleset:) are remapped like a build would do it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commandLine := strings.Join(args, " ")

			var tokens []string
			if rewrite {
				mapper, err := a.mapperFromFlags(cmd, descriptorFile, mapFlags, false)
				if err != nil {
					return failed(err)
				}
				tokens = replay.RewriteCommandLine(commandLine, mapper.Map)
			} else {
				tokens = common.SplitCommandLineIntoArguments(commandLine, false)
			}

			for _, token := range tokens {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "remap path-bearing switches")
	cmd.Flags().StringVar(&descriptorFile, "descriptor", "", "take mapping rules from a serialized invocation")
	cmd.Flags().StringArrayVar(&mapFlags, "map", nil, "extra path mapping `from=to`, may be repeated")

	return cmd
}
