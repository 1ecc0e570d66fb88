package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"compreplay/internal/common"
	"compreplay/internal/replay"
)

// mapperFromFlags makes a mapper the same way a build would: descriptor rules, then config rules, then --map ones.
func (a *app) mapperFromFlags(cmd *cobra.Command, descriptorFile string, mapFlags []string, normalize bool) (common.PathMapper, error) {
	var mappings []common.PathMapping
	if descriptorFile != "" {
		text, err := readDescriptorText(cmd, descriptorFile)
		if err != nil {
			return common.PathMapper{}, err
		}
		descriptor, err := replay.LoadDescriptor(text)
		if err != nil {
			return common.PathMapper{}, err
		}
		mappings = append(mappings, descriptor.PathMappings...)
	}
	mappings = append(mappings, a.config.PathMappings...)

	extraMappings, err := parseMappingFlags(mapFlags)
	if err != nil {
		return common.PathMapper{}, err
	}
	mappings = append(mappings, extraMappings...)

	return common.MakePathMapper(mappings, a.config.NormalizeSeparators || normalize), nil
}

func newMapCmd(a *app) *cobra.Command {
	var (
		descriptorFile string
		mapFlags       []string
		normalize      bool
	)

	cmd := &cobra.Command{
		Use:   "map <path>...",
		Short: "Print paths as a replay would see them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapper, err := a.mapperFromFlags(cmd, descriptorFile, mapFlags, normalize)
			if err != nil {
				return failed(err)
			}
			if a.verbose {
				for _, mapping := range mapper.Mappings() {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), SubtitleStyle.Render("rule"), mapping.From, "=>", mapping.To)
				}
			}
			for _, p := range args {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), mapper.Map(p))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&descriptorFile, "descriptor", "", "take mapping rules from a serialized invocation")
	cmd.Flags().StringArrayVar(&mapFlags, "map", nil, "extra path mapping `from=to`, may be repeated")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "use separators of a mapping target in remapped paths")

	return cmd
}
