package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"compreplay/internal/client"
	"compreplay/internal/common"
	"compreplay/internal/replay"
)

// app is the state shared by all subcommands of one run.
type app struct {
	cfgFile string
	envFile string
	verbose bool

	config *client.Configuration
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded compiler invocations on another machine",
		Long: TitleStyle.Render("replay") + SubtitleStyle.Render(" - replay recorded compiler invocations") + `

A recorded invocation (tool, arguments, project file and path mappings) is turned
into a compiled unit again: paths from the recording machine are remapped,
arguments are parsed and every source and reference is loaded from this machine.

` + SubtitleStyle.Render("Examples:") + `
  replay build invocation.json             Replay locally and print a summary
  replay build --deps app.d invocation.json
  replay map --map 'C:\agent=/work' 'C:\agent\src\a.cs'
  replay split --rewrite '/ruleset:"C:\agent\a.ruleset" a.cs'
  replay send --server host:43210 invocation.json`,
		Version:           common.GetVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfiguration,
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is "+client.DefaultConfigurationPath()+")")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load environment variables from a file (default is .env, if present)")

	rootCmd.AddCommand(newBuildCmd(a))
	rootCmd.AddCommand(newMapCmd(a))
	rootCmd.AddCommand(newSplitCmd(a))
	rootCmd.AddCommand(newSendCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfiguration loads env files, then the configuration (its mapping targets may reference env), then the logger.
func (a *app) loadConfiguration(*cobra.Command, []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return failed(fmt.Errorf("can't load env file: %w", err))
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return failed(fmt.Errorf("can't load .env: %w", err))
	}

	cfgFile := a.cfgFile
	if cfgFile == "" {
		cfgFile = client.DefaultConfigurationPath()
	} else if _, err := os.Stat(cfgFile); err != nil {
		return failed(fmt.Errorf("can't read config: %w", err))
	}

	config, err := client.ParseConfiguration(cfgFile)
	if err != nil {
		return failed(fmt.Errorf("can't parse config: %w", err))
	}
	if a.verbose && config.LogLevel < 2 {
		config.LogLevel = 2
	}
	if err := client.MakeLoggerClient(config); err != nil {
		return failed(fmt.Errorf("can't init logger: %w", err))
	}

	a.config = config
	return nil
}

// builderOptions are the configured fallback mappings followed by --map ones.
func (a *app) builderOptions(extraMappings []common.PathMapping, normalize bool) []replay.BuilderOption {
	mappings := append(append([]common.PathMapping(nil), a.config.PathMappings...), extraMappings...)
	return []replay.BuilderOption{
		replay.WithFallbackMappings(mappings),
		replay.WithNormalizeSeparators(a.config.NormalizeSeparators || normalize),
	}
}

// readDescriptorText reads a serialized invocation from a file, or from stdin if fileName is "-".
func readDescriptorText(cmd *cobra.Command, fileName string) (string, error) {
	var data []byte
	var err error
	if fileName == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(fileName)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseMappingFlags parses --map values written as from=to.
// The first '=' splits, so a target may contain '=' but a source may not.
func parseMappingFlags(values []string) ([]common.PathMapping, error) {
	mappings := make([]common.PathMapping, 0, len(values))
	for _, value := range values {
		from, to, ok := strings.Cut(value, "=")
		if !ok {
			return nil, fmt.Errorf("invalid mapping %q, expected from=to", value)
		}
		mappings = append(mappings, common.PathMapping{From: from, To: to})
	}
	return common.ExpandPathMappingTargets(mappings)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		// no config is needed to print a version
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), common.GetVersion())
		},
	}
}
