package main

import (
	"github.com/spf13/cobra"

	"compreplay/internal/client"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		asJSON   bool
		server   string
		sockPath string
	)

	cmd := &cobra.Command{
		Use:   "send <descriptor|->",
		Short: "Replay a serialized invocation on a replay-server",
		Long: `Replay a serialized invocation on a replay-server and print the summary it responds with.
The server is reached over its unix socket if --sock (or SockPath in config) is set, over grpc otherwise.
Paths are remapped by the server: mapping rules of this machine's config are not sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDescriptorText(cmd, args[0])
			if err != nil {
				return failed(err)
			}

			config := *a.config
			if server != "" {
				config.Server = server
				config.SockPath = ""
			}
			if sockPath != "" {
				config.SockPath = sockPath
			}

			remote := client.MakeRemoteConnection(&config)
			if err := remote.SetupConnection(); err != nil {
				return failed(err)
			}
			defer remote.Clear()

			summary, err := remote.CreateFromSerializedInvocation(cmd.Context(), text)
			if err != nil {
				return failed(err)
			}

			if asJSON {
				return failed(renderSummaryJSON(cmd.OutOrStdout(), summary))
			}
			renderSummary(cmd.OutOrStdout(), summary, a.verbose)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as json")
	cmd.Flags().StringVar(&server, "server", "", "replay-server host:port (overrides config)")
	cmd.Flags().StringVar(&sockPath, "sock", "", "replay-server unix socket (overrides config and --server)")

	return cmd
}
