// Package cli implements the bubblehead command line.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bubblehead/internal/client"
)

const hostEnv = "BUBBLEHEAD_HOST"

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bubblehead",
		Short: "Put your profile picture inside a helmet",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
	}

	rootCmd.PersistentFlags().String("server", "", "Server base URL (default $"+hostEnv+" or "+client.DefaultBaseURL+")")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(newGenerateCmd(), newStylesCmd(), newServeCmd())
	return rootCmd
}

func newAPIClient(cmd *cobra.Command) (*client.Client, error) {
	server, err := cmd.Flags().GetString("server")
	if err != nil {
		return nil, err
	}
	if server == "" {
		server = os.Getenv(hostEnv)
	}
	return client.NewClient(server, nil)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
