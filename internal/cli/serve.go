package cli

import (
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	httpapi "bubblehead/internal/http/httpapi"
	"bubblehead/internal/infra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the bubblehead API server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := infra.LoadConfig()
			if err != nil {
				return err
			}
			logger := infra.NewLogger(cfg.AppEnv)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return httpapi.Serve(ctx, cfg, logger)
		},
	}
}
