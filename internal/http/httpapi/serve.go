package httpapi

import (
	"context"
	"errors"
	stdhttp "net/http"

	"github.com/rs/zerolog"

	"bubblehead/internal/http/handlers"
	"bubblehead/internal/infra"
)

// Serve wires the application, listens on cfg.Port and blocks until ctx is
// cancelled, then drains in-flight requests for up to cfg.ShutdownTimeout().
func Serve(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) error {
	app, err := handlers.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	server := infra.NewHTTPServer(cfg, NewRouter(app))

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
