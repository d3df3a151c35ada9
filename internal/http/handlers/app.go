package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"bubblehead/internal/helmets"
	"bubblehead/internal/imagegen"
	"bubblehead/internal/infra"
	"bubblehead/internal/storage"
)

// App carries the immutable dependencies shared by every request.
type App struct {
	Config   *infra.Config
	Logger   zerolog.Logger
	Helmets  *helmets.Catalog
	Composer imagegen.Composer
}

// NewApp wires the helmet catalogue and the upstream composer from cfg.
func NewApp(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (*App, error) {
	source, err := newHelmetSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	composer := imagegen.NewOpenAIClient(imagegen.OpenAIOptions{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		Model:        cfg.OpenAIImageModel,
		Organization: cfg.OpenAIOrg,
		Timeout:      cfg.OpenAITimeout,
	})
	return &App{
		Config:   cfg,
		Logger:   logger,
		Helmets:  helmets.NewCatalog(source, cfg.DefaultHelmet),
		Composer: composer,
	}, nil
}

func newHelmetSource(ctx context.Context, cfg *infra.Config, logger zerolog.Logger) (storage.Source, error) {
	switch {
	case cfg.HelmetS3Bucket != "":
		logger.Info().Str("bucket", cfg.HelmetS3Bucket).Str("prefix", cfg.HelmetS3Prefix).Msg("using s3 helmet source")
		store, err := storage.NewS3Store(ctx, cfg.HelmetS3Bucket, cfg.HelmetS3Prefix)
		if err != nil {
			return nil, fmt.Errorf("helmet source: %w", err)
		}
		return store, nil
	case cfg.HelmetDir != "":
		logger.Info().Str("dir", cfg.HelmetDir).Msg("using directory helmet source")
		store, err := storage.NewFileStore(cfg.HelmetDir)
		if err != nil {
			return nil, fmt.Errorf("helmet source: %w", err)
		}
		return store, nil
	default:
		logger.Info().Msg("using bundled helmets")
		return storage.NewFSStore(helmets.Bundled()), nil
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, r *http.Request, code int, v any) {
	render.Status(r, code)
	render.JSON(w, r, v)
}

func (a *App) error(w http.ResponseWriter, r *http.Request, code int, message, details string) {
	a.json(w, r, code, errorResponse{Error: message, Details: details})
}
