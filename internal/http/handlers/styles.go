package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"bubblehead/internal/domain"
	"bubblehead/internal/helmets"
	"bubblehead/pkg/zip"
)

type stylesResponse struct {
	Default string          `json:"default"`
	Styles  []helmets.Style `json:"styles"`
}

// ListStyles returns the selectable helmets, default first.
func (a *App) ListStyles(w http.ResponseWriter, r *http.Request) {
	styles, err := a.Helmets.Styles(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list helmets")
		a.error(w, r, http.StatusInternalServerError, "Failed to list helmets", "")
		return
	}
	if styles == nil {
		styles = []helmets.Style{}
	}
	a.json(w, r, http.StatusOK, stylesResponse{Default: a.Helmets.DefaultStyle(), Styles: styles})
}

// StyleImage serves the raw artwork of one helmet so clients can preview it.
func (a *App) StyleImage(w http.ResponseWriter, r *http.Request) {
	helmet, err := a.Helmets.Resolve(r.Context(), chi.URLParam(r, "style"))
	if err != nil {
		if errors.Is(err, domain.ErrHelmetNotFound) {
			a.error(w, r, http.StatusNotFound, msgHelmetNotFound, "")
			return
		}
		a.error(w, r, http.StatusInternalServerError, msgHelmetNotFound, "")
		return
	}
	w.Header().Set("Content-Type", helmet.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(helmet.Data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(helmet.Data)
}

// StylesArchive bundles every helmet into a single zip download.
func (a *App) StylesArchive(w http.ResponseWriter, r *http.Request) {
	styles, err := a.Helmets.Styles(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("list helmets")
		a.error(w, r, http.StatusInternalServerError, "Failed to list helmets", "")
		return
	}

	now := time.Now()
	assets := make([]zip.Asset, 0, len(styles))
	for _, style := range styles {
		helmet, err := a.Helmets.Resolve(r.Context(), style.File)
		if err != nil {
			a.Logger.Error().Err(err).Str("style", style.ID).Msg("load helmet for archive")
			a.error(w, r, http.StatusInternalServerError, msgHelmetNotFound, "")
			return
		}
		assets = append(assets, zip.Asset{Filename: helmet.File, Data: helmet.Data, Modified: now})
	}

	data, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.Logger.Error().Err(err).Msg("archive helmets")
		a.error(w, r, http.StatusInternalServerError, "Failed to archive helmets", "")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="bubbleheads-helmets.zip"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
