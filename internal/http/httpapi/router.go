package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bubblehead/internal/http/handlers"
	"bubblehead/internal/middleware"
)

func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if app.Config.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recover(app.Logger), middleware.Logger(app.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.Config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Health & docs
	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute)).Post("/generate", app.Generate)
		r.Get("/styles", app.ListStyles)
		r.Get("/styles.zip", app.StylesArchive)
		r.Get("/styles/{style}", app.StyleImage)
	})

	return r
}
