package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/http/handlers"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/middleware"
)

// NewRouter wires the API surface. staticDir, when non-empty, is served under
// /static for locally stored originals.
func NewRouter(app *handlers.App, logger zerolog.Logger, staticDir string, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
	)
	if len(corsOrigins) > 0 {
		r.Use(middleware.CORS(corsOrigins))
	}

	r.Get("/api/health", app.Health)

	r.Route("/api/visualizations", func(r chi.Router) {
		r.Post("/", app.CreateVisualization)
		r.Get("/{id}", app.GetVisualization)
	})

	r.Route("/api/styles", func(r chi.Router) {
		r.Get("/", app.ListStyles)
		r.Get("/{category}", app.ListStylesByCategory)
	})

	if staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
