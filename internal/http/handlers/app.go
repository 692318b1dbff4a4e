package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/domain"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/pipeline"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/storage"
)

// Runner executes one visualization pipeline invocation. Satisfied by
// *pipeline.Coordinator.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Result
}

// App is the handler container holding the wired collaborators.
type App struct {
	Logger   zerolog.Logger
	Repo     domain.VisualizationRepository
	Pipeline Runner
	Store    *storage.FileStore

	// MaxUploadBytes caps the multipart form size for uploads.
	MaxUploadBytes int64
}

// NewApp constructs the handler container with defaults applied.
func NewApp(logger zerolog.Logger, repo domain.VisualizationRepository, runner Runner, store *storage.FileStore) *App {
	return &App{
		Logger:         logger,
		Repo:           repo,
		Pipeline:       runner,
		Store:          store,
		MaxUploadBytes: 20 << 20,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, errorBody{Error: msg})
}
