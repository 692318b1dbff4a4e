package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/adapter/repo"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/http/handlers"
	httpapi "github.com/jrlacey28/landscaping-visualization-app-sub001/internal/http/httpapi"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/infra"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/pipeline"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/providers/openai"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/providers/replicate"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/storage"
)

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload directory")
	}

	segmenter, err := replicate.NewClient(replicate.Options{
		APIToken:     cfg.ReplicateAPIToken,
		BaseURL:      cfg.ReplicateBaseURL,
		Version:      cfg.ReplicateVersion,
		PollInterval: cfg.SegmentInterval,
		PollTimeout:  cfg.SegmentTimeout,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build segmentation client")
	}
	editor, err := openai.NewClient(openai.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build edit client")
	}
	if !editor.HasCredentials() {
		logger.Warn().Msg("OPENAI_API_KEY not set, edit calls will fail")
	}
	if !segmenter.HasCredentials() {
		logger.Warn().Msg("REPLICATE_API_TOKEN not set, segmentation runs degraded")
	}

	coordinator, err := pipeline.New(pipeline.Options{
		Segmenter: segmenter,
		Editor:    editor,
		Params:    replicate.FastParams,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	runner := infra.NewSQLRunner(dbpool, logger)
	visualizations := repo.NewVisualizationRepository(runner)

	app := handlers.NewApp(logger, visualizations, coordinator, store)
	router := httpapi.NewRouter(app, logger, store.BasePath(), cfg.CORSAllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
