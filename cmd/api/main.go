package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"records-atlas/internal/common/pagination"
	"records-atlas/internal/infra/checker"
	"records-atlas/internal/infra/corpus"
	"records-atlas/internal/infra/db"
	"records-atlas/internal/infra/summarizer"
	"records-atlas/internal/observability/logging"
	"records-atlas/internal/observability/tracing"
	"records-atlas/internal/repository"
	"records-atlas/pkg/config"

	pgRepo "records-atlas/internal/infra/adapter/persistence/postgres"
	sqliteRepo "records-atlas/internal/infra/adapter/persistence/sqlite"

	ingestUC "records-atlas/internal/usecase/ingest"
	jurUC "records-atlas/internal/usecase/jurisdiction"
	checkUC "records-atlas/internal/usecase/linkcheck"
	resUC "records-atlas/internal/usecase/resource"

	hhttp "records-atlas/internal/handler/http"
	hauth "records-atlas/internal/handler/http/auth"
	hjur "records-atlas/internal/handler/http/jurisdiction"
	hops "records-atlas/internal/handler/http/ops"
	"records-atlas/internal/handler/http/requestid"
	hres "records-atlas/internal/handler/http/resource"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	validateAuthConfig(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, "records-atlas-api")
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler := setupServer(logger, database, getVersion())
	runServer(ctx, cancel, logger, handler)
}

// validateAuthConfig fails fast on missing or weak auth configuration so a
// misconfigured deployment never serves protected endpoints unguarded.
func validateAuthConfig(logger *slog.Logger) {
	if err := hauth.ValidateSecret(); err != nil {
		logger.Error("auth configuration invalid", slog.Any("error", err))
		os.Exit(1)
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database, db.Driver()); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func getVersion() string {
	return config.GetEnvString("VERSION", "dev")
}

// repos bundles the repository set for the configured driver.
type repos struct {
	Jurisdictions repository.JurisdictionRepository
	Resources     repository.ResourceRepository
	Notices       repository.NoticeRepository
}

func newRepos(database *sql.DB) repos {
	if db.Driver() == db.DriverSQLite {
		return repos{
			Jurisdictions: sqliteRepo.NewJurisdictionRepo(database),
			Resources:     sqliteRepo.NewResourceRepo(database),
			Notices:       sqliteRepo.NewNoticeRepo(database),
		}
	}
	return repos{
		Jurisdictions: pgRepo.NewJurisdictionRepo(database),
		Resources:     pgRepo.NewResourceRepo(database),
		Notices:       pgRepo.NewNoticeRepo(database),
	}
}

// createSummarizer selects the overview summarizer from SUMMARIZER_TYPE.
// "none" disables overview generation; imports still run, pages just keep
// an empty overview.
func createSummarizer(logger *slog.Logger) ingestUC.Summarizer {
	summarizerType := config.GetEnvString("SUMMARIZER_TYPE", "none")

	switch summarizerType {
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when SUMMARIZER_TYPE=claude")
			os.Exit(1)
		}
		logger.Info("using Claude API for overview generation")
		return summarizer.NewClaude(apiKey)
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when SUMMARIZER_TYPE=openai")
			os.Exit(1)
		}
		logger.Info("using OpenAI API for overview generation")
		return summarizer.NewOpenAI(apiKey)
	case "none":
		logger.Info("overview generation disabled")
		return nil
	default:
		logger.Error("invalid SUMMARIZER_TYPE",
			slog.String("type", summarizerType),
			slog.String("expected", "claude, openai, or none"))
		os.Exit(1)
		return nil
	}
}

// setupServer wires services, routes, and the middleware chain.
func setupServer(logger *slog.Logger, database *sql.DB, version string) http.Handler {
	r := newRepos(database)

	jurSvc := jurUC.Service{Repo: r.Jurisdictions}
	resSvc := resUC.Service{Repo: r.Resources, NoticeRepo: r.Notices}

	corpusDir := config.GetEnvString("CORPUS_DIR", "corpus")
	loader, err := corpus.NewLoader(corpusDir)
	if err != nil {
		logger.Error("failed to open corpus",
			slog.String("dir", corpusDir),
			slog.Any("error", err))
		os.Exit(1)
	}

	ingestSvc := &ingestUC.Service{
		JurisdictionRepo: r.Jurisdictions,
		ResourceRepo:     r.Resources,
		Corpus:           loader,
		Summarizer:       createSummarizer(logger),
	}

	checkerCfg := checker.LoadConfigFromEnv()
	prober := checker.NewChecker(checkerCfg, logger)
	checkSvc := checkUC.NewService(r.Resources, r.Jurisdictions, prober, nil, checkerCfg.Parallelism, checkerCfg.Interval)

	// Search endpoints allow 100 requests per minute per IP; the token
	// endpoint 5 per minute to slow down credential stuffing.
	searchRateLimiter := hhttp.NewRateLimiter(100, 1*time.Minute)
	authRateLimiter := hhttp.NewRateLimiter(5, 1*time.Minute)

	mux := http.NewServeMux()
	mux.Handle("POST /auth/token", authRateLimiter.Limit(hauth.TokenHandler()))
	mux.Handle("GET /healthz", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	hjur.Register(mux, jurSvc, resSvc, searchRateLimiter)
	hres.Register(mux, resSvc, jurSvc, searchRateLimiter, pagination.LoadFromEnv())
	hops.Register(mux, ingestSvc, &checkSvc)

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the mux with the middleware chain, applied in
// reverse so the request flows request ID, tracing, logging, metrics,
// recovery, body limit, handler.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	chain := handler
	chain = hhttp.LimitRequestBody(1 << 20)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, handler http.Handler) {
	addr := ":" + config.GetEnvString("PORT", "8080")

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
