package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/catalog"
	"github.com/vibefinder/vibefinder/internal/catalog/sample"
	catalogSqlite "github.com/vibefinder/vibefinder/internal/catalog/sqlite"
	"github.com/vibefinder/vibefinder/internal/config"
	dbRedis "github.com/vibefinder/vibefinder/internal/db/redis"
	logpkg "github.com/vibefinder/vibefinder/internal/logger"
	"github.com/vibefinder/vibefinder/internal/metrics"
	gamesrepo "github.com/vibefinder/vibefinder/internal/repository/games"
	chiTransport "github.com/vibefinder/vibefinder/internal/transport/chi"
	openaiTransport "github.com/vibefinder/vibefinder/internal/transport/openai"
	"github.com/vibefinder/vibefinder/internal/usecase/enhance"
	healthuc "github.com/vibefinder/vibefinder/internal/usecase/health"
	indexuc "github.com/vibefinder/vibefinder/internal/usecase/index"
	"github.com/vibefinder/vibefinder/internal/usecase/recommend"
	"github.com/vibefinder/vibefinder/internal/usecase/synthesize"
	"github.com/vibefinder/vibefinder/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting vibefinder API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register model provider metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterLLMMetrics()

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Separate chat models per pipeline role so metrics can tell the two
	// call sites apart. Stop tokens only apply to enhancement, which must
	// produce a single line.
	enhanceModel := openaiTransport.NewChatModel(&openaiTransport.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		StopTokens:  cfg.LLM.StopTokens,
		Role:        "enhance",
		Logger:      logger,
	})
	synthesizeModel := openaiTransport.NewChatModel(&openaiTransport.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Role:        "synthesize",
		Logger:      logger,
	})

	repo := gamesrepo.New(store, gamesrepo.Config{
		Collection:      cfg.Collection.Name,
		KeyPrefix:       cfg.Collection.KeyPrefix,
		HNSWM:           cfg.Collection.HNSWM,
		HNSWEFConstruct: cfg.Collection.HNSWEFConstruct,
	})

	indexSvc := indexuc.NewService(repo, embedder, indexuc.Config{
		SearchLimit:    cfg.Pipeline.SearchLimit,
		ScoreThreshold: cfg.Pipeline.ScoreThreshold,
		MaxBatchSize:   cfg.Collection.MaxBatchSize,
	}, logger)

	if err := indexSvc.Available(ctx); err != nil {
		logger.Fatal("Vector backend unavailable", zap.Error(err))
	}
	if err := indexSvc.EnsureCollection(ctx); err != nil {
		logger.Fatal("Failed to ensure collection", zap.Error(err))
	}

	seedCatalog(ctx, cfg.Catalog, indexSvc, logger)

	pipeline := recommend.NewPipeline(
		enhance.NewEnhancer(enhanceModel, logger),
		indexSvc,
		synthesize.NewSynthesizer(synthesizeModel, logger),
		recommend.Config{
			StageTimeout: time.Duration(cfg.Pipeline.StageTimeoutSec) * time.Second,
		},
		logger,
	)

	healthSvc := healthuc.New(store, embedder, enhanceModel)

	server := chiTransport.NewServer(pipeline, indexSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.RequestIDMiddleware)
	r.Use(requestLogMiddleware(logger))
	r.Use(jsonRecoverer())
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// seedCatalog indexes games from the configured local sources at startup.
// Seeding failures are logged, not fatal: the API can still serve whatever
// is already indexed.
func seedCatalog(ctx context.Context, cfg config.CatalogConfig, indexSvc *indexuc.Service, logger *zap.Logger) {
	var sources []catalog.Source

	if cfg.SQLitePath != "" {
		dbStore, err := catalogSqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Warn("Failed to open sqlite catalog", zap.String("path", cfg.SQLitePath), zap.Error(err))
		} else {
			defer dbStore.Close()
			sources = append(sources, dbStore)
		}
	}
	if cfg.SamplePath != "" {
		sources = append(sources, sample.NewLoader(cfg.SamplePath))
	}

	for _, src := range sources {
		records, err := src.Load(ctx)
		if err != nil {
			logger.Warn("Failed to load catalog source", zap.Error(err))
			continue
		}
		report, err := indexSvc.AddGames(ctx, records)
		if err != nil {
			logger.Warn("Failed to index catalog records", zap.Error(err))
			continue
		}
		logger.Info("Seeded catalog source",
			zap.Int("loaded", len(records)),
			zap.Int("indexed", report.Succeeded()),
			zap.Int("skipped", report.Skipped()),
		)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logpkg.FromContext(r.Context()).Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogMiddleware stores a request-scoped logger in the context and
// emits a canonical log line per request.
func requestLogMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := chiTransport.RequestIDFromContext(r.Context())

			reqLogger := logger.With(zap.String("request_id", requestID))
			r = r.WithContext(logpkg.ContextWithLogger(r.Context(), reqLogger))

			ww := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			reqLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
