package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rushteam/prodrec/catalog"
	"github.com/rushteam/prodrec/config"
	"github.com/rushteam/prodrec/core"
	"github.com/rushteam/prodrec/feast"
	"github.com/rushteam/prodrec/feature"
	"github.com/rushteam/prodrec/pipeline"
	"github.com/rushteam/prodrec/prefstore"
	"github.com/rushteam/prodrec/server"
	"github.com/rushteam/prodrec/similarity"
	"github.com/rushteam/prodrec/store"
)

func main() {
	configPath := flag.String("config", "", "service config file (yaml)")
	flag.Parse()

	// .env 缺失不是错误
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "prodrec").Logger()

	cfg, err := config.LoadService(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	backend, err := newStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.Store).Msg("init store")
	}
	defer backend.Close()

	cat, err := catalog.LoadCSV(cfg.CatalogCSV)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.CatalogCSV).Msg("load catalog")
	}
	logger.Info().Int("products", cat.Size()).Msg("catalog loaded")

	model, err := similarity.Load(cfg.SimilarityArtifact)
	if err != nil {
		// 模型缺失/损坏时服务降级运行：相似度分全部为 0
		logger.Warn().Err(err).Str("path", cfg.SimilarityArtifact).Msg("similarity model unavailable, running degraded")
		model = similarity.Empty()
	} else {
		logger.Info().Int("items", model.Len()).Msg("similarity model loaded")
	}

	policies := config.NewPolicyRegistry(config.PolicyDeps{
		Source:         cat,
		Similarity:     model,
		CandidateLimit: cfg.CandidateLimit,
		DefaultK:       cfg.DefaultK,
		Enrich:         newEnrich(cfg, logger),
	})

	srv := &server.Server{
		Catalog:  cat,
		Prefs:    prefstore.New(backend, cfg.PrefsKeyPrefix),
		Policies: policies,
		MaxK:     cfg.MaxK,
		DefaultK: cfg.DefaultK,
		Logger:   logger,
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newStore(cfg *config.ServiceConfig) (core.Store, error) {
	switch cfg.Store {
	case "redis":
		return store.NewRedisStore(cfg.RedisAddr, cfg.RedisDB)
	default:
		return store.NewMemoryStore(), nil
	}
}

func newEnrich(cfg *config.ServiceConfig, logger zerolog.Logger) pipeline.Node {
	if cfg.Feast.Host == "" || len(cfg.Feast.Features) == 0 {
		return nil
	}
	client, err := feast.NewGrpcClient(cfg.Feast.Host, cfg.Feast.Port, cfg.Feast.Project)
	if err != nil {
		logger.Warn().Err(err).Msg("feast unavailable, skipping feature enrichment")
		return nil
	}
	return &feature.EnrichNode{
		Feast:       client,
		FeatureRefs: cfg.Feast.Features,
	}
}
