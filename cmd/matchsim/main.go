// cmd/matchsim/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ben3683914/maskhot-sub000/internal/common/config"
	"github.com/ben3683914/maskhot-sub000/internal/common/database"
	stderrors "github.com/ben3683914/maskhot-sub000/internal/common/errors"
	httpclient "github.com/ben3683914/maskhot-sub000/internal/common/http"
	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
	"github.com/ben3683914/maskhot-sub000/internal/common/observability"
	"github.com/ben3683914/maskhot-sub000/internal/content"
	"github.com/ben3683914/maskhot-sub000/internal/engine"
	"github.com/ben3683914/maskhot-sub000/internal/session"
	"github.com/ben3683914/maskhot-sub000/internal/telemetry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting matchsim...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("matchsim")
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Optional remote pack fetch ---
	if cfg.Content.RemoteURL != "" {
		client := httpclient.NewClient(30 * time.Second)
		err = retryWithBackoff(func() error {
			return content.FetchPack(ctx, client, cfg.Content.RemoteURL, cfg.Content.Dir, log)
		}, 5, 2*time.Second, zapLog, "Remote pack fetch")
		if err != nil {
			zapLog.Fatal("remote pack fetch failed", zap.Error(err))
		}
	}

	// --- Optional Redis cache ---
	var cache *content.Cache
	if cfg.Content.CacheEnabled {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis initialization")
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		defer redisClient.Close()
		cache = content.NewCache(redisClient.GetClient(), time.Duration(cfg.Content.CacheTTLSeconds)*time.Second, log)
	}

	// --- Content load ---
	var store *content.Store
	switch cfg.Content.Source {
	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "PostgreSQL initialization")
		if err != nil {
			zapLog.Fatal("postgres init failed", zap.Error(err))
		}
		defer pg.Close()

		store, err = content.NewPostgresLoader(pg.GetDB(), cfg.Content, log).Load(ctx)
	default:
		store, err = content.NewFileLoader(cfg.Content, cache, log).Load(ctx)
	}
	if err != nil {
		zapLog.Fatal("content load failed", zap.Error(err))
	}

	// --- Telemetry sink ---
	var sink telemetry.Sink
	switch cfg.Telemetry.Sink {
	case "elasticsearch":
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping()
		}, 5, 2*time.Second, zapLog, "Elasticsearch initialization")
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		sink = telemetry.NewElasticsearchSink(es.Client, cfg.Telemetry.Index, log)
	case "log":
		sink = telemetry.NewLogSink(log)
	default:
		sink = telemetry.NopSink{}
	}
	defer sink.Close(context.Background())

	// --- Engine + orchestrator ---
	eng := engine.New(cfg, store.Posts(), log)
	orch := session.NewOrchestrator(eng, store, sink, obs, cfg.Simulation, log)

	// --- Health + metrics HTTP server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"app":    cfg.App.Name,
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ready":      true,
				"candidates": len(store.Candidates()),
				"posts":      len(store.Posts()),
			})
		})
		http.Handle("/metrics", promhttp.Handler())

		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		zapLog.Info("health/metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("http server stopped", zap.Error(err))
		}
	}()

	// --- Run sessions until done or signaled ---
	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	policy := session.PolicyFromConfig(cfg.Simulation, rand.New(rand.NewSource(seed)))

	runDone := make(chan error, 1)
	go func() {
		runDone <- orch.Run(ctx, policy)
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping run...", zap.String("signal", sig.String()))
		cancel()
		<-runDone
	case err := <-runDone:
		if err != nil {
			stderrors.NewErrorHandler(log).Handle("session-run", err)
		} else {
			zapLog.Info("run complete")
		}
	}

	zapLog.Info("matchsim stopped")
}
