package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"airsage/internal/cfg"
	"airsage/internal/dashboard"
	"airsage/internal/metrics"
	"airsage/internal/model"
	"airsage/internal/pipeline"
	"airsage/internal/storage"
)

func main() {
	_ = godotenv.Load() // optional .env

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	provider := initializeProvider(c, mw)
	pipe := pipeline.New(provider, mw)

	store := initializeStorage(c)
	if store != nil {
		defer store.Close()
	}

	startMetricsServer(ctx, c, provider)

	dash := dashboard.New(pipe, provider, store, mw, c.AlertThreshold, c.ListenPort)
	if err := dash.Start(); err != nil {
		log.Fatal().Err(err).Msg("dashboard start failed")
	}

	waitForShutdown(ctx)

	if err := dash.Stop(); err != nil {
		log.Error().Err(err).Msg("dashboard shutdown failed")
	}
}

// initializeProvider selects the remote inference service when a model URL
// is configured, otherwise loads the local artifact. Either way a load
// failure yields a degraded provider, not an exit.
func initializeProvider(c cfg.Settings, mw *metrics.Wrapper) model.Provider {
	var provider model.Provider
	if c.ModelURL != "" {
		provider = model.NewRemote(c.ModelURL, c.RequestTimeout)
	} else {
		provider = model.New(c.ModelPath)
	}

	info := model.Describe(provider)
	if info.Available && !info.TrainedAt.IsZero() {
		mw.ModelAgeSet(time.Since(info.TrainedAt).Seconds())
	}
	return provider
}

// initializeStorage opens the history store if DATA_PATH is configured.
func initializeStorage(c cfg.Settings) *storage.Store {
	if c.DataPath == "" {
		return nil
	}
	store, err := storage.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without history")
		return nil
	}
	return store
}

// startMetricsServer starts the Prometheus metrics HTTP server.
func startMetricsServer(ctx context.Context, c cfg.Settings, provider model.Provider) {
	go func() {
		mux := http.NewServeMux()

		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if !model.Describe(provider).Available {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK (degraded: model unavailable)"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", c.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			if err := server.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// waitForShutdown blocks until a termination signal arrives.
func waitForShutdown(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	log.Info().Msg("shutting down gracefully...")
}
