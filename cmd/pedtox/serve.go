package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Skufu/pedtox/internal/config"
	"github.com/Skufu/pedtox/internal/platform/db"
	"github.com/Skufu/pedtox/internal/platform/logger"
	"github.com/Skufu/pedtox/internal/server"
	"github.com/Skufu/pedtox/internal/toxplan"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().String("port", "8080", "Port to listen on (PORT)")
	cmd.Flags().Float64("min-weight-kg", toxplan.DefaultMinWeightKg, "Minimum accepted weight (MIN_WEIGHT_KG)")
	cmd.Flags().Float64("max-weight-kg", toxplan.DefaultMaxWeightKg, "Maximum accepted weight (MAX_WEIGHT_KG)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	planner, err := toxplan.NewPlanner(cfg.Limits())
	if err != nil {
		return err
	}

	var hc db.HealthChecker
	if cfg.EnableDB {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			return err
		}
		defer pool.Close()
		hc = pool
	}

	router := server.New(server.Options{
		Planner:     planner,
		DB:          hc,
		StaticRoot:  server.DetectStaticRoot(),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().
		Str("port", cfg.Port).
		Float64("min_weight_kg", cfg.MinWeightKg).
		Float64("max_weight_kg", cfg.MaxWeightKg).
		Bool("db", cfg.EnableDB).
		Msg("server listening")

	return waitForShutdown(srv, errCh, log)
}

func waitForShutdown(srv *http.Server, errCh <-chan error, log zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	case <-stop:
	}

	log.Info().Msg("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
