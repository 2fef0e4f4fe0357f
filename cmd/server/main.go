package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vanshika/moviestore/internal/app"
	"github.com/vanshika/moviestore/internal/config"
	"github.com/vanshika/moviestore/internal/logging"
	"github.com/vanshika/moviestore/internal/server"
	"github.com/vanshika/moviestore/internal/service"
)

const batchWorkers = 8

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	driver, err := app.OpenDriver(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create graph driver", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := driver.Close(context.Background()); err != nil {
			logger.Warn("closing graph driver failed", "error", err)
		}
	}()

	movieService := service.NewMovieService(app.NewRepository(driver, cfg.Graph, logger))
	apiHandlers := server.NewAPIHandlers(logger, movieService, service.NewBatchRunner(movieService, batchWorkers))

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Driver: driver},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(csv, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
