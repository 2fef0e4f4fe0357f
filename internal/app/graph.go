// Package app holds the wiring shared by the moviestore binaries.
package app

import (
	"context"
	"log/slog"

	"github.com/vanshika/moviestore/internal/config"
	"github.com/vanshika/moviestore/internal/graph"
	"github.com/vanshika/moviestore/internal/logging"
	"github.com/vanshika/moviestore/internal/repository"
)

// DriverOptions maps the graph config onto driver options, routing driver
// diagnostics through logger.
func DriverOptions(cfg config.GraphConfig, logger *slog.Logger) graph.Options {
	return graph.Options{
		URI:            cfg.URI,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
		FetchSize:      cfg.FetchSize,
		MaxRetryTime:   cfg.MaxRetryTime,
		Log:            logging.DriverLogger(logger),
	}
}

// OpenDriver connects to Neo4j and verifies connectivity.
func OpenDriver(ctx context.Context, cfg config.Config, logger *slog.Logger) (graph.Driver, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}
	driver, err := graph.NewNeo4jDriver(ctx, DriverOptions(cfg.Graph, logger))
	if err != nil {
		return nil, err
	}
	logger.Debug("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return driver, nil
}

// NewRepository builds a MovieRepository carrying the configured database,
// query timeout and fetch size as session defaults.
func NewRepository(driver graph.Driver, cfg config.GraphConfig, logger *slog.Logger) *repository.MovieRepository {
	return repository.New(driver,
		repository.WithDefaultDatabase(cfg.Database),
		repository.WithQueryTimeout(cfg.QueryTimeout),
		repository.WithFetchSize(cfg.FetchSize),
		repository.WithLogger(logger),
	)
}
