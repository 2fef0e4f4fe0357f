package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vanshika/moviestore/internal/domain"
	"github.com/vanshika/moviestore/internal/graph"
)

const (
	findMoviesByTitleCypher = "MATCH (m:Movie) WHERE m.title = $title RETURN m"

	upsertMovieCypher = `
MERGE (m:Movie {title: $title})
SET m.tagline = $tagline,
    m.released = $released
`
)

// Option customises a MovieRepository.
type Option func(*MovieRepository)

// WithDefaultDatabase sets the database used when a call does not name one.
func WithDefaultDatabase(name string) Option {
	return func(r *MovieRepository) {
		r.defaults = append(r.defaults, graph.WithDatabase(name))
	}
}

// WithQueryTimeout bounds every transaction the repository runs.
func WithQueryTimeout(d time.Duration) Option {
	return func(r *MovieRepository) {
		if d > 0 {
			r.defaults = append(r.defaults, graph.WithTxTimeout(d))
		}
	}
}

// WithFetchSize sets the per-batch record fetch size for repository sessions.
func WithFetchSize(n int) Option {
	return func(r *MovieRepository) {
		if n != 0 {
			r.defaults = append(r.defaults, graph.WithFetchSize(n))
		}
	}
}

// WithLogger attaches a logger used for debug-level query tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *MovieRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// MovieRepository reads and writes :Movie nodes. It holds no mutable state and
// is safe for concurrent use.
type MovieRepository struct {
	driver   graph.Driver
	defaults []graph.SessionOption
	logger   *slog.Logger
}

// New instantiates a MovieRepository backed by the supplied graph driver.
func New(driver graph.Driver, opts ...Option) *MovieRepository {
	r := &MovieRepository{
		driver: driver,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindMoviesByTitle returns every movie whose title equals title, in the order
// the database yields them. Passing graph.WithDatabase scopes the read to that
// database; otherwise the repository default (or the driver default) is used.
// The session is always closed before returning.
func (r *MovieRepository) FindMoviesByTitle(ctx context.Context, title string, opts ...graph.SessionOption) (movies []domain.Movie, err error) {
	cfg := r.sessionConfig(opts...)
	start := time.Now()

	session := r.driver.NewSession(ctx, cfg)
	defer func() {
		if closeErr := session.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close session: %w", closeErr))
			movies = nil
		}
	}()

	result, err := session.ExecuteRead(ctx, func(tx graph.Transaction) (any, error) {
		cursor, err := tx.Run(ctx, findMoviesByTitleCypher, map[string]any{
			"title": title,
		})
		if err != nil {
			return nil, fmt.Errorf("run movie query: %w", err)
		}
		return drainMovies(ctx, cursor)
	})
	if err != nil {
		return nil, fmt.Errorf("find movies by title: %w", err)
	}

	movies, ok := result.([]domain.Movie)
	if !ok {
		return nil, fmt.Errorf("find movies by title: unexpected result type %T", result)
	}

	r.logger.Debug("movies fetched",
		"title", title,
		"database", cfg.Database(),
		"count", len(movies),
		"duration", time.Since(start),
	)
	return movies, nil
}

// UpsertMovie creates or updates the :Movie node keyed by title.
func (r *MovieRepository) UpsertMovie(ctx context.Context, movie domain.Movie, opts ...graph.SessionOption) (err error) {
	if movie.Title == "" {
		return ErrEmptyTitle
	}

	writeOpts := append(append([]graph.SessionOption(nil), opts...), graph.WithWriteAccess())
	cfg := r.sessionConfig(writeOpts...)
	session := r.driver.NewSession(ctx, cfg)
	defer func() {
		if closeErr := session.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close session: %w", closeErr))
		}
	}()

	_, err = session.ExecuteWrite(ctx, func(tx graph.Transaction) (any, error) {
		cursor, err := tx.Run(ctx, upsertMovieCypher, movieParams(movie))
		if err != nil {
			return nil, err
		}
		for cursor.Next(ctx) {
			// MERGE ... SET returns no rows; draining surfaces server errors.
		}
		return nil, cursor.Err()
	})
	if err != nil {
		return fmt.Errorf("upsert movie %q: %w", movie.Title, err)
	}
	return nil
}

func (r *MovieRepository) sessionConfig(opts ...graph.SessionOption) graph.SessionConfig {
	all := make([]graph.SessionOption, 0, len(r.defaults)+len(opts))
	all = append(all, r.defaults...)
	all = append(all, opts...)
	return graph.NewSessionConfig(all...)
}

func movieParams(m domain.Movie) map[string]any {
	var released any
	if m.Released != nil {
		released = *m.Released
	}
	return map[string]any{
		"title":    m.Title,
		"tagline":  m.Tagline,
		"released": released,
	}
}
