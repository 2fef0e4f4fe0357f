package service

import (
	"context"
	"strings"

	"github.com/vanshika/moviestore/internal/domain"
	"github.com/vanshika/moviestore/internal/graph"
	"github.com/vanshika/moviestore/internal/repository"
)

// MovieRepository is the storage contract required by the movie service.
type MovieRepository interface {
	FindMoviesByTitle(ctx context.Context, title string, opts ...graph.SessionOption) ([]domain.Movie, error)
	UpsertMovie(ctx context.Context, movie domain.Movie, opts ...graph.SessionOption) error
}

// MovieService validates lookups before delegating to the repository.
type MovieService struct {
	repo MovieRepository
}

// NewMovieService constructs a MovieService.
func NewMovieService(repo MovieRepository) *MovieService {
	return &MovieService{repo: repo}
}

// FindByTitle looks up movies with exactly the given title. Titles are matched
// verbatim; a title that is empty after trimming is rejected.
func (s *MovieService) FindByTitle(ctx context.Context, title, database string) ([]domain.Movie, error) {
	if strings.TrimSpace(title) == "" {
		return nil, repository.ErrEmptyTitle
	}
	return s.repo.FindMoviesByTitle(ctx, title, databaseOptions(database)...)
}

// Save upserts a single movie.
func (s *MovieService) Save(ctx context.Context, movie domain.Movie, database string) error {
	if strings.TrimSpace(movie.Title) == "" {
		return repository.ErrEmptyTitle
	}
	return s.repo.UpsertMovie(ctx, movie, databaseOptions(database)...)
}

func databaseOptions(database string) []graph.SessionOption {
	if database == "" {
		return nil
	}
	return []graph.SessionOption{graph.WithDatabase(database)}
}
