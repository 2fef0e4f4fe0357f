package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/vanshika/moviestore/internal/domain"
	"github.com/vanshika/moviestore/internal/graph"
)

const movieColumn = "m"

var (
	// ErrMapping matches any *MappingError.
	ErrMapping = errors.New("map movie record")
	// ErrEmptyTitle is returned when a movie title is required but blank.
	ErrEmptyTitle = errors.New("movie title is required")

	errNoRecord = errors.New("cursor has no current record")
	errNullNode = errors.New("value is null")
)

// MappingError reports a row that could not be turned into a domain.Movie.
type MappingError struct {
	Column   string
	Property string
	Err      error
}

func (e *MappingError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s: column %q property %q: %v", ErrMapping, e.Column, e.Property, e.Err)
	}
	return fmt.Sprintf("%s: column %q: %v", ErrMapping, e.Column, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMapping) match any mapping failure.
func (e *MappingError) Is(target error) bool { return target == ErrMapping }

// drainMovies advances the cursor until it is exhausted, decoding one movie
// per row. For N rows Next is called N+1 times.
func drainMovies(ctx context.Context, cursor graph.Cursor) ([]domain.Movie, error) {
	movies := make([]domain.Movie, 0)
	for cursor.Next(ctx) {
		movie, err := decodeMovie(cursor.Record())
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("read movie cursor: %w", err)
	}
	return movies, nil
}

func decodeMovie(record *neo4j.Record) (domain.Movie, error) {
	if record == nil {
		return domain.Movie{}, &MappingError{Column: movieColumn, Err: errNoRecord}
	}

	node, isNil, err := neo4j.GetRecordValue[neo4j.Node](record, movieColumn)
	if err != nil {
		return domain.Movie{}, &MappingError{Column: movieColumn, Err: err}
	}
	if isNil {
		return domain.Movie{}, &MappingError{Column: movieColumn, Err: errNullNode}
	}

	title, err := neo4j.GetProperty[string](node, "title")
	if err != nil {
		return domain.Movie{}, &MappingError{Column: movieColumn, Property: "title", Err: err}
	}
	tagline, err := neo4j.GetProperty[string](node, "tagline")
	if err != nil {
		return domain.Movie{}, &MappingError{Column: movieColumn, Property: "tagline", Err: err}
	}
	released, err := optionalInt(node, "released")
	if err != nil {
		return domain.Movie{}, &MappingError{Column: movieColumn, Property: "released", Err: err}
	}

	return domain.Movie{
		Title:    title,
		Tagline:  tagline,
		Released: released,
	}, nil
}

// optionalInt treats an absent or null property as unknown rather than zero.
// The property is looked up once.
func optionalInt(node neo4j.Node, key string) (*int64, error) {
	switch v := node.GetProperties()[key].(type) {
	case nil:
		return nil, nil
	case int64:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected int64, got %T", v)
	}
}
