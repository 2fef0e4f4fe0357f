package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/moviestore/internal/domain"
	"github.com/vanshika/moviestore/internal/graph"
	"github.com/vanshika/moviestore/internal/repository"
)

type stubRepository struct {
	mu        sync.Mutex
	movies    map[string][]domain.Movie
	findErr   map[string]error
	saveErr   map[string]error
	saved     []domain.Movie
	databases []string
	delay     time.Duration
	inFlight  atomic.Int32
	maxFlight atomic.Int32
}

func (s *stubRepository) enter() func() {
	n := s.inFlight.Add(1)
	for {
		cur := s.maxFlight.Load()
		if n <= cur || s.maxFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return func() { s.inFlight.Add(-1) }
}

func (s *stubRepository) FindMoviesByTitle(ctx context.Context, title string, opts ...graph.SessionOption) ([]domain.Movie, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databases = append(s.databases, graph.NewSessionConfig(opts...).Database())
	if err := s.findErr[title]; err != nil {
		return nil, err
	}
	return append([]domain.Movie{}, s.movies[title]...), nil
}

func (s *stubRepository) UpsertMovie(ctx context.Context, movie domain.Movie, opts ...graph.SessionOption) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveErr[movie.Title]; err != nil {
		return err
	}
	s.saved = append(s.saved, movie)
	s.databases = append(s.databases, graph.NewSessionConfig(opts...).Database())
	return nil
}

func TestMovieService_FindByTitle(t *testing.T) {
	repo := &stubRepository{movies: map[string][]domain.Movie{
		"Heat": {{Title: "Heat", Tagline: "A Los Angeles Crime Saga", Released: domain.Year(1995)}},
	}}
	svc := NewMovieService(repo)

	movies, err := svc.FindByTitle(context.Background(), "Heat", "movies")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Heat", movies[0].Title)

	_, err = svc.FindByTitle(context.Background(), "Heat", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"movies", ""}, repo.databases)
}

func TestMovieService_RejectsBlankTitles(t *testing.T) {
	repo := &stubRepository{}
	svc := NewMovieService(repo)

	_, err := svc.FindByTitle(context.Background(), "   ", "")
	assert.ErrorIs(t, err, repository.ErrEmptyTitle)

	err = svc.Save(context.Background(), domain.Movie{}, "")
	assert.ErrorIs(t, err, repository.ErrEmptyTitle)

	assert.Empty(t, repo.databases)
}

func TestMovieService_PassesTitleVerbatim(t *testing.T) {
	mem := graph.NewMemoryDriver()
	mem.PushResult(graph.RecordOf("m", dbtype.Node{Props: map[string]any{
		"title":   " Heat ",
		"tagline": "padded",
	}}))
	svc := NewMovieService(repository.New(mem))

	movies, err := svc.FindByTitle(context.Background(), " Heat ", "movies")
	require.NoError(t, err)
	require.Len(t, movies, 1)

	queries := mem.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, " Heat ", queries[0].Params["title"])
	assert.Equal(t, "movies", queries[0].Database)
}

func TestBatchRunner_FindTitlesKeepsOrderAndIsolatesFailures(t *testing.T) {
	boom := errors.New("boom")
	repo := &stubRepository{
		movies: map[string][]domain.Movie{
			"A": {{Title: "A"}},
			"C": {{Title: "C"}, {Title: "C"}},
		},
		findErr: map[string]error{"B": boom},
	}
	runner := NewBatchRunner(NewMovieService(repo), 2)

	results, err := runner.FindTitles(context.Background(), []string{"A", "B", "C", ""}, "")
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "A", results[0].Title)
	assert.Len(t, results[0].Movies, 1)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, "B", results[1].Title)
	assert.ErrorIs(t, results[1].Err, boom)

	assert.Len(t, results[2].Movies, 2)
	assert.ErrorIs(t, results[3].Err, repository.ErrEmptyTitle)
}

func TestBatchRunner_RespectsWorkerLimit(t *testing.T) {
	repo := &stubRepository{delay: 5 * time.Millisecond}
	runner := NewBatchRunner(NewMovieService(repo), 2)

	titles := make([]string, 12)
	for i := range titles {
		titles[i] = "T"
	}
	_, err := runner.FindTitles(context.Background(), titles, "")
	require.NoError(t, err)

	assert.LessOrEqual(t, repo.maxFlight.Load(), int32(2))
	assert.Len(t, repo.databases, len(titles))
}

func TestBatchRunner_LoadMoviesAggregatesErrors(t *testing.T) {
	errB := errors.New("b failed")
	errD := errors.New("d failed")
	repo := &stubRepository{saveErr: map[string]error{"B": errB, "D": errD}}
	runner := NewBatchRunner(NewMovieService(repo), 3)

	movies := []domain.Movie{{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"}}
	err := runner.LoadMovies(context.Background(), movies, "movies")
	require.Error(t, err)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 2)
	assert.ErrorIs(t, err, errB)
	assert.ErrorIs(t, err, errD)
	assert.Len(t, repo.saved, 2)
}

func TestBatchRunner_StopsOnCancellation(t *testing.T) {
	repo := &stubRepository{}
	runner := NewBatchRunner(NewMovieService(repo), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.FindTitles(ctx, []string{"A", "B"}, "")
	assert.ErrorIs(t, err, context.Canceled)

	err = runner.LoadMovies(ctx, []domain.Movie{{Title: "A"}}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBatchRunner_EmptyInput(t *testing.T) {
	runner := NewBatchRunner(NewMovieService(&stubRepository{}), 0)

	results, err := runner.FindTitles(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, runner.LoadMovies(context.Background(), nil, ""))
}

func TestTaskError_Message(t *testing.T) {
	var te TaskError
	assert.Equal(t, "no errors", te.Error())
	assert.NoError(t, te.asError())

	te.append(errors.New("one"))
	assert.Equal(t, "one", te.Error())

	te.append(nil)
	te.append(errors.New("two"))
	assert.Equal(t, "multiple errors: one; two;", te.Error())
}
