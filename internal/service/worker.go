package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/moviestore/internal/domain"
)

// TaskError accumulates multiple errors produced during bulk work.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

const defaultWorkers = 4

// BatchRunner fans movie work out over a bounded number of workers.
type BatchRunner struct {
	service *MovieService
	workers int
}

// NewBatchRunner creates a BatchRunner with the provided concurrency.
func NewBatchRunner(service *MovieService, workers int) *BatchRunner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &BatchRunner{
		service: service,
		workers: workers,
	}
}

// FindTitles looks every title up independently. Results keep the order of
// titles; a failed lookup is reported in its own result and does not stop the
// others. Only context cancellation aborts the batch.
func (br *BatchRunner) FindTitles(ctx context.Context, titles []string, database string) ([]domain.MovieBatchResult, error) {
	results := make([]domain.MovieBatchResult, len(titles))
	err := br.run(ctx, len(titles), func(ctx context.Context, idx int) error {
		movies, err := br.service.FindByTitle(ctx, titles[idx], database)
		results[idx] = domain.MovieBatchResult{Title: titles[idx], Movies: movies, Err: err}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// LoadMovies upserts every movie, collecting failures into a *TaskError.
func (br *BatchRunner) LoadMovies(ctx context.Context, movies []domain.Movie, database string) error {
	var (
		mu      sync.Mutex
		taskErr TaskError
	)
	err := br.run(ctx, len(movies), func(ctx context.Context, idx int) error {
		if err := br.service.Save(ctx, movies[idx], database); err != nil {
			if isCancellation(err) {
				return err
			}
			mu.Lock()
			taskErr.append(err)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return taskErr.asError()
}

func (br *BatchRunner) run(ctx context.Context, total int, workerFn func(ctx context.Context, idx int) error) error {
	if total == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(br.workers)

	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		idx := i
		g.Go(func() error {
			return workerFn(gctx, idx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
