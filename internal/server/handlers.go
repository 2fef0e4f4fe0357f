package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vanshika/moviestore/internal/domain"
	"github.com/vanshika/moviestore/internal/repository"
)

const maxBatchTitles = 100

// MovieFinder looks movies up by exact title.
type MovieFinder interface {
	FindByTitle(ctx context.Context, title, database string) ([]domain.Movie, error)
}

// BatchFinder looks several titles up concurrently.
type BatchFinder interface {
	FindTitles(ctx context.Context, titles []string, database string) ([]domain.MovieBatchResult, error)
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger *slog.Logger
	movies MovieFinder
	batch  BatchFinder
}

// NewAPIHandlers constructs an APIHandlers instance. batch may be nil, in
// which case the batch endpoint is not served.
func NewAPIHandlers(logger *slog.Logger, movies MovieFinder, batch BatchFinder) *APIHandlers {
	return &APIHandlers{
		logger: logger,
		movies: movies,
		batch:  batch,
	}
}

func (h *APIHandlers) handleMovies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	title := query.Get("title")
	database := query.Get("database")
	if strings.TrimSpace(title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	movies, err := h.movies.FindByTitle(r.Context(), title, database)
	if err != nil {
		status, msg := classifyError(err)
		h.logger.Error("failed to find movies", "error", err, "title", title, "database", database)
		writeError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, movieListResponse{
		Title:    title,
		Database: database,
		Count:    len(movies),
		Movies:   toMovieResponses(movies),
	})
}

func (h *APIHandlers) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Titles) == 0 {
		writeError(w, http.StatusBadRequest, "titles are required")
		return
	}
	if len(req.Titles) > maxBatchTitles {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d titles per batch", maxBatchTitles))
		return
	}

	results, err := h.batch.FindTitles(r.Context(), req.Titles, req.Database)
	if err != nil {
		status, msg := classifyError(err)
		h.logger.Error("batch lookup failed", "error", err, "titles", len(req.Titles))
		writeError(w, status, msg)
		return
	}

	response := batchResponse{Database: req.Database, Results: make([]batchResult, 0, len(results))}
	for _, res := range results {
		item := batchResult{Title: res.Title, Movies: toMovieResponses(res.Movies)}
		if res.Err != nil {
			h.logger.Warn("batch title failed", "error", res.Err, "title", res.Title)
			_, item.Error = classifyError(res.Err)
			item.Movies = []movieResponse{}
		}
		response.Results = append(response.Results, item)
	}

	respondJSON(w, http.StatusOK, response)
}

type movieResponse struct {
	Title    string `json:"title"`
	Tagline  string `json:"tagline"`
	Released *int64 `json:"released"`
}

type movieListResponse struct {
	Title    string          `json:"title"`
	Database string          `json:"database,omitempty"`
	Count    int             `json:"count"`
	Movies   []movieResponse `json:"movies"`
}

type batchRequest struct {
	Titles   []string `json:"titles"`
	Database string   `json:"database"`
}

type batchResult struct {
	Title  string          `json:"title"`
	Movies []movieResponse `json:"movies"`
	Error  string          `json:"error,omitempty"`
}

type batchResponse struct {
	Database string        `json:"database,omitempty"`
	Results  []batchResult `json:"results"`
}

func toMovieResponses(movies []domain.Movie) []movieResponse {
	out := make([]movieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieResponse{
			Title:    m.Title,
			Tagline:  m.Tagline,
			Released: m.Released,
		})
	}
	return out
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrEmptyTitle):
		return http.StatusBadRequest, "title is required"
	case errors.Is(err, repository.ErrMapping):
		return http.StatusBadGateway, "stored movie data is malformed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "graph query timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusInternalServerError, "failed to find movies"
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
