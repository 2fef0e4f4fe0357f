package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/moviestore/internal/domain"
)

// Dataset contains the generated movies.
type Dataset struct {
	Movies []domain.Movie `json:"movies"`
}

// Generator produces a synthetic movie catalogue. The same seed yields the same dataset.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumMovies <= 0 {
		cfg.NumMovies = DefaultConfig().NumMovies
	}
	cfg.RemakeChance = clampProbability(cfg.RemakeChance)
	cfg.UnknownReleaseChance = clampProbability(cfg.UnknownReleaseChance)
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises movies. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	movies := make([]domain.Movie, g.cfg.NumMovies)
	seen := make(map[string]struct{}, g.cfg.NumMovies)
	var titles []string

	for i := 0; i < g.cfg.NumMovies; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}

		var title string
		if len(titles) > 0 && g.rand.Float64() < g.cfg.RemakeChance {
			title = titles[g.rand.Intn(len(titles))]
		} else {
			title = g.uniqueTitle(seen, i)
			titles = append(titles, title)
		}

		movie := domain.Movie{
			Title:   title,
			Tagline: g.randomTagline(),
		}
		if g.rand.Float64() >= g.cfg.UnknownReleaseChance {
			movie.Released = domain.Year(int64(1920 + g.rand.Intn(106)))
		}
		movies[i] = movie
	}

	return Dataset{Movies: movies}, nil
}

func (g *Generator) uniqueTitle(seen map[string]struct{}, n int) string {
	for attempt := 0; attempt < 8; attempt++ {
		title := fmt.Sprintf("The %s %s", pick(g.rand, adjectives), pick(g.rand, nouns))
		if _, ok := seen[title]; !ok {
			seen[title] = struct{}{}
			return title
		}
	}
	title := fmt.Sprintf("The %s %s %d", pick(g.rand, adjectives), pick(g.rand, nouns), n+1)
	seen[title] = struct{}{}
	return title
}

func (g *Generator) randomTagline() string {
	return fmt.Sprintf(pick(g.rand, taglineTemplates), pick(g.rand, nouns))
}

func pick(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}

var adjectives = []string{
	"Silent", "Last", "Crimson", "Hidden", "Broken", "Endless", "Golden", "Midnight",
	"Forgotten", "Electric", "Distant", "Savage", "Quiet", "Burning", "Hollow", "Iron",
}

var nouns = []string{
	"Harbor", "Frontier", "Garden", "Empire", "Signal", "Witness", "Horizon", "Machine",
	"Orchard", "Passage", "River", "Kingdom", "Archive", "Storm", "Lantern", "Mirror",
}

var taglineTemplates = []string{
	"Every %s has a price.",
	"Nobody leaves the %s unchanged.",
	"Welcome to the %s.",
	"The %s remembers.",
	"One night. One %s.",
}
