package generator

// Config drives the synthetic movie generator.
type Config struct {
	NumMovies int
	// RemakeChance is the probability a movie reuses an earlier title.
	RemakeChance float64
	// UnknownReleaseChance is the probability a movie has no release year.
	UnknownReleaseChance float64
	Seed                 int64
}

// DefaultConfig returns baseline settings for a small catalogue.
func DefaultConfig() Config {
	return Config{
		NumMovies:            500,
		RemakeChance:         0.1,
		UnknownReleaseChance: 0.05,
		Seed:                 42,
	}
}
