package domain

// Movie is the projection of a :Movie node returned by title lookups.
type Movie struct {
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
	// Released is nil when the node carries no release year.
	Released *int64 `json:"released,omitempty"`
}

// ReleasedYear returns the release year, or zero and false when unknown.
func (m Movie) ReleasedYear() (int64, bool) {
	if m.Released == nil {
		return 0, false
	}
	return *m.Released, true
}

// Year is a convenience for building a Movie with a known release year.
func Year(y int64) *int64 {
	return &y
}

// MovieBatchResult collects the outcome of looking up several titles at once.
type MovieBatchResult struct {
	Title  string
	Movies []Movie
	Err    error
}
