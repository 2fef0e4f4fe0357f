package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vanshika/moviestore/internal/domain"
	"github.com/vanshika/moviestore/internal/service"
)

func newFindCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find TITLE",
		Short: "Find movies whose title matches exactly",
		Long: `Find prints every :Movie node whose title equals TITLE exactly.
Matching is case sensitive and does not trim whitespace.

Examples:
  moviectl find "The Matrix"
  moviectl find "The Matrix" --database movies --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withMovieService(cmd, func(ctx context.Context, svc *service.MovieService) error {
				movies, err := svc.FindByTitle(ctx, args[0], opts.database)
				if err != nil {
					return err
				}
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), movies)
				}
				return printMovies(cmd.OutOrStdout(), movies)
			})
		},
	}
}

func printMovies(w io.Writer, movies []domain.Movie) error {
	if len(movies) == 0 {
		_, err := fmt.Fprintln(w, "no movies found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tRELEASED\tTAGLINE")
	for _, m := range movies {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Title, formatYear(m), m.Tagline)
	}
	return tw.Flush()
}

func formatYear(m domain.Movie) string {
	year, ok := m.ReleasedYear()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", year)
}
