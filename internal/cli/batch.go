package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/moviestore/internal/domain"
	"github.com/vanshika/moviestore/internal/service"
)

type batchItem struct {
	Title  string         `json:"title"`
	Movies []domain.Movie `json:"movies"`
	Error  string         `json:"error,omitempty"`
}

func newBatchCommand(opts *rootOptions) *cobra.Command {
	var (
		workers   int
		titleFile string
	)

	cmd := &cobra.Command{
		Use:   "batch [TITLE...]",
		Short: "Look several titles up concurrently",
		Long: `Batch looks every title up in its own session using a bounded worker pool.
Titles come from the arguments, or one per line from --file ("-" reads stdin).
A failed title is reported and does not stop the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			titles := append([]string{}, args...)
			if titleFile != "" {
				fromFile, err := readTitles(cmd.InOrStdin(), titleFile)
				if err != nil {
					return err
				}
				titles = append(titles, fromFile...)
			}
			if len(titles) == 0 {
				return errors.New("no titles given")
			}

			return opts.withMovieService(cmd, func(ctx context.Context, svc *service.MovieService) error {
				results, err := service.NewBatchRunner(svc, workers).FindTitles(ctx, titles, opts.database)
				if err != nil {
					return err
				}
				return printBatch(cmd.OutOrStdout(), results, opts.jsonOutput)
			})
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "number of concurrent lookups")
	cmd.Flags().StringVarP(&titleFile, "file", "f", "", "file with one title per line")
	return cmd
}

func readTitles(stdin io.Reader, path string) ([]string, error) {
	src := stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer file.Close()
		src = file
	}

	var titles []string
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		// Lines are kept verbatim; only empty lines are skipped.
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		titles = append(titles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read titles: %w", err)
	}
	return titles, nil
}

func printBatch(w io.Writer, results []domain.MovieBatchResult, asJSON bool) error {
	items := make([]batchItem, 0, len(results))
	failed := 0
	for _, res := range results {
		item := batchItem{Title: res.Title, Movies: res.Movies}
		if item.Movies == nil {
			item.Movies = []domain.Movie{}
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
			failed++
		}
		items = append(items, item)
	}

	if asJSON {
		return writeJSON(w, items)
	}
	for _, item := range items {
		if item.Error != "" {
			fmt.Fprintf(w, "%q: error: %s\n", item.Title, item.Error)
			continue
		}
		fmt.Fprintf(w, "%q: %d movie(s)\n", item.Title, len(item.Movies))
		for _, m := range item.Movies {
			fmt.Fprintf(w, "  %s (%s) %s\n", m.Title, formatYear(m), m.Tagline)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(items))
	}
	return nil
}
