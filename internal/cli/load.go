package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/moviestore/internal/generator"
	"github.com/vanshika/moviestore/internal/service"
)

func newLoadCommand(opts *rootOptions) *cobra.Command {
	var (
		datasetDir string
		file       string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Upsert a generated movie dataset into the graph",
		Long: `Load reads movies.json (as written by 'moviectl generate') and merges every
movie into the graph by title using a bounded worker pool.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = filepath.Join(datasetDir, generator.DatasetFile)
			}
			dataset, err := generator.ReadDataset(path)
			if err != nil {
				return err
			}
			if len(dataset.Movies) == 0 {
				return fmt.Errorf("dataset %s is empty", path)
			}

			return opts.withMovieService(cmd, func(ctx context.Context, svc *service.MovieService) error {
				start := time.Now()
				if err := service.NewBatchRunner(svc, workers).LoadMovies(ctx, dataset.Movies, opts.database); err != nil {
					return fmt.Errorf("load movies: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d movies in %s\n", len(dataset.Movies), time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&datasetDir, "dataset-dir", "./seed-data", "directory containing movies.json")
	cmd.Flags().StringVar(&file, "file", "", "path to movies.json (overrides --dataset-dir)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "number of concurrent writers")
	return cmd
}
