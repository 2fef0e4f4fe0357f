package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanshika/moviestore/internal/generator"
)

func newGenerateCommand() *cobra.Command {
	defaults := generator.DefaultConfig()
	var (
		cfg       = defaults
		outputDir string
		stdout    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic movie catalogue",
		Long: `Generate writes a deterministic catalogue of movies to movies.json. Some
movies share a title (remakes) and some have no release year, so lookups
exercise multi-row and null-year results.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()

			dataset, err := generator.New(cfg).Generate(ctx)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if stdout {
				return writeJSON(cmd.OutOrStdout(), dataset)
			}
			path, err := generator.WriteDataset(dataset, outputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d movies to %s\n", len(dataset.Movies), path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&cfg.NumMovies, "count", "n", defaults.NumMovies, "number of movies to generate")
	cmd.Flags().Float64Var(&cfg.RemakeChance, "remake-chance", defaults.RemakeChance, "probability of reusing an earlier title")
	cmd.Flags().Float64Var(&cfg.UnknownReleaseChance, "unknown-release-chance", defaults.UnknownReleaseChance, "probability of omitting the release year")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", defaults.Seed, "random seed for deterministic generation")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "./seed-data", "directory to write movies.json")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the dataset to stdout instead of a file")
	return cmd
}
