package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vanshika/moviestore/internal/app"
	"github.com/vanshika/moviestore/internal/config"
	"github.com/vanshika/moviestore/internal/graph"
	"github.com/vanshika/moviestore/internal/logging"
	"github.com/vanshika/moviestore/internal/service"
)

// DriverFactory opens a graph driver for the loaded configuration.
type DriverFactory func(ctx context.Context, cfg config.Config, logger *slog.Logger) (graph.Driver, error)

type rootOptions struct {
	cfgFile    string
	database   string
	jsonOutput bool
	openDriver DriverFactory
}

// Execute runs moviectl with os.Args. It is called by main.main().
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCommand(nil).ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the moviectl command tree. A nil factory connects to
// Neo4j using the configured URI.
func NewRootCommand(openDriver DriverFactory) *cobra.Command {
	if openDriver == nil {
		openDriver = app.OpenDriver
	}
	opts := &rootOptions{openDriver: openDriver}

	cmd := &cobra.Command{
		Use:   "moviectl",
		Short: "Query and load the movie graph",
		Long: `moviectl looks movies up by exact title in a Neo4j graph, and generates
or loads synthetic movie catalogues.

Configuration comes from environment variables (GRAPH_URI, GRAPH_DATABASE, ...)
and an optional YAML file given with --config or MOVIESTORE_CONFIG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $MOVIESTORE_CONFIG)")
	cmd.PersistentFlags().StringVarP(&opts.database, "database", "d", "", "target database (default is the configured or server default)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	cmd.AddCommand(
		newFindCommand(opts),
		newBatchCommand(opts),
		newLoadCommand(opts),
		newGenerateCommand(),
	)
	return cmd
}

// withMovieService loads configuration, opens the driver and hands a movie
// service to fn. The driver is closed when fn returns.
func (o *rootOptions) withMovieService(cmd *cobra.Command, fn func(ctx context.Context, svc *service.MovieService) error) error {
	path := o.cfgFile
	if path == "" {
		path = os.Getenv(config.FileEnv)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging).With("component", "moviectl")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	driver, err := o.openDriver(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect to graph: %w", err)
	}
	defer func() {
		if err := driver.Close(context.Background()); err != nil {
			logger.Warn("closing graph driver failed", "error", err)
		}
	}()

	return fn(ctx, service.NewMovieService(app.NewRepository(driver, cfg.Graph, logger)))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
