package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindriot101/whatson/internal/config"
	"github.com/mindriot101/whatson/internal/fetcher"
	"github.com/mindriot101/whatson/internal/logger"
	"github.com/mindriot101/whatson/internal/scraper"
	"github.com/mindriot101/whatson/internal/show"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess       = 0
	ExitError         = 1
	ExitTheatreFailed = 3
)

// ErrTheatresFailed is returned when the run completed but at least one theatre failed
var ErrTheatresFailed = errors.New("one or more theatres failed")

type options struct {
	configPath string
	format     string
	sortOrder  string
	parallel   int
	timeout    time.Duration
	logLevel   string
	verbose    bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "whatson",
		Short: "Scrape theatre listing pages for upcoming shows",
		Long: `A CLI tool that fetches the listing page of every configured theatre and
extracts each production's title and performance dates.

Each theatre is scraped independently: a theatre that cannot be fetched or parsed is
reported as failed and the rest of the run carries on.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Theatre config file (.json, .toml or .yaml)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&opts.sortOrder, "sort", string(show.SortByDocument), "Show order within a theatre: document, date or name")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "Number of theatres to scrape at once")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", fetcher.Timeout, "Timeout for each listing page request")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging and print run metrics")

	return cmd
}

func runScrape(cmd *cobra.Command, opts *options) error {
	format, err := ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}

	order, err := show.ParseSortOrder(opts.sortOrder)
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	if opts.verbose {
		level = logger.LevelDebug
	}
	prev := logger.Default()
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	defer logger.SetDefault(prev)
	metrics := logger.NewMetrics()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logger.Info("loaded config", logger.Fields{"path": opts.configPath, "theatres": len(cfg.Theatres)})
	if len(cfg.Theatres) == 0 {
		logger.Warn("no theatres configured", logger.Fields{"path": opts.configPath})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := fetcher.NewMemo(fetcher.NewHTTP(opts.timeout), time.Hour)
	sc := scraper.New(f,
		scraper.WithMetrics(metrics),
		scraper.WithParallelism(opts.parallel),
	)

	results := sc.Run(ctx, cfg.Theatres)
	for _, r := range results {
		show.Sort(r.Shows, order)
	}

	result := NewOutputResult(results)
	if err := WriteOutput(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if opts.verbose {
		if err := writeMetrics(cmd.ErrOrStderr(), metrics.GetSnapshot()); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	if result.Summary.Failed > 0 {
		return ErrTheatresFailed
	}
	return nil
}

// Execute runs the CLI and exits with the matching code
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrTheatresFailed):
		return ExitTheatreFailed
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitError
	}
}
