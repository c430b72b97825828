package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mindriot101/whatson/internal/config"
	"github.com/mindriot101/whatson/internal/fetcher"
	"github.com/mindriot101/whatson/internal/listing"
	"github.com/mindriot101/whatson/internal/logger"
	"github.com/mindriot101/whatson/internal/show"
	"golang.org/x/sync/errgroup"
)

// Scraper scrapes theatre listing pages
type Scraper struct {
	fetcher  fetcher.Fetcher
	log      *logger.Logger
	metrics  *logger.Metrics
	parallel int
}

// Option configures a Scraper
type Option func(*Scraper)

// WithParallelism scrapes up to n theatres at once. n <= 1 scrapes one at a time.
func WithParallelism(n int) Option {
	return func(s *Scraper) { s.parallel = n }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

func WithMetrics(m *logger.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New creates a Scraper that retrieves pages with f
func New(f fetcher.Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:  f,
		log:      logger.Default(),
		metrics:  logger.DefaultMetrics(),
		parallel: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeTheatre fetches one theatre's listing page and returns its shows in page order
func (s *Scraper) ScrapeTheatre(ctx context.Context, t config.Theatre) ([]show.Show, error) {
	markup, err := t.ListingMarkup()
	if err != nil {
		return nil, fmt.Errorf("listing markup: %w", err)
	}

	body, err := s.fetcher.Fetch(ctx, t.URL)
	if err != nil {
		return nil, err
	}

	return parseShows(body, t, markup)
}

// parseShows extracts shows from a listing page, attributes them to the theatre
// and resolves their links against its base URL
func parseShows(body string, t config.Theatre, markup listing.Markup) ([]show.Show, error) {
	base, err := t.BaseURL()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}

	root, err := listing.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	shows, err := listing.ExtractWith(root, markup)
	if err != nil {
		return nil, err
	}

	for i := range shows {
		shows[i] = shows[i].WithTheatre(t.Name)
		shows[i].LinkURL = resolveURL(base, shows[i].LinkURL)
		shows[i].ImageURL = resolveURL(base, shows[i].ImageURL)
	}
	return shows, nil
}

// resolveURL joins ref onto base. Empty refs stay empty and refs that do not
// parse are returned as written.
func resolveURL(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// Run scrapes every active theatre and returns one Result per active theatre, in
// the order given. A failing theatre never stops the others.
func (s *Scraper) Run(ctx context.Context, theatres []config.Theatre) []Result {
	s.metrics.SetGauge("venues.configured", float64(len(theatres)))
	theatres = s.active(theatres)
	results := make([]Result, len(theatres))

	if s.parallel <= 1 {
		for i, t := range theatres {
			results[i] = s.scrape(ctx, t)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(s.parallel)
	for i, t := range theatres {
		i, t := i, t
		g.Go(func() error {
			results[i] = s.scrape(ctx, t)
			return nil
		})
	}
	g.Wait() // nolint:errcheck

	return results
}

func (s *Scraper) active(theatres []config.Theatre) []config.Theatre {
	active := make([]config.Theatre, 0, len(theatres))
	for _, t := range theatres {
		if !t.IsActive() {
			s.metrics.IncrCounter("venues.skipped")
			s.log.Debug("skipping inactive theatre", logger.Fields{"theatre": t.Name})
			continue
		}
		active = append(active, t)
	}
	return active
}

func (s *Scraper) scrape(ctx context.Context, t config.Theatre) Result {
	log := s.log.With(logger.Fields{"theatre": t.Name, "url": t.URL})
	log.Debug("scraping theatre", nil)

	start := time.Now()
	shows, err := s.ScrapeTheatre(ctx, t)
	s.metrics.RecordTiming("venue.scrape", time.Since(start))

	if err != nil {
		s.metrics.IncrCounter("venues.failed")
		s.metrics.IncrCounter("venues.failed." + string(Classify(err)))
		log.Error("theatre failed", logger.Fields{"kind": Classify(err)}, err)
		return Result{Theatre: t, Err: err}
	}

	s.metrics.IncrCounter("venues.ok")
	s.metrics.AddCounter("shows.extracted", int64(len(shows)))
	if len(shows) == 0 {
		log.Warn("no shows found", nil)
	}
	log.Info("theatre scraped", logger.Fields{"shows": len(shows)})
	return Result{Theatre: t, Shows: shows}
}
