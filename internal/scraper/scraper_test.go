package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mindriot101/whatson/internal/config"
	"github.com/mindriot101/whatson/internal/date"
	"github.com/mindriot101/whatson/internal/fetcher"
	"github.com/mindriot101/whatson/internal/listing"
	"github.com/mindriot101/whatson/internal/logger"
)

const goodPage = `
<html><body>
<div class="list-productions">
  <h2>Season 2024</h2>
  <div class="production-list-item">
    <a class="production-link" href="/whats-on/hamlet/"><img src="media/hamlet.jpg"></a>
    <div class="details"><h3>Hamlet</h3><p class="date">3rd March - 9th March</p></div>
  </div>
  <div class="production-list-item"><div class="details"><h3>Macbeth</h3><p class="date">25 December</p></div></div>
</div>
</body></html>`

const noYearPage = `
<div class="list-productions">
  <div class="production-list-item"><div class="details"><h3>Hamlet</h3><p class="date">3 March</p></div></div>
</div>`

const badDatePage = `
<div class="list-productions">
  <h2>Season 2024</h2>
  <div class="production-list-item"><div class="details"><h3>Hamlet</h3><p class="date">3 Mars</p></div></div>
</div>`

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		fmt.Fprint(w, goodPage)
	})
	mux.HandleFunc("/noyear", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, noYearPage)
	})
	mux.HandleFunc("/baddate", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, badDatePage)
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Nothing on</p></body></html>`)
	})
	mux.HandleFunc("/down", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func quietScraper(f fetcher.Fetcher, opts ...Option) (*Scraper, *logger.Metrics, *bytes.Buffer) {
	var buf bytes.Buffer
	m := logger.NewMetrics()
	opts = append([]Option{WithLogger(logger.New(logger.LevelDebug, &buf)), WithMetrics(m)}, opts...)
	return New(f, opts...), m, &buf
}

func TestScrapeTheatre(t *testing.T) {
	server := newTestServer(t, nil)
	s, _, _ := quietScraper(fetcher.NewHTTP(time.Second))

	shows, err := s.ScrapeTheatre(context.Background(), config.Theatre{
		Name:    "Belgrade",
		URL:     server.URL + "/good",
		RootURL: "https://www.belgrade.co.uk",
	})
	if err != nil {
		t.Fatalf("ScrapeTheatre() error: %v", err)
	}

	if len(shows) != 2 {
		t.Fatalf("ScrapeTheatre() returned %d shows, want 2", len(shows))
	}

	wantDates := []date.Date{
		date.Range{
			Start: date.RawDate{Day: 3, Month: 2, Year: 2024},
			End:   date.RawDate{Day: 9, Month: 2, Year: 2024},
		},
		date.Single{RawDate: date.RawDate{Day: 25, Month: 11, Year: 2024}},
	}
	for i, s := range shows {
		if s.Theatre != "Belgrade" {
			t.Errorf("show %d Theatre = %q, want Belgrade", i, s.Theatre)
		}
		if diff := cmp.Diff(wantDates[i], s.Date); diff != "" {
			t.Errorf("show %d date mismatch (-want +got):\n%s", i, diff)
		}
	}
	if shows[0].Name != "Hamlet" || shows[1].Name != "Macbeth" {
		t.Errorf("shows out of page order: %q, %q", shows[0].Name, shows[1].Name)
	}

	if got, want := shows[0].LinkURL, "https://www.belgrade.co.uk/whats-on/hamlet/"; got != want {
		t.Errorf("LinkURL = %q, want %q", got, want)
	}
	if got, want := shows[0].ImageURL, "https://www.belgrade.co.uk/media/hamlet.jpg"; got != want {
		t.Errorf("ImageURL = %q, want %q", got, want)
	}
	if shows[1].LinkURL != "" || shows[1].ImageURL != "" {
		t.Errorf("show without a link has URLs %q, %q", shows[1].LinkURL, shows[1].ImageURL)
	}
}

func TestScrapeTheatre_LinksResolveAgainstListingURL(t *testing.T) {
	server := newTestServer(t, nil)
	s, _, _ := quietScraper(fetcher.NewHTTP(time.Second))

	shows, err := s.ScrapeTheatre(context.Background(), config.Theatre{Name: "Belgrade", URL: server.URL + "/good"})
	if err != nil {
		t.Fatalf("ScrapeTheatre() error: %v", err)
	}
	if got, want := shows[0].LinkURL, server.URL+"/whats-on/hamlet/"; got != want {
		t.Errorf("LinkURL = %q, want %q", got, want)
	}
}

func TestResolveURL(t *testing.T) {
	base, _ := url.Parse("https://www.belgrade.co.uk/")

	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"/whats-on/x/", "https://www.belgrade.co.uk/whats-on/x/"},
		{"media/x.jpg", "https://www.belgrade.co.uk/media/x.jpg"},
		{"https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
		{"%zz", "%zz"},
	}

	for _, tt := range tests {
		if got := resolveURL(base, tt.ref); got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestRun_IsolatesFailures(t *testing.T) {
	server := newTestServer(t, nil)

	theatres := []config.Theatre{
		{Name: "down", URL: server.URL + "/down"},
		{Name: "good", URL: server.URL + "/good"},
		{Name: "noyear", URL: server.URL + "/noyear"},
		{Name: "baddate", URL: server.URL + "/baddate"},
		{Name: "empty", URL: server.URL + "/empty"},
		{Name: "unreachable", URL: "http://127.0.0.1:1/whats-on"},
	}
	wantKinds := []ErrorKind{KindFetch, KindNone, KindStructure, KindDate, KindNone, KindFetch}
	wantShows := []int{0, 2, 0, 0, 0, 0}

	for _, parallel := range []int{1, 4} {
		t.Run(fmt.Sprintf("parallel=%d", parallel), func(t *testing.T) {
			s, m, _ := quietScraper(fetcher.NewHTTP(time.Second), WithParallelism(parallel))

			results := s.Run(context.Background(), theatres)

			if len(results) != len(theatres) {
				t.Fatalf("Run() returned %d results, want %d", len(results), len(theatres))
			}
			for i, r := range results {
				if r.Theatre.Name != theatres[i].Name {
					t.Errorf("result %d is for %q, want %q", i, r.Theatre.Name, theatres[i].Name)
				}
				if got := Classify(r.Err); got != wantKinds[i] {
					t.Errorf("%s: kind = %q, want %q (err: %v)", r.Theatre.Name, got, wantKinds[i], r.Err)
				}
				if len(r.Shows) != wantShows[i] {
					t.Errorf("%s: %d shows, want %d", r.Theatre.Name, len(r.Shows), wantShows[i])
				}
			}

			sum := Summarize(results)
			if diff := cmp.Diff(Summary{Venues: 6, Failed: 4, Shows: 2}, sum); diff != "" {
				t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
			}

			snap := m.GetSnapshot()
			if snap.Counters["venues.failed"] != 4 || snap.Counters["venues.ok"] != 2 {
				t.Errorf("counters = %v", snap.Counters)
			}
			if snap.Counters["shows.extracted"] != 2 {
				t.Errorf("shows.extracted = %d, want 2", snap.Counters["shows.extracted"])
			}
		})
	}
}

func TestRun_EmptyPageIsNotAnError(t *testing.T) {
	server := newTestServer(t, nil)
	s, _, _ := quietScraper(fetcher.NewHTTP(time.Second))

	results := s.Run(context.Background(), []config.Theatre{{Name: "empty", URL: server.URL + "/empty"}})

	if !results[0].OK() {
		t.Fatalf("empty page failed: %v", results[0].Err)
	}
	if results[0].Shows == nil || len(results[0].Shows) != 0 {
		t.Errorf("Shows = %#v, want empty slice", results[0].Shows)
	}
}

func TestRun_SkipsInactiveTheatres(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits)
	s, m, _ := quietScraper(fetcher.NewHTTP(time.Second))

	off := false
	results := s.Run(context.Background(), []config.Theatre{
		{Name: "closed", URL: server.URL + "/good", Active: &off},
		{Name: "down", URL: server.URL + "/down"},
	})

	if len(results) != 1 || results[0].Theatre.Name != "down" {
		t.Fatalf("Run() results = %+v, want only the active theatre", results)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("inactive theatre was fetched %d times", hits)
	}
	if got := m.GetSnapshot().Counters["venues.skipped"]; got != 1 {
		t.Errorf("venues.skipped = %d, want 1", got)
	}
}

func TestRun_SharedPageFetchedOnce(t *testing.T) {
	var hits int32
	server := newTestServer(t, &hits)
	memo := fetcher.NewMemo(fetcher.NewHTTP(time.Second), time.Minute)
	s, _, _ := quietScraper(memo)

	results := s.Run(context.Background(), []config.Theatre{
		{Name: "main house", URL: server.URL + "/good"},
		{Name: "studio", URL: server.URL + "/good"},
	})

	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("page fetched %d times, want 1", hits)
	}
	for _, r := range results {
		if !r.OK() || len(r.Shows) != 2 {
			t.Errorf("%s: err=%v shows=%d", r.Theatre.Name, r.Err, len(r.Shows))
		}
		for _, sh := range r.Shows {
			if sh.Theatre != r.Theatre.Name {
				t.Errorf("show attributed to %q, want %q", sh.Theatre, r.Theatre.Name)
			}
		}
	}
	if results[0].Shows[0].ID == results[1].Shows[0].ID {
		t.Error("shows from different theatres share an ID")
	}
}

func TestRun_MarkupOverride(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<ul class="shows"><li><h1>Season 2025</h1></li></ul>
			<section class="shows"><h1>Season 2025</h1>
			<article class="show"><div class="details"><h4>Oliver!</h4><p class="date">9 June</p></div></article></section>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s, _, _ := quietScraper(fetcher.NewHTTP(time.Second))
	results := s.Run(context.Background(), []config.Theatre{{
		Name: "custom",
		URL:  server.URL,
		Markup: map[string]string{
			"container": "section.shows",
			"heading":   "h1",
			"item":      "article.show",
			"title":     "h4",
		},
	}})

	if !results[0].OK() {
		t.Fatalf("Run() error: %v", results[0].Err)
	}
	if len(results[0].Shows) != 1 || results[0].Shows[0].Name != "Oliver!" {
		t.Errorf("Shows = %+v", results[0].Shows)
	}
}

func TestRun_LogsPerTheatre(t *testing.T) {
	server := newTestServer(t, nil)
	s, _, buf := quietScraper(fetcher.NewHTTP(time.Second))

	s.Run(context.Background(), []config.Theatre{
		{Name: "good", URL: server.URL + "/good"},
		{Name: "down", URL: server.URL + "/down"},
	})

	out := buf.String()
	if !strings.Contains(out, `"message":"theatre scraped"`) {
		t.Errorf("missing success log: %s", out)
	}
	if !strings.Contains(out, `"message":"theatre failed"`) || !strings.Contains(out, `"kind":"fetch"`) {
		t.Errorf("missing failure log: %s", out)
	}
}

func TestRun_WarnsOnEmptyListing(t *testing.T) {
	server := newTestServer(t, nil)
	s, _, buf := quietScraper(fetcher.NewHTTP(time.Second))

	s.Run(context.Background(), []config.Theatre{{Name: "empty", URL: server.URL + "/empty"}})

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, `"message":"no shows found"`) {
		t.Errorf("missing empty listing warning: %s", out)
	}
}

func TestClassify(t *testing.T) {
	_, dateErr := date.Parse("1-2-3", 2024)

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"fetch", &fetcher.FetchError{URL: "u", StatusCode: 500}, KindFetch},
		{"wrapped date", fmt.Errorf("show %q: %w", "Hamlet", dateErr), KindDate},
		{"structure", &listing.StructureError{Kind: listing.ErrNoYear}, KindStructure},
		{"other", errors.New("boom"), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
