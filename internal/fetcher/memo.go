package fetcher

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Memo remembers successfully fetched pages for the lifetime of a run, so theatres
// sharing a listing page cause a single request. Failures are not remembered.
type Memo struct {
	next  Fetcher
	cache *cache.Cache
	group singleflight.Group
}

// NewMemo wraps next. Pages are forgotten after ttl.
func NewMemo(next Fetcher, ttl time.Duration) *Memo {
	return &Memo{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Fetch returns the remembered body for url, fetching it on first use
func (m *Memo) Fetch(ctx context.Context, url string) (string, error) {
	if cached, found := m.cache.Get(url); found {
		if body, ok := cached.(string); ok {
			return body, nil
		}
	}

	v, err, _ := m.group.Do(url, func() (interface{}, error) {
		body, err := m.next.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		m.cache.Set(url, body, cache.DefaultExpiration)
		return body, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Len returns the number of pages currently remembered
func (m *Memo) Len() int {
	return m.cache.ItemCount()
}
