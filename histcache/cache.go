// Package histcache memoizes historical price series on disk so repeated
// strategy cycles (and repeated runs) do not refetch the same history.
//
// Entries carry no expiry metadata and are never freshness-checked: a
// series cached in a previous session is served as-is. That staleness is
// a documented property of the cache, not an accident; callers that need
// fresh bars must go to the gateway directly.
package histcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"nsebot/market"
)

// HistorySource is the slice of the broker gateway the cache fills
// misses from.
type HistorySource interface {
	FetchHistory(ctx context.Context, symbol string, interval market.Interval, bars int) (market.Series, error)
}

// Cache is a file-per-key store of candle series under a single
// directory. One artifact per (symbol, interval, bars) key.
type Cache struct {
	dir    string
	source HistorySource
}

// New creates a Cache rooted at dir, filling misses from source.
func New(dir string, source HistorySource) *Cache {
	return &Cache{dir: dir, source: source}
}

func (c *Cache) path(symbol string, interval market.Interval, bars int) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s_%d.bin", symbol, interval, bars))
}

// Get returns the cached series for the exact key if an artifact exists,
// otherwise fetches from the source, stores the result and returns it.
// A source failure is returned unchanged and nothing is written.
func (c *Cache) Get(ctx context.Context, symbol string, interval market.Interval, bars int) (market.Series, error) {
	path := c.path(symbol, interval, bars)

	if data, err := os.ReadFile(path); err == nil {
		var series market.Series
		if err := msgpack.Unmarshal(data, &series); err == nil {
			return series, nil
		}
		// Unreadable artifact: fall through to a fresh fetch which will
		// overwrite it.
	}

	series, err := c.source.FetchHistory(ctx, symbol, interval, bars)
	if err != nil {
		return nil, err
	}

	if err := c.store(path, series); err != nil {
		return nil, fmt.Errorf("cache %s: %w", filepath.Base(path), err)
	}
	return series, nil
}

func (c *Cache) store(path string, series market.Series) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(series)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
