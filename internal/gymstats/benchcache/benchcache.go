// Package benchcache keeps the static rank benchmark tables in process memory.
package benchcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/ranking"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=benchcache_test

const (
	megabyte = 1024 * 1024

	DefaultSizeMB = 8
	DefaultTTL    = 15 * time.Minute

	ranksKey = "ranks"
)

type benchmarksStore interface {
	GetRanks(ctx context.Context) ([]gymstats.Rank, error)
	GetBenchmarkRows(ctx context.Context, level gymstats.RankLevel) ([]gymstats.BenchmarkRow, error)
}

type Cache struct {
	store         benchmarksStore
	cache         *freecache.Cache
	expireSeconds int
}

// New creates the cache. Non positive values fall back to the defaults.
func New(store benchmarksStore, sizeMB int, ttl time.Duration) *Cache {
	if sizeMB <= 0 {
		sizeMB = DefaultSizeMB
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:         store,
		cache:         freecache.NewCache(sizeMB * megabyte),
		expireSeconds: int(ttl.Seconds()),
	}
}

// Benchmarks returns the tables of all four rank levels, loading the missing
// ones from the store.
func (c *Cache) Benchmarks(ctx context.Context) (_ ranking.Benchmarks, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "benchcache.benchmarks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var ranks []gymstats.Rank
	if err := c.load(ctx, ranksKey, &ranks, func(ctx context.Context) (any, error) {
		return c.store.GetRanks(ctx)
	}); err != nil {
		return ranking.Benchmarks{}, fmt.Errorf("load ranks: %w", err)
	}
	catalog := make(map[uuid.UUID]gymstats.Rank, len(ranks))
	for _, r := range ranks {
		catalog[r.ID] = r
	}

	var rows []gymstats.BenchmarkRow
	for _, level := range gymstats.RankLevels {
		var levelRows []gymstats.BenchmarkRow
		if err := c.load(ctx, "benchmarks:"+level.String(), &levelRows, func(ctx context.Context) (any, error) {
			return c.store.GetBenchmarkRows(ctx, level)
		}); err != nil {
			return ranking.Benchmarks{}, fmt.Errorf("load %s benchmarks: %w", level, err)
		}
		rows = append(rows, levelRows...)
	}

	span.SetAttributes(
		attribute.Int("benchmarks.rows", len(rows)),
		attribute.Int64("benchmarks.cache.hits", c.cache.HitCount()),
	)
	return ranking.NewBenchmarks(rows, catalog), nil
}

// load decodes the cached value of key into dst, or fetches and caches it.
func (c *Cache) load(ctx context.Context, key string, dst any, fetch func(context.Context) (any, error)) error {
	cached, err := c.cache.Get([]byte(key))
	if err == nil {
		if err := json.Unmarshal(cached, dst); err == nil {
			return nil
		}
		log.Warnf("benchcache: drop undecodable entry %s", key)
		c.cache.Del([]byte(key))
	} else if !errors.Is(err, freecache.ErrNotFound) {
		return err
	}

	fresh, err := fetch(ctx)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(fresh)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := c.cache.Set([]byte(key), encoded, c.expireSeconds); err != nil {
		// too large to cache, still usable
		log.Warnf("benchcache: set %s: %s", key, err)
	}
	return json.Unmarshal(encoded, dst)
}

// Invalidate drops every cached table.
func (c *Cache) Invalidate() {
	c.cache.Clear()
}
