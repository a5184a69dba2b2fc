// Package refdata caches security reference data (SEDOL, ISIN) for the
// lifetime of one extract run.
package refdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/fetch"
	"github.com/guttosm/iosplus-extract/internal/logger"
	"github.com/guttosm/iosplus-extract/internal/remote"
)

const (
	DefaultBatchSize = 100
	// MaxBatchSize is the largest SecurityTextArray the remote accepts.
	MaxBatchSize = 1000
)

// Fetcher resolves the reference data of one batch of securities.
type Fetcher func(ctx context.Context, batch []models.SecurityKey) ([]models.SecurityInfoRow, error)

// RemoteFetcher returns a Fetcher backed by SecurityInformationGet.
//
// Security information lives on the IRESS side, so batches are requested
// with the identity (outer) session key, not the IOS+ service session.
func RemoteFetcher(client remote.DataClient, outer models.Session, timeout time.Duration) Fetcher {
	return func(ctx context.Context, batch []models.SecurityKey) ([]models.SecurityInfoRow, error) {
		text := make([]string, len(batch))
		for i, k := range batch {
			text[i] = k.String()
		}
		params := remote.SecurityInformationParams{SecurityText: text}
		h := remote.Header{
			SessionKey: string(outer),
			Updates:    false,
			RequestID:  uuid.NewString(),
			Timeout:    int(timeout / time.Second),
		}
		return fetch.All[models.SecurityInfoRow](ctx, "SecurityInformationGet", func(ctx context.Context) (*remote.Response[models.SecurityInfoRow], error) {
			return client.SecurityInformationGet(ctx, params, h)
		})
	}
}

// Cache maps security keys to reference data. Entries are never replaced
// once inserted. Safe for concurrent use.
type Cache struct {
	mu        sync.RWMutex
	entries   map[models.SecurityKey]models.ReferenceData
	fetch     Fetcher
	batchSize int
	parallel  int
}

// New creates an empty cache.
//
// Parameters:
//   - fetch: resolves one batch
//   - batchSize: keys per request; values outside 1..MaxBatchSize fall back
//     to DefaultBatchSize
//   - parallel: concurrent batch requests; values below 2 mean sequential
func New(fetch Fetcher, batchSize, parallel int) *Cache {
	if batchSize < 1 || batchSize > MaxBatchSize {
		batchSize = DefaultBatchSize
	}
	if parallel < 1 {
		parallel = 1
	}
	return &Cache{
		entries:   make(map[models.SecurityKey]models.ReferenceData),
		fetch:     fetch,
		batchSize: batchSize,
		parallel:  parallel,
	}
}

// Lookup returns the cached reference data of key.
func (c *Cache) Lookup(key models.SecurityKey) (models.ReferenceData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ref, ok := c.entries[key]
	return ref, ok
}

// Len returns the number of cached securities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Populate fetches reference data for keys not yet cached.
//
// Behavior:
//   - Duplicate and already-cached keys are dropped before batching.
//   - Batches are numbered from 1 and issued in order when sequential.
//   - Returned rows are inserted only if absent; securities the remote does
//     not know simply stay uncached.
//   - The first batch error aborts the population.
func (c *Cache) Populate(ctx context.Context, keys []models.SecurityKey) error {
	missing := c.missing(keys)
	if len(missing) == 0 {
		return nil
	}
	batches := Batches(missing, c.batchSize)
	logger.L().Info().Int("securities", len(missing)).Int("batches", len(batches)).Int("parallel", c.parallel).Msg("reference data lookup")

	if c.parallel == 1 {
		for i, b := range batches {
			if err := c.populateBatch(ctx, i+1, len(batches), b); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallel)
	for i, b := range batches {
		idx, batch := i+1, b
		g.Go(func() error {
			return c.populateBatch(gctx, idx, len(batches), batch)
		})
	}
	return g.Wait()
}

func (c *Cache) populateBatch(ctx context.Context, idx, total int, batch []models.SecurityKey) error {
	start := time.Now()
	rows, err := c.fetch(ctx, batch)
	if err != nil {
		logger.L().Error().Str("batch", fmt.Sprintf("%d/%d", idx, total)).Err(err).Msg("reference data batch failed")
		return fmt.Errorf("reference data batch %d/%d: %w", idx, total, err)
	}

	added := 0
	c.mu.Lock()
	for _, r := range rows {
		k := r.Key()
		if _, ok := c.entries[k]; ok {
			continue
		}
		c.entries[k] = r.ReferenceData()
		added++
	}
	c.mu.Unlock()

	logger.L().Info().
		Str("batch", fmt.Sprintf("%d/%d", idx, total)).
		Int("requested", len(batch)).
		Int("received", len(rows)).
		Int("added", added).
		Dur("elapsed", time.Since(start)).
		Msg("reference data batch done")
	return nil
}

func (c *Cache) missing(keys []models.SecurityKey) []models.SecurityKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[models.SecurityKey]struct{}, len(keys))
	var out []models.SecurityKey
	for _, k := range keys {
		if _, ok := c.entries[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Batches splits keys into consecutive chunks of at most size elements.
// The last chunk holds the remainder.
func Batches(keys []models.SecurityKey, size int) [][]models.SecurityKey {
	if size < 1 {
		size = DefaultBatchSize
	}
	n := (len(keys) + size - 1) / size
	out := make([][]models.SecurityKey, 0, n)
	for i := 0; i < n; i++ {
		end := (i + 1) * size
		if end > len(keys) {
			end = len(keys)
		}
		out = append(out, keys[i*size:end])
	}
	return out
}
