package refdata

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/remote/remotetest"
)

func keys(n int) []models.SecurityKey {
	out := make([]models.SecurityKey, n)
	for i := range out {
		out[i] = models.SecurityKey{Code: fmt.Sprintf("S%03d", i), Exchange: "LN"}
	}
	return out
}

func TestBatches(t *testing.T) {
	cases := []struct {
		n, size int
		want    []int
	}{
		{250, 100, []int{100, 100, 50}},
		{200, 100, []int{100, 100}},
		{1, 100, []int{1}},
		{0, 100, []int{}},
		{5, 0, []int{5}},
	}
	for _, c := range cases {
		got := Batches(keys(c.n), c.size)
		sizes := make([]int, len(got))
		for i, b := range got {
			sizes[i] = len(b)
		}
		assert.Equal(t, c.want, sizes, "n=%d size=%d", c.n, c.size)
	}
}

func TestPopulate_BatchesInOrderWithOuterSession(t *testing.T) {
	f := &remotetest.Fake{Securities: map[string]models.ReferenceData{}}
	all := keys(250)
	for _, k := range all {
		f.Securities[k.String()] = models.ReferenceData{SEDOL: "SED" + k.Code, ISIN: "ISIN" + k.Code}
	}

	c := New(RemoteFetcher(f, "iress-1", 60*time.Second), 100, 1)
	require.NoError(t, c.Populate(context.Background(), all))

	require.Len(t, f.SecurityBatches, 3)
	assert.Len(t, f.SecurityBatches[0], 100)
	assert.Len(t, f.SecurityBatches[1], 100)
	assert.Len(t, f.SecurityBatches[2], 50)
	assert.Equal(t, "S000.LN", f.SecurityBatches[0][0])
	assert.Equal(t, "S100.LN", f.SecurityBatches[1][0])
	assert.Equal(t, "S249.LN", f.SecurityBatches[2][49])

	for _, h := range f.Headers {
		assert.Equal(t, "iress-1", h.SessionKey)
		assert.Empty(t, h.ServiceSessionKey)
		assert.NotEmpty(t, h.RequestID)
	}

	ref, ok := c.Lookup(models.SecurityKey{Code: "S042", Exchange: "LN"})
	require.True(t, ok)
	assert.Equal(t, models.ReferenceData{SEDOL: "SEDS042", ISIN: "ISINS042"}, ref)
	assert.Equal(t, 250, c.Len())
}

func TestPopulate_Idempotent(t *testing.T) {
	var calls int32
	fetcher := func(ctx context.Context, batch []models.SecurityKey) ([]models.SecurityInfoRow, error) {
		atomic.AddInt32(&calls, 1)
		rows := make([]models.SecurityInfoRow, len(batch))
		for i, k := range batch {
			rows[i] = models.SecurityInfoRow{SecurityCode: k.Code, Exchange: k.Exchange, ISIN: "I-" + k.Code}
		}
		return rows, nil
	}
	c := New(fetcher, 100, 1)
	ks := keys(3)

	require.NoError(t, c.Populate(context.Background(), ks))
	before := map[models.SecurityKey]models.ReferenceData{}
	for _, k := range ks {
		before[k], _ = c.Lookup(k)
	}

	require.NoError(t, c.Populate(context.Background(), ks))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "cached keys must not be re-requested")
	for _, k := range ks {
		got, _ := c.Lookup(k)
		assert.Equal(t, before[k], got)
	}
}

func TestPopulate_InsertIfAbsent(t *testing.T) {
	first := true
	fetcher := func(ctx context.Context, batch []models.SecurityKey) ([]models.SecurityInfoRow, error) {
		isin := "FIRST"
		if !first {
			isin = "SECOND"
		}
		first = false
		// the remote may echo securities that were not asked for
		return []models.SecurityInfoRow{
			{SecurityCode: "ABC", Exchange: "LN", ISIN: isin},
			{SecurityCode: batch[0].Code, Exchange: batch[0].Exchange, ISIN: isin},
		}, nil
	}
	c := New(fetcher, 10, 1)
	abc := models.SecurityKey{Code: "ABC", Exchange: "LN"}
	xyz := models.SecurityKey{Code: "XYZ", Exchange: "LN"}

	require.NoError(t, c.Populate(context.Background(), []models.SecurityKey{abc}))
	require.NoError(t, c.Populate(context.Background(), []models.SecurityKey{xyz}))

	got, _ := c.Lookup(abc)
	assert.Equal(t, "FIRST", got.ISIN)
	got, _ = c.Lookup(xyz)
	assert.Equal(t, "SECOND", got.ISIN)
}

func TestPopulate_DeduplicatesKeys(t *testing.T) {
	var requested int
	fetcher := func(ctx context.Context, batch []models.SecurityKey) ([]models.SecurityInfoRow, error) {
		requested += len(batch)
		return nil, nil
	}
	c := New(fetcher, 100, 1)
	k := models.SecurityKey{Code: "ABC", Exchange: "LN"}
	require.NoError(t, c.Populate(context.Background(), []models.SecurityKey{k, k, k}))
	assert.Equal(t, 1, requested)

	_, ok := c.Lookup(k)
	assert.False(t, ok, "unknown securities stay uncached")
}

func TestPopulate_Parallel(t *testing.T) {
	var inFlight, peak int32
	fetcher := func(ctx context.Context, batch []models.SecurityKey) ([]models.SecurityInfoRow, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		rows := make([]models.SecurityInfoRow, len(batch))
		for i, k := range batch {
			rows[i] = models.SecurityInfoRow{SecurityCode: k.Code, Exchange: k.Exchange}
		}
		return rows, nil
	}
	c := New(fetcher, 10, 3)
	require.NoError(t, c.Populate(context.Background(), keys(95)))
	assert.Equal(t, 95, c.Len())
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestPopulate_Error(t *testing.T) {
	boom := errors.New("fault")
	f := &remotetest.Fake{SecurityErr: boom}
	c := New(RemoteFetcher(f, "iress-1", time.Minute), 100, 1)
	err := c.Populate(context.Background(), keys(150))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "batch 1/2")
	assert.Len(t, f.SecurityBatches, 1, "sequential population stops at the first failure")
}

func TestNew_ClampsBatchSize(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, New(nil, 0, 1).batchSize)
	assert.Equal(t, DefaultBatchSize, New(nil, MaxBatchSize+1, 1).batchSize)
	assert.Equal(t, MaxBatchSize, New(nil, MaxBatchSize, 1).batchSize)
	assert.Equal(t, 1, New(nil, 10, 0).parallel)
}
