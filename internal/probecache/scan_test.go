package probecache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeonseed/internal/drlg"
)

// memCache is an in-process Cache.
type memCache struct {
	mu   sync.Mutex
	data map[Key]Result
	puts int
	err  error
}

func newMemCache() *memCache {
	return &memCache{data: map[Key]Result{}}
}

func (m *memCache) Get(_ context.Context, k Key) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.data[k]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *memCache) Put(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mode, _ := drlg.ParseMode(r.Mode)
	entry, _ := drlg.ParseEntry(r.Entry)
	m.data[Key{Seed: r.Seed, Depth: r.Depth, Entry: entry, Mode: mode}] = r
	m.puts++
	return nil
}

func (m *memCache) Now() time.Time { return probeTime }

func quietScanner(workers int, cache Cache) *Scanner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Scanner{
		Gen:     &drlg.Generator{Logger: logger},
		Cache:   cache,
		Workers: workers,
		Logger:  logger,
	}
}

func TestScanMatchesSequentialProbes(t *testing.T) {
	req := ScanRequest{From: 100, Count: 12, Depth: 2, Mode: drlg.BreakOnFailure}
	sum, err := quietScanner(4, nil).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 12, sum.Probed)
	assert.Equal(t, 12, sum.OK+sum.Failed)
	assert.Zero(t, sum.Cached)

	var want []uint32
	for seed := uint32(100); seed < 112; seed++ {
		if _, ok := drlg.Generate(context.Background(), drlg.Request{Seed: seed, Depth: 2, Mode: drlg.BreakOnFailure}); ok {
			want = append(want, seed)
		}
	}
	assert.Equal(t, want, sum.OKSeeds)
}

func TestScanUsesCache(t *testing.T) {
	cache := newMemCache()
	req := ScanRequest{From: 1, Count: 6, Depth: 9, Mode: drlg.BreakOnSuccess}

	first, err := quietScanner(2, cache).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 6, cache.puts)
	assert.Equal(t, 6, first.OK)

	second, err := quietScanner(2, cache).Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 6, second.Cached)
	assert.Equal(t, 6, cache.puts)
	assert.Equal(t, first.OKSeeds, second.OKSeeds)
}

func TestScanStopsOnCacheError(t *testing.T) {
	cache := newMemCache()
	cache.err = errors.New("boom")

	_, err := quietScanner(3, cache).Run(context.Background(), ScanRequest{From: 1, Count: 20, Depth: 1})
	assert.EqualError(t, err, "boom")
}

func TestScanRejectsBadRequests(t *testing.T) {
	_, err := quietScanner(1, nil).Run(context.Background(), ScanRequest{Count: 0, Depth: 1})
	assert.Error(t, err)

	_, err = quietScanner(1, nil).Run(context.Background(), ScanRequest{Count: 1, Depth: 99})
	assert.Error(t, err)
}
