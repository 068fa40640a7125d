package probecache

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonseed/internal/clock"
	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/telemetry"
)

// Cache is the storage a scan reads and writes. *Store implements it.
type Cache interface {
	Get(ctx context.Context, k Key) (*Result, error)
	Put(ctx context.Context, r Result) error
	Now() time.Time
}

// ScanRequest selects a contiguous run of seeds for one level.
type ScanRequest struct {
	From  uint32
	Count int
	Depth int
	Entry drlg.Entry
	Mode  drlg.Mode
}

// Summary counts the outcomes of a scan.
type Summary struct {
	Probed  int
	Cached  int
	OK      int
	Failed  int
	OKSeeds []uint32
}

// Scanner probes seeds on a bounded pool of workers.
type Scanner struct {
	Gen     *drlg.Generator
	Cache   Cache // optional
	Workers int
	Logger  *slog.Logger
	// Progress is logged every Progress seeds; zero disables it.
	Progress int
}

// Run probes every seed of req. Results come back in seed order. A cache
// error stops the scan.
func (s *Scanner) Run(ctx context.Context, req ScanRequest) (Summary, error) {
	if req.Count <= 0 {
		return Summary{}, errors.New("scan count must be positive")
	}
	gen := s.generator()
	levels := gen.Levels
	if levels == nil {
		levels = gamedata.Levels()
	}
	probe := drlg.Request{Depth: req.Depth, Entry: req.Entry, Mode: req.Mode}
	if err := probe.Validate(levels); err != nil {
		return Summary{}, err
	}

	ctx, span := telemetry.Tracer("probecache").Start(ctx, "probecache.scan")
	defer span.End()

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, req.Count)
	cached := make([]bool, req.Count)
	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				r, hit, err := s.probe(ctx, gen, req, req.From+uint32(i))
				if err != nil {
					fail(err)
					continue
				}
				results[i], cached[i] = r, hit
			}
		}()
	}

feed:
	for i := 0; i < req.Count; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
		if s.Progress > 0 && (i+1)%s.Progress == 0 {
			s.logger().Info("scan progress", "queued", i+1, "count", req.Count)
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		span.RecordError(firstErr)
		return Summary{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	var sum Summary
	for i, r := range results {
		sum.Probed++
		if cached[i] {
			sum.Cached++
		}
		if r.OK {
			sum.OK++
			sum.OKSeeds = append(sum.OKSeeds, r.Seed)
		} else {
			sum.Failed++
		}
	}
	span.SetAttributes(
		attribute.Int("scan.count", req.Count),
		attribute.Int("scan.ok", sum.OK),
		attribute.Int("scan.cached", sum.Cached),
	)
	s.logger().Info("scan finished", "depth", req.Depth, "probed", sum.Probed, "ok", sum.OK, "cached", sum.Cached)
	return sum, nil
}

func (s *Scanner) probe(ctx context.Context, gen *drlg.Generator, req ScanRequest, seed uint32) (Result, bool, error) {
	gr := drlg.Request{Seed: seed, Depth: req.Depth, Entry: req.Entry, Mode: req.Mode}
	k := KeyOf(gr)

	if s.Cache != nil {
		r, err := s.Cache.Get(ctx, k)
		switch {
		case err == nil:
			return *r, true, nil
		case !errors.Is(err, ErrNotFound):
			return Result{}, false, err
		}
	}

	level, ok := gen.Generate(ctx, gr)
	if !ok && ctx.Err() != nil {
		return Result{}, false, ctx.Err()
	}
	r := NewResult(gr, level, ok, s.now())
	if s.Cache != nil {
		if err := s.Cache.Put(ctx, r); err != nil {
			return Result{}, false, err
		}
	}
	return r, false, nil
}

func (s *Scanner) generator() *drlg.Generator {
	if s.Gen == nil {
		s.Gen = &drlg.Generator{Logger: s.logger()}
	}
	return s.Gen
}

func (s *Scanner) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Scanner) now() time.Time {
	if s.Cache != nil {
		return s.Cache.Now()
	}
	return clock.New().Now()
}
