// Package probecache stores level probe outcomes in Redis and drives seed
// scans over them.
package probecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/samdwyer/dungeonseed/internal/clock"
	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/redis"
)

const (
	// Key patterns: probe:{depth}:{entry}:{mode}:{seed} and
	// probe:ok:{depth}:{entry}:{mode}.
	keyPrefix   = "probe:"
	okKeyPrefix = "probe:ok:"
	defaultTTL  = 24 * time.Hour
)

// ErrNotFound is returned when no result is cached for a key.
var ErrNotFound = errors.New("probe result not found")

// Key identifies one probe.
type Key struct {
	Seed  uint32
	Depth int
	Entry drlg.Entry
	Mode  drlg.Mode
}

// KeyOf returns the key of a generation request.
func KeyOf(req drlg.Request) Key {
	return Key{Seed: req.Seed, Depth: req.Depth, Entry: req.Entry, Mode: req.Mode}
}

func (k Key) group() string {
	return fmt.Sprintf("%d:%s:%s", k.Depth, k.Entry, k.Mode)
}

func (k Key) String() string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, k.group(), k.Seed)
}

func (k Key) okKey() string {
	return okKeyPrefix + k.group()
}

// Result is the cached outcome of a probe.
type Result struct {
	Seed      uint32    `json:"seed"`
	Depth     int       `json:"depth"`
	Entry     string    `json:"entry"`
	Mode      string    `json:"mode"`
	OK        bool      `json:"ok"`
	LevelSeed uint32    `json:"levelSeed,omitempty"`
	Draws     uint64    `json:"draws,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	ProbedAt  time.Time `json:"probedAt"`
}

// NewResult summarises a Generate outcome. level may be nil when ok is
// false.
func NewResult(req drlg.Request, level *drlg.Level, ok bool, at time.Time) Result {
	r := Result{
		Seed:     req.Seed,
		Depth:    req.Depth,
		Entry:    req.Entry.String(),
		Mode:     req.Mode.String(),
		OK:       ok,
		ProbedAt: at,
	}
	if level != nil {
		r.LevelSeed = level.LevelSeed
		r.Draws = level.Draws
		r.Attempts = level.Attempts
	}
	return r
}

// Config holds the store dependencies.
type Config struct {
	Client redis.Client
	Clock  clock.Clock
	// TTL of cached results; zero means a day.
	TTL time.Duration
}

// Validate ensures the required dependencies are set.
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.New("redis client is required")
	}
	return nil
}

// Store caches probe results.
type Store struct {
	client redis.Client
	clock  clock.Clock
	ttl    time.Duration
}

// NewStore creates a store.
func NewStore(cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &Store{client: cfg.Client, clock: clk, ttl: ttl}, nil
}

// Now returns the store clock's time, used to stamp results.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// Put stores r and indexes successful probes by seed.
func (s *Store) Put(ctx context.Context, r Result) error {
	mode, err := drlg.ParseMode(r.Mode)
	if err != nil {
		return err
	}
	entry, err := drlg.ParseEntry(r.Entry)
	if err != nil {
		return err
	}
	k := Key{Seed: r.Seed, Depth: r.Depth, Entry: entry, Mode: mode}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal probe result: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, k.String(), data, s.ttl)
	if r.OK {
		pipe.ZAdd(ctx, k.okKey(), goredis.Z{Score: float64(r.Seed), Member: r.Seed})
	} else {
		pipe.ZRem(ctx, k.okKey(), r.Seed)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store probe %s: %w", k, err)
	}
	return nil
}

// Get returns the cached result for k.
func (s *Store) Get(ctx context.Context, k Key) (*Result, error) {
	data, err := s.client.Get(ctx, k.String()).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get probe %s: %w", k, err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal probe %s: %w", k, err)
	}
	return &r, nil
}

// OKSeeds lists up to limit seeds that generated successfully for the
// group of k, in ascending order. A non-positive limit returns them all.
func (s *Store) OKSeeds(ctx context.Context, k Key, limit int) ([]uint32, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	members, err := s.client.ZRange(ctx, k.okKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list seeds for %s: %w", k.okKey(), err)
	}
	seeds := make([]uint32, 0, len(members))
	for _, m := range members {
		var seed uint32
		if _, err := fmt.Sscan(m, &seed); err != nil {
			return nil, fmt.Errorf("bad seed member %q: %w", m, err)
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}
