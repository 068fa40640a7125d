package probecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/redis"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var probeTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type StoreTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	store *Store
	ctx   context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client, err := redis.NewClient(s.mr.Addr(), nil)
	s.Require().NoError(err)

	s.store, err = NewStore(&Config{Client: client, Clock: fixedClock{probeTime}, TTL: time.Hour})
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *StoreTestSuite) result(seed uint32, ok bool) Result {
	req := drlg.Request{Seed: seed, Depth: 5, Entry: drlg.EntryMain, Mode: drlg.BreakOnSuccess}
	var level *drlg.Level
	if ok {
		level = &drlg.Level{LevelSeed: seed * 3, Draws: 1000, Attempts: 2}
	}
	return NewResult(req, level, ok, s.store.Now())
}

func (s *StoreTestSuite) key(seed uint32) Key {
	return Key{Seed: seed, Depth: 5, Entry: drlg.EntryMain, Mode: drlg.BreakOnSuccess}
}

func (s *StoreTestSuite) TestPutThenGet() {
	s.Require().NoError(s.store.Put(s.ctx, s.result(7, true)))

	got, err := s.store.Get(s.ctx, s.key(7))
	s.Require().NoError(err)
	s.True(got.OK)
	s.Equal(uint32(21), got.LevelSeed)
	s.Equal(2, got.Attempts)
	s.Equal("break-on-success", got.Mode)
	s.True(probeTime.Equal(got.ProbedAt))

	s.True(s.mr.Exists("probe:5:main:break-on-success:7"))
	s.Equal(time.Hour, s.mr.TTL("probe:5:main:break-on-success:7"))
}

func (s *StoreTestSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, s.key(1))
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreTestSuite) TestOKSeedsIndex() {
	for _, seed := range []uint32{30, 10, 20} {
		s.Require().NoError(s.store.Put(s.ctx, s.result(seed, true)))
	}
	s.Require().NoError(s.store.Put(s.ctx, s.result(15, false)))

	seeds, err := s.store.OKSeeds(s.ctx, s.key(0), 0)
	s.Require().NoError(err)
	s.Equal([]uint32{10, 20, 30}, seeds)

	seeds, err = s.store.OKSeeds(s.ctx, s.key(0), 2)
	s.Require().NoError(err)
	s.Equal([]uint32{10, 20}, seeds)

	s.Require().NoError(s.store.Put(s.ctx, s.result(20, false)))
	seeds, err = s.store.OKSeeds(s.ctx, s.key(0), 0)
	s.Require().NoError(err)
	s.Equal([]uint32{10, 30}, seeds)
}

func (s *StoreTestSuite) TestPutRejectsUnknownMode() {
	r := s.result(1, true)
	r.Mode = "sideways"
	s.Error(s.store.Put(s.ctx, r))
}

func (s *StoreTestSuite) TestServerDown() {
	s.mr.Close()
	s.Error(s.store.Put(s.ctx, s.result(1, true)))
	_, err := s.store.Get(s.ctx, s.key(1))
	s.Error(err)
	s.NotErrorIs(err, ErrNotFound)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestNewStoreRequiresClient(t *testing.T) {
	_, err := NewStore(&Config{})
	if err == nil {
		t.Fatal("expected error for missing client")
	}
}

func TestKeyString(t *testing.T) {
	k := KeyOf(drlg.Request{Seed: 9, Depth: 13, Entry: drlg.EntryTownWarp, Mode: drlg.Full})
	if got, want := k.String(), "probe:13:town-warp:full:9"; got != want {
		t.Errorf("Key.String() = %q, want %q", got, want)
	}
}
