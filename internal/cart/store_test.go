package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	store Store
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *StoreTestSuite) TestUnknownSessionIsEmpty() {
	c, err := s.store.Load(s.ctx, uuid.NewString())
	require.NoError(s.T(), err)
	require.Zero(s.T(), c.Len())
}

func (s *StoreTestSuite) TestSaveLoadRoundTrip() {
	session := uuid.NewString()
	c := New(
		LineItem{ID: "fur-elise", Name: "Für Elise", Composer: "Ludwig van Beethoven", Price: price("14.99"), Quantity: 2},
		LineItem{ID: "asturias", Name: "Asturias", Composer: "Isaac Albéniz", Price: price("22.99"), Quantity: 1},
	)
	require.NoError(s.T(), s.store.Save(s.ctx, session, c))

	loaded, err := s.store.Load(s.ctx, session)
	require.NoError(s.T(), err)
	require.Len(s.T(), loaded.Items(), 2)
	require.Equal(s.T(), "fur-elise", loaded.Items()[0].ID)
	require.True(s.T(), loaded.Totals().Total.Equal(c.Totals().Total))
}

func (s *StoreTestSuite) TestSessionsAreIsolated() {
	first, second := uuid.NewString(), uuid.NewString()
	require.NoError(s.T(), s.store.Save(s.ctx, first, New(LineItem{ID: "a", Quantity: 1})))

	other, err := s.store.Load(s.ctx, second)
	require.NoError(s.T(), err)
	require.Zero(s.T(), other.Len())
}

func (s *StoreTestSuite) TestDelete() {
	session := uuid.NewString()
	require.NoError(s.T(), s.store.Save(s.ctx, session, New(LineItem{ID: "a", Quantity: 1})))
	require.NoError(s.T(), s.store.Delete(s.ctx, session))
	require.NoError(s.T(), s.store.Delete(s.ctx, session))

	c, err := s.store.Load(s.ctx, session)
	require.NoError(s.T(), err)
	require.Zero(s.T(), c.Len())
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreTestSuite{store: NewMemoryStore()})
}

func TestRedisStoreSuite(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	t.Cleanup(func() { client.Close() })

	store, err := NewRedisStore(client, time.Minute)
	require.NoError(t, err)
	suite.Run(t, &StoreTestSuite{store: store})
}
