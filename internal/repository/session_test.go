package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/testing/suite"
)

func newTestSession(id string) *entity.Session {
	session := entity.NewSession(id, entity.PlayerO, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	session.Round.Board[4] = entity.PlayerX
	session.Round.Turn = entity.PlayerO
	session.History = append(session.History, entity.WonBy(entity.PlayerX, [3]int{0, 4, 8}), entity.Tied())

	return session
}

// testSessionRepository is run against every SessionRepository implementation.
func testSessionRepository(t *testing.T, ctx context.Context, newRepo func() SessionRepository) {
	t.Run("CreateOrUpdate_And_GetByID", func(t *testing.T) {
		repo := newRepo()

		// Given: a stored session with a move and some history
		session := newTestSession("s-1")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: GetByID is called with its id
		retrieved, err := repo.GetByID(ctx, session.ID)

		// Then: the session comes back intact
		require.NoError(t, err)
		assert.Equal(t, session.ID, retrieved.ID)
		assert.Equal(t, session.HumanMark, retrieved.HumanMark)
		assert.Equal(t, session.Round, retrieved.Round)
		assert.Equal(t, session.History, retrieved.History)
		assert.True(t, session.CreatedAt.Equal(retrieved.CreatedAt))
	})

	t.Run("CreateOrUpdate_Overwrites", func(t *testing.T) {
		repo := newRepo()

		// Given: a stored session
		session := newTestSession("s-2")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: it is updated with another move
		session.Round.Board[0] = entity.PlayerO
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// Then: the latest version is returned
		retrieved, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, retrieved.Round.Board[0])
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		repo := newRepo()

		// When: GetByID is called with an unknown id
		retrieved, err := repo.GetByID(ctx, "9999999")

		// Then: ErrSessionNotFound is returned
		require.ErrorIs(t, err, ErrSessionNotFound)
		assert.Nil(t, retrieved)
	})

	t.Run("DeleteByID", func(t *testing.T) {
		repo := newRepo()

		// Given: a stored session
		session := newTestSession("s-3")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: it is deleted
		require.NoError(t, repo.DeleteByID(ctx, session.ID))

		// Then: it can no longer be read nor deleted again
		_, err := repo.GetByID(ctx, session.ID)
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.ErrorIs(t, repo.DeleteByID(ctx, session.ID), ErrSessionNotFound)
	})
}

func TestMemorySessionRepository(t *testing.T) {
	testSessionRepository(t, context.Background(), func() SessionRepository {
		return NewMemorySessionRepository(time.Hour)
	})
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()

	// Given: a memory repository with a controllable clock
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemorySessionRepository(time.Minute).(*memorySession)
	repo.now = func() time.Time { return now }

	session := newTestSession("s-ttl")
	require.NoError(t, repo.CreateOrUpdate(ctx, session))

	// When: less than the ttl has passed
	now = now.Add(59 * time.Second)

	// Then: the session is still there
	_, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)

	// When: the ttl has passed
	now = now.Add(time.Second)

	// Then: the session is gone
	_, err = repo.GetByID(ctx, session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepository_SweepsAbandonedSessions(t *testing.T) {
	ctx := context.Background()

	// Given: many sessions that nobody will read again
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewMemorySessionRepository(time.Minute).(*memorySession)
	repo.now = func() time.Time { return now }

	for i := range 1000 {
		require.NoError(t, repo.CreateOrUpdate(ctx, newTestSession(fmt.Sprintf("old-%d", i))))
	}

	// When: the ttl has long passed and a new session is stored
	now = now.Add(time.Hour)
	require.NoError(t, repo.CreateOrUpdate(ctx, newTestSession("fresh")))

	// Then: only the new session is kept
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	assert.Len(t, repo.entries, 1)
	assert.Contains(t, repo.entries, "fresh")
}

func TestMemorySessionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(0)

	// Given: a stored session
	session := newTestSession("s-copy")
	require.NoError(t, repo.CreateOrUpdate(ctx, session))

	// When: the caller keeps mutating its value
	session.Round.Board[8] = entity.PlayerX

	// Then: the stored state is unaffected
	retrieved, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmptyCell, retrieved.Round.Board[8])
}

func TestRedisSessionRepository(t *testing.T) {
	ctx, st := suite.New(t)

	testSessionRepository(t, ctx, func() SessionRepository {
		return NewSessionRepository(st.Storage, time.Hour)
	})

	t.Run("Key carries the ttl", func(t *testing.T) {
		repo := NewSessionRepository(st.Storage, time.Hour)

		// Given: a stored session
		require.NoError(t, repo.CreateOrUpdate(ctx, newTestSession("s-ttl")))

		// When: reading the key ttl
		ttl, err := st.Storage.TTL(ctx, "session:s-ttl").Result()

		// Then: it is bounded by the configured ttl
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Hour)
	})
}
