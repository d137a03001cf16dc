package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ithesk/axeweb/domain"
	"github.com/ithesk/axeweb/internal/mocks"
)

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	newSession := func(clock *mocks.MockClock) *domain.PortalSession {
		return &domain.PortalSession{
			ID:        "session-1",
			Phone:     "18091234567",
			View:      domain.ViewListing,
			CreatedAt: clock.Now(),
			ExpiresAt: clock.Now().Add(30 * time.Minute),
		}
	}

	t.Run("create and find", func(t *testing.T) {
		clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
		repo := NewMemorySessionRepository(clock)

		require.NoError(t, repo.Create(ctx, newSession(clock)))

		found, err := repo.FindByID(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "18091234567", found.Phone)
		assert.Equal(t, domain.ViewListing, found.View)
	})

	t.Run("save persists view changes", func(t *testing.T) {
		clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
		repo := NewMemorySessionRepository(clock)
		session := newSession(clock)
		require.NoError(t, repo.Create(ctx, session))

		session.View = domain.ViewDetail
		session.SelectedOrderID = 3472
		require.NoError(t, repo.Save(ctx, session))

		found, err := repo.FindByID(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ViewDetail, found.View)
		assert.Equal(t, int64(3472), found.SelectedOrderID)
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
		repo := NewMemorySessionRepository(clock)
		require.NoError(t, repo.Create(ctx, newSession(clock)))

		found, err := repo.FindByID(ctx, "session-1")
		require.NoError(t, err)
		found.View = domain.ViewAuthorization

		again, err := repo.FindByID(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ViewListing, again.View)
	})

	t.Run("expired sessions are evicted on read", func(t *testing.T) {
		clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
		repo := NewMemorySessionRepository(clock)
		require.NoError(t, repo.Create(ctx, newSession(clock)))

		clock.Advance(31 * time.Minute)

		_, err := repo.FindByID(ctx, "session-1")
		require.ErrorIs(t, err, domain.ErrSessionExpired)

		// A second read no longer finds the evicted session at all.
		_, err = repo.FindByID(ctx, "session-1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
		repo := NewMemorySessionRepository(clock)
		require.NoError(t, repo.Create(ctx, newSession(clock)))

		require.NoError(t, repo.Delete(ctx, "session-1"))
		_, err := repo.FindByID(ctx, "session-1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		clock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
		repo := NewMemorySessionRepository(clock)
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
