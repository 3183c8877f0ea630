package repository

import (
	"context"
	"testing"
	"time"

	"cabinet-portal/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionRepository(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	session := &entity.Session{
		TokenID:   "t1",
		User:      entity.User{ID: "p1", Nom: "Durand", Role: entity.RolePatient, Age: 34},
		CreatedAt: time.Date(2025, 1, 10, 14, 0, 0, 0, time.UTC),
	}

	t.Run("Save and find", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, session, time.Minute))
		assert.True(t, mr.Exists("session:p1:t1"))

		found, err := repo.Find(ctx, "p1", "t1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.RolePatient, found.User.Role)
		assert.Equal(t, 34, found.User.Age)
	})

	t.Run("Expired session", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)

		found, err := repo.Find(ctx, "p1", "t1")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Refresh tokens", func(t *testing.T) {
		refresh := &entity.Session{TokenID: "r1", User: session.User}
		require.NoError(t, repo.SaveRefreshToken(ctx, refresh, time.Hour))
		assert.True(t, mr.Exists("refresh_token:p1:r1"))

		found, err := repo.FindRefreshToken(ctx, "p1", "r1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Durand", found.User.Nom)

		require.NoError(t, repo.DeleteRefreshToken(ctx, "p1", "r1"))
		found, err = repo.FindRefreshToken(ctx, "p1", "r1")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Delete all for user", func(t *testing.T) {
		for _, tokenID := range []string{"a", "b", "c"} {
			s := *session
			s.TokenID = tokenID
			require.NoError(t, repo.Save(ctx, &s, time.Hour))
			require.NoError(t, repo.SaveRefreshToken(ctx, &s, time.Hour))
		}
		other := &entity.Session{TokenID: "x", User: entity.User{ID: "p2", Role: entity.RolePatient}}
		require.NoError(t, repo.Save(ctx, other, time.Hour))

		require.NoError(t, repo.DeleteAllForUser(ctx, "p1"))

		for _, key := range mr.Keys() {
			assert.NotContains(t, key, ":p1:")
		}
		assert.True(t, mr.Exists("session:p2:x"))
	})
}
