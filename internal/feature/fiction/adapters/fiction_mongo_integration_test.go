//go:build integration

package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"fiction_backend/internal/feature/fiction/usecase"
	platformmongo "fiction_backend/internal/platform/mongo"
)

// setupMongo starts a disposable MongoDB container and returns a fresh database.
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start mongo container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, db, err := platformmongo.Connect(ctx, platformmongo.Config{URI: uri, DBName: "fictions_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return db
}

func TestFictionMongo(t *testing.T) {
	db := setupMongo(t)
	repo := NewFictionMongo(db)
	ctx := context.Background()

	for _, f := range []struct {
		id     string
		offset time.Duration
	}{{"f2", 2 * time.Minute}, {"f0", 0}, {"f1", time.Minute}} {
		require.NoError(t, repo.Create(ctx, newTestFiction(f.id, "u1", f.offset)))
	}

	t.Run("FindAll is ordered and bounded", func(t *testing.T) {
		got, err := repo.FindAll(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "f0", got[0].ID)
		assert.Equal(t, "f1", got[1].ID)
	})

	t.Run("FindByIDAndOwner scopes by owner", func(t *testing.T) {
		_, err := repo.FindByIDAndOwner(ctx, "f1", "u2")
		assert.ErrorIs(t, err, usecase.ErrFictionNotFound)

		got, err := repo.FindByIDAndOwner(ctx, "f1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "f1", got.ID)
	})

	t.Run("UpdateFields sets only given keys", func(t *testing.T) {
		later := baseTime.Add(time.Hour)
		require.NoError(t, repo.UpdateFields(ctx, "f1", map[string]any{
			usecase.FieldTitle:     "New",
			usecase.FieldUpdatedAt: later,
		}))

		got, err := repo.FindByID(ctx, "f1")
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, "Author", got.Author)
		assert.True(t, later.Equal(got.UpdatedAt))

		err = repo.UpdateFields(ctx, "missing", map[string]any{usecase.FieldTitle: "X"})
		assert.ErrorIs(t, err, usecase.ErrFictionNotFound)
	})

	t.Run("DeleteByIDAndOwner", func(t *testing.T) {
		n, err := repo.DeleteByIDAndOwner(ctx, "f2", "u2")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = repo.DeleteByIDAndOwner(ctx, "f2", "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = repo.FindByID(ctx, "f2")
		assert.ErrorIs(t, err, usecase.ErrFictionNotFound)
	})
}
