package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fiction_backend/internal/feature/auth/domain/entity"
	"fiction_backend/internal/feature/auth/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	// :memory: databases are per connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Create User table
	err = db.AutoMigrate(&UserModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func newTestUser(id, username, email string) *entity.User {
	return &entity.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "hashed_password",
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewUserGorm(t *testing.T) {
	db := setupTestDB(t)

	repo := NewUserGorm(db)

	assert.NotNil(t, repo, "repository is nil")
	assert.NotNil(t, repo.db, "database connection is nil")
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		err := repo.Create(context.Background(), newTestUser("u1", "alice", "a@x.com"))

		assert.NoError(t, err, "failed to create user")
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		require.NoError(t, repo.Create(context.Background(), newTestUser("u1", "alice", "dup@x.com")))

		err := repo.Create(context.Background(), newTestUser("u2", "bob", "dup@x.com"))

		assert.ErrorIs(t, err, usecase.ErrUserAlreadyExists, "should return duplicate error")
	})

	t.Run("duplicate username error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		require.NoError(t, repo.Create(context.Background(), newTestUser("u1", "alice", "a@x.com")))

		err := repo.Create(context.Background(), newTestUser("u2", "alice", "b@x.com"))

		assert.ErrorIs(t, err, usecase.ErrUserAlreadyExists, "should return duplicate error")
	})

	t.Run("nil user error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		err := repo.Create(context.Background(), nil)

		assert.Error(t, err, "should return error for nil user")
	})
}

func TestUserGorm_FindByEmail(t *testing.T) {
	t.Run("find user by email successfully", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		expected := newTestUser("u1", "alice", "find@x.com")
		require.NoError(t, repo.Create(context.Background(), expected), "failed to create test data")

		found, err := repo.FindByEmail(context.Background(), "find@x.com")

		require.NoError(t, err, "failed to find user")
		assert.Equal(t, expected.ID, found.ID, "ID does not match")
		assert.Equal(t, expected.Username, found.Username, "username does not match")
		assert.Equal(t, expected.PasswordHash, found.PasswordHash, "password hash does not match")
		assert.True(t, expected.CreatedAt.Equal(found.CreatedAt), "CreatedAt does not match")
	})

	t.Run("email not found error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))

		found, err := repo.FindByEmail(context.Background(), "notfound@x.com")

		assert.Nil(t, found, "user should be nil")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound, "should return ErrUserNotFound")
	})

	t.Run("email match is exact", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		require.NoError(t, repo.Create(context.Background(), newTestUser("u1", "alice", "a@x.com")))

		_, err := repo.FindByEmail(context.Background(), "a@x.co")

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})
}

func TestUserGorm_FindByEmailOrUsername(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()
	// u1 is inserted first so an unordered query would return it
	require.NoError(t, repo.Create(ctx, newTestUser("u1", "alice", "alice@x.com")))
	require.NoError(t, repo.Create(ctx, newTestUser("u2", "bob", "bob@x.com")))

	tests := []struct {
		name     string
		email    string
		username string
		wantID   string
		wantErr  error
	}{
		{name: "match by email", email: "bob@x.com", username: "nobody", wantID: "u2"},
		{name: "match by username", email: "nobody@x.com", username: "alice", wantID: "u1"},
		{name: "email match wins over username match", email: "bob@x.com", username: "alice", wantID: "u2"},
		{name: "no match", email: "nobody@x.com", username: "nobody", wantErr: usecase.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByEmailOrUsername(ctx, tt.email, tt.username)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, found.ID)
		})
	}
}
