package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/angelmondragon/laptopshop/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newUsersDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(newUsersDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "  An.Nguyen@Example.com ",
		PasswordHash: "hash",
		FullName:     " Nguyen Van An ",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "an.nguyen@example.com", created.Email)
	assert.Equal(t, "Nguyen Van An", created.FullName)
	assert.Equal(t, enums.UserRoleUser, created.Role)
	assert.True(t, created.IsActive)

	byEmail, err := repo.FindByEmail(ctx, "AN.NGUYEN@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	exists, err := repo.EmailExists(ctx, " an.nguyen@EXAMPLE.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.EmailExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	repo := NewRepository(newUsersDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Email: "dup@example.com", PasswordHash: "h", FullName: "A"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, CreateUserDTO{Email: "DUP@example.com", PasswordHash: "h", FullName: "B"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRepositoryUpdates(t *testing.T) {
	repo := NewRepository(newUsersDB(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: "u@example.com", PasswordHash: "old", FullName: "U", Role: enums.UserRoleAdmin})
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordLogin(ctx, user.ID, at, ""))
	reloaded, err := repo.FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, "old", reloaded.PasswordHash, "empty rehash keeps the stored hash")

	require.NoError(t, repo.RecordLogin(ctx, user.ID, at, "new"))
	assert.ErrorIs(t, repo.RecordLogin(ctx, uuid.New(), at, ""), ErrUserNotFound)

	reloaded, err = repo.FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at))
	assert.Equal(t, "new", reloaded.PasswordHash)
	assert.Equal(t, enums.UserRoleAdmin, reloaded.Role)

	dto := FromModel(reloaded)
	assert.Equal(t, "U", dto.FullName)
	assert.Nil(t, FromModel(nil))
}
