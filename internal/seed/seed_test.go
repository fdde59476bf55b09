package seed

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/laptopshop/internal/users"
	"github.com/angelmondragon/laptopshop/pkg/config"
	"github.com/angelmondragon/laptopshop/pkg/db"
	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/angelmondragon/laptopshop/pkg/enums"
	"github.com/angelmondragon/laptopshop/pkg/migrate"
	"github.com/angelmondragon/laptopshop/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fastArgon = config.PasswordConfig{ArgonMemoryKB: 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}

func newSeedDB(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	client := db.NewFromGorm(conn)
	require.NoError(t, migrate.AutoMigrateModels(context.Background(), client))
	return client
}

func TestRunIsIdempotent(t *testing.T) {
	client := newSeedDB(t)
	ctx := context.Background()
	opts := Options{AdminEmail: "Admin@Laptopshop.local", AdminFullName: "Quản trị", Password: fastArgon}

	first, err := Run(ctx, client, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, len(DemoProducts()), first.ProductsCreated)
	assert.True(t, first.AdminCreated)
	assert.Len(t, first.AdminPassword, adminPasswordLength)

	second, err := Run(ctx, client, nil, opts)
	require.NoError(t, err)
	assert.Zero(t, second.ProductsCreated)
	assert.False(t, second.AdminCreated)
	assert.Empty(t, second.AdminPassword)

	var count int64
	require.NoError(t, client.DB().Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, len(DemoProducts()), count)

	admin, err := users.NewRepository(client.DB()).FindByEmail(ctx, "admin@laptopshop.local")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, admin.Role)
	ok, err := security.VerifyPassword(first.AdminPassword, admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunWithoutAdmin(t *testing.T) {
	client := newSeedDB(t)

	result, err := Run(context.Background(), client, nil, Options{})
	require.NoError(t, err)
	assert.False(t, result.AdminCreated)

	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDemoProductsUseKnownCategories(t *testing.T) {
	for _, p := range DemoProducts() {
		assert.True(t, enums.ProductFactory(p.Factory).IsValid(), p.Name)
		assert.True(t, enums.ProductTarget(p.Target).IsValid(), p.Name)
		assert.Positive(t, p.Price, p.Name)
	}
}

func TestRunRequiresClient(t *testing.T) {
	_, err := Run(context.Background(), nil, nil, Options{})
	assert.Error(t, err)
}
