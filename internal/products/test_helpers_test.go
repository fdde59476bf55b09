package product

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/angelmondragon/laptopshop/pkg/db"
	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/angelmondragon/laptopshop/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// catalogFixture mirrors the worked example: A 9M APPLE, B 12M DELL,
// C 25M APPLE, D 15M ASUS.
func catalogFixture() []models.Product {
	return []models.Product{
		{ID: 1, Name: "A", Price: 9_000_000, Factory: "APPLE", Target: "MONG-NHE"},
		{ID: 2, Name: "B", Price: 12_000_000, Factory: "DELL", Target: "SINHVIEN-VANPHONG"},
		{ID: 3, Name: "C", Price: 25_000_000, Factory: "APPLE", Target: "THIET-KE-DO-HOA"},
		{ID: 4, Name: "D", Price: 15_000_000, Factory: "ASUS", Target: "GAMING"},
	}
}

func newSQLiteClient(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db.NewFromGorm(conn)
}

func seedProducts(t *testing.T, client *db.Client, products []models.Product) {
	t.Helper()
	if err := client.DB().Create(&products).Error; err != nil {
		t.Fatalf("seed products: %v", err)
	}
}

// memStore is an in-memory Store used to exercise the service without a
// database.
type memStore struct {
	products []models.Product
	err      error
	calls    int
}

func (m *memStore) FindByID(_ context.Context, id int64) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *memStore) ListPage(_ context.Context, cond Condition, order []OrderKey, page pagination.PageRequest) ([]models.Product, int64, error) {
	m.calls++
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []models.Product
	for i := range m.products {
		if cond.Matches(&m.products[i]) {
			matched = append(matched, m.products[i])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return Less(order, &matched[i], &matched[j]) })

	count := int64(len(matched))
	start := page.Offset()
	if start >= len(matched) {
		return []models.Product{}, count, nil
	}
	end := start + page.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], count, nil
}
