package product

import (
	"context"
	"errors"

	"github.com/angelmondragon/laptopshop/pkg/db"
	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/angelmondragon/laptopshop/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProductNotFound is returned by stores when no product has the id.
var ErrProductNotFound = errors.New("product not found")

// Store is the persistence port the catalog reads through.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	// ListPage returns the rows of one page and the total number of rows
	// matching cond, both read from the same snapshot.
	ListPage(ctx context.Context, cond Condition, order []OrderKey, page pagination.PageRequest) ([]models.Product, int64, error)
}

type readTxRunner interface {
	WithReadTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository is the GORM-backed Store.
type Repository struct {
	db *gorm.DB
	tx readTxRunner
}

var _ Store = (*Repository)(nil)

// NewRepository builds a repository on the shared client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client.DB(), tx: client}
}

// FindByID loads a product by primary key.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListPage counts and fetches inside one read transaction so the total and
// the page agree even under concurrent writes.
func (r *Repository) ListPage(ctx context.Context, cond Condition, order []OrderKey, page pagination.PageRequest) ([]models.Product, int64, error) {
	var (
		count int64
		rows  []models.Product
	)
	err := r.tx.WithReadTx(ctx, func(tx *gorm.DB) error {
		if err := filtered(tx, cond).Count(&count).Error; err != nil {
			return err
		}
		if int64(page.Offset()) >= count {
			return nil
		}
		qb := filtered(tx, cond)
		for _, key := range order {
			qb = qb.Order(key.clause())
		}
		return qb.Offset(page.Offset()).Limit(page.PageSize).Find(&rows).Error
	})
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []models.Product{}
	}
	return rows, count, nil
}

func filtered(tx *gorm.DB, cond Condition) *gorm.DB {
	qb := tx.Model(&models.Product{})
	if cond == nil {
		return qb
	}
	if expr := cond.Expression(); expr != nil {
		qb = qb.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
	}
	return qb
}
