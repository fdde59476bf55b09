package cart

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the GORM-backed CartRepository.
type Repository struct {
	db *gorm.DB
}

var _ CartRepository = (*Repository)(nil)

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) FindProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindOrCreate returns the user's cart, creating an empty one when missing.
// Concurrent first adds race on the user_id unique index; the loser's insert
// is dropped and both read the surviving row.
func (r *Repository) FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(cart).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUser(ctx, userID)
}

func (r *Repository) UpsertLine(ctx context.Context, cartID uuid.UUID, productID int64, quantity int, unitPrice int64) error {
	line := &models.CartDetail{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     unitPrice,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_details.quantity + excluded.quantity"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(line).Error
}

func (r *Repository) DeleteLine(ctx context.Context, cartID uuid.UUID, productID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartDetail{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) RecomputeSum(ctx context.Context, cartID uuid.UUID) (int, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.CartDetail{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("cart_id = ?", cartID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	err = r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{"sum": sum, "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return 0, err
	}
	return int(sum), nil
}

// ListLines returns the cart lines with their products, oldest first.
func (r *Repository) ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartDetail, error) {
	var lines []models.CartDetail
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Order("product_id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
