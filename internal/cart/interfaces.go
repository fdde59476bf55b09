package cart

import (
	"context"
	"errors"

	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindProduct(ctx context.Context, productID int64) (*models.Product, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// UpsertLine inserts the (cart, product) line or adds quantity to it.
	UpsertLine(ctx context.Context, cartID uuid.UUID, productID int64, quantity int, unitPrice int64) error
	DeleteLine(ctx context.Context, cartID uuid.UUID, productID int64) (bool, error)
	// RecomputeSum stores and returns the total quantity across the cart lines.
	RecomputeSum(ctx context.Context, cartID uuid.UUID) (int, error)
	ListLines(ctx context.Context, cartID uuid.UUID) ([]models.CartDetail, error)
}
