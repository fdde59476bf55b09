package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/laptopshop/pkg/db/models"
	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
	"github.com/angelmondragon/laptopshop/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxLineQuantity caps a single add-to-cart request.
const MaxLineQuantity = 99

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartMetrics interface {
	IncCartAddition(err error)
}

type noopMetrics struct{}

func (noopMetrics) IncCartAddition(error) {}

// Service exposes cart mutations and reads for the signed-in user.
type Service interface {
	AddProduct(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (*Summary, error)
	RemoveLine(ctx context.Context, userID uuid.UUID, productID int64) (*Summary, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*View, error)
	CountItems(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	repo    CartRepository
	tx      txRunner
	metrics cartMetrics
}

// NewService builds a cart service. metrics may be nil.
func NewService(repo CartRepository, tx txRunner, metrics cartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &service{repo: repo, tx: tx, metrics: metrics}, nil
}

// AddProduct adds quantity units of the product to the user's cart, creating
// the cart and the line as needed.
func (s *service) AddProduct(ctx context.Context, userID uuid.UUID, productID int64, quantity int) (_ *Summary, err error) {
	defer func() { s.metrics.IncCartAddition(err) }()

	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if quantity < 1 || quantity > MaxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid quantity").
			WithDetails(map[string]any{"quantity": fmt.Sprintf("must be between 1 and %d", MaxLineQuantity)})
	}

	var summary Summary
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		cart, err := repo.FindOrCreate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if err := repo.UpsertLine(ctx, cart.ID, product.ID, quantity, product.Price); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert cart line")
		}
		sum, err := repo.RecomputeSum(ctx, cart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart sum")
		}
		summary = Summary{CartID: cart.ID, ItemCount: sum}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// RemoveLine drops the product from the user's cart. Removing a product that
// is not in the cart is not an error.
func (s *service) RemoveLine(ctx context.Context, userID uuid.UUID, productID int64) (*Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}

	var summary Summary
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrCartNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		summary.CartID = cart.ID
		summary.ItemCount = cart.Sum

		removed, err := repo.DeleteLine(ctx, cart.ID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
		}
		if !removed {
			return nil
		}
		sum, err := repo.RecomputeSum(ctx, cart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart sum")
		}
		summary.ItemCount = sum
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetCart returns the user's cart with line totals. A user without a cart
// gets an empty view.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return newView(nil), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	lines, err := s.repo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
	}
	view := newView(lines)
	view.CartID = cart.ID
	return view, nil
}

// CountItems returns the cached total quantity for the header badge.
func (s *service) CountItems(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, nil
	}
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCartNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart.Sum, nil
}

func newView(lines []models.CartDetail) *View {
	view := &View{Lines: make([]LineDTO, 0, len(lines))}
	totals := make([]money.VND, 0, len(lines))
	for _, line := range lines {
		dto := lineFromModel(line)
		view.Lines = append(view.Lines, dto)
		view.ItemCount += dto.Quantity
		totals = append(totals, money.VND(dto.LineTotal))
	}
	total := money.Sum(totals...)
	view.Total = int64(total)
	view.TotalDisplay = total.String()
	return view
}
