package cart

import (
	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/angelmondragon/laptopshop/pkg/money"
	"github.com/google/uuid"
)

// Summary is returned after a mutation.
type Summary struct {
	CartID    uuid.UUID `json:"cart_id"`
	ItemCount int       `json:"item_count"`
}

// LineDTO is one rendered cart line.
type LineDTO struct {
	ProductID        int64   `json:"product_id"`
	Name             string  `json:"name"`
	Image            *string `json:"image,omitempty"`
	Quantity         int     `json:"quantity"`
	UnitPrice        int64   `json:"unit_price"`
	UnitPriceDisplay string  `json:"unit_price_display"`
	LineTotal        int64   `json:"line_total"`
	LineTotalDisplay string  `json:"line_total_display"`
}

// View is the cart page model.
type View struct {
	CartID       uuid.UUID `json:"cart_id"`
	Lines        []LineDTO `json:"lines"`
	ItemCount    int       `json:"item_count"`
	Total        int64     `json:"total"`
	TotalDisplay string    `json:"total_display"`
}

// IsEmpty reports whether the cart has no lines.
func (v View) IsEmpty() bool {
	return len(v.Lines) == 0
}

func lineFromModel(line models.CartDetail) LineDTO {
	unit := money.VND(line.Price)
	total := unit.Mul(line.Quantity)
	dto := LineDTO{
		ProductID:        line.ProductID,
		Quantity:         line.Quantity,
		UnitPrice:        line.Price,
		UnitPriceDisplay: unit.String(),
		LineTotal:        int64(total),
		LineTotalDisplay: total.String(),
	}
	if line.Product != nil {
		dto.Name = line.Product.Name
		dto.Image = line.Product.Image
	}
	return dto
}
