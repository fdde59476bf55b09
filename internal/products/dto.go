package product

import (
	"time"

	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/angelmondragon/laptopshop/pkg/enums"
	"github.com/angelmondragon/laptopshop/pkg/money"
)

// ProductDTO is the catalog view of a product.
type ProductDTO struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	PriceDisplay string    `json:"price_display"`
	Image        *string   `json:"image,omitempty"`
	ShortDesc    string    `json:"short_desc"`
	DetailDesc   string    `json:"detail_desc"`
	Quantity     int       `json:"quantity"`
	Sold         int       `json:"sold"`
	Factory      string    `json:"factory"`
	FactoryLabel string    `json:"factory_label"`
	Target       string    `json:"target"`
	TargetLabel  string    `json:"target_label"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromModel(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		PriceDisplay: money.VND(p.Price).String(),
		Image:        p.Image,
		ShortDesc:    p.ShortDesc,
		DetailDesc:   p.DetailDesc,
		Quantity:     p.Quantity,
		Sold:         p.Sold,
		Factory:      p.Factory,
		FactoryLabel: enums.ProductFactory(p.Factory).Label(),
		Target:       p.Target,
		TargetLabel:  enums.ProductTarget(p.Target).Label(),
		CreatedAt:    p.CreatedAt,
	}
}

// ProductPage is one page of a filtered listing.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
	TotalPages int          `json:"total_pages"`
}

// HasPrev reports whether a previous page exists.
func (p ProductPage) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether a following page exists.
func (p ProductPage) HasNext() bool {
	return p.Page < p.TotalPages
}
