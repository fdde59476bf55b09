package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the single open cart owned by a user. Sum caches the total
// quantity across its lines for the header badge.
type Cart struct {
	ID        uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID    `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Sum       int          `gorm:"column:sum;not null;default:0"`
	Details   []CartDetail `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CartDetail is one (cart, product) line. Price snapshots the unit price at
// the time the line was first added.
type CartDetail struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_details_cart_product"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:idx_cart_details_cart_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Price     int64     `gorm:"column:price;not null"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *CartDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
