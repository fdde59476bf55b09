package models

import "time"

// Product is a catalog laptop. Prices are whole VND.
type Product struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;not null"`
	Price      int64     `gorm:"column:price;not null;index"`
	Image      *string   `gorm:"column:image"`
	DetailDesc string    `gorm:"column:detail_desc;not null;default:''"`
	ShortDesc  string    `gorm:"column:short_desc;not null;default:''"`
	Quantity   int       `gorm:"column:quantity;not null;default:0"`
	Sold       int       `gorm:"column:sold;not null;default:0"`
	Factory    string    `gorm:"column:factory;not null;index"`
	Target     string    `gorm:"column:target;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
