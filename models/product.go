package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Images      []string        `gorm:"serializer:json;type:text" json:"images"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Discount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	IsFeatured  bool            `json:"isFeatured"`
	IsAvailable bool            `json:"isAvailable"`
	BrandID     string          `gorm:"index;not null;size:36" json:"brandId"`
	Brand       *Brand          `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Categories  []Category      `gorm:"many2many:product_categories" json:"categories,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
