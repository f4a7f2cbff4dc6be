package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"uniqueIndex;not null" json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Banners     []Banner  `gorm:"many2many:category_banners" json:"banners,omitempty"`
	Products    []Product `gorm:"many2many:product_categories" json:"products,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

type Banner struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Label      string     `gorm:"not null" json:"label"`
	Image      string     `gorm:"not null" json:"image"`
	Categories []Category `gorm:"many2many:category_banners" json:"categories,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}

type Brand struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"uniqueIndex;not null" json:"title"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	Products    []Product `gorm:"foreignKey:BrandID" json:"products,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}
