// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every model migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// serialises transactions the way a row lock would.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// SeedUser creates a user with an optional address.
func SeedUser(t *testing.T, db *gorm.DB, phone string, withAddress bool) models.User {
	t.Helper()
	user := models.User{Phone: &phone}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if withAddress {
		addr := models.Address{UserID: user.ID, Address: "12 MG Road", City: "Pune", PostalCode: "411001"}
		if err := db.Create(&addr).Error; err != nil {
			t.Fatalf("seed address: %v", err)
		}
		user.Addresses = []models.Address{addr}
	}
	return user
}

// SeedProduct creates a brand (when brandID is empty) and a product.
func SeedProduct(t *testing.T, db *gorm.DB, title string, price, discount int64, brandID string) models.Product {
	t.Helper()
	if brandID == "" {
		brand := models.Brand{Title: "brand-" + uuid.NewString()[:8]}
		if err := db.Create(&brand).Error; err != nil {
			t.Fatalf("seed brand: %v", err)
		}
		brandID = brand.ID
	}
	product := models.Product{
		Title:       title,
		Price:       decimal.NewFromInt(price),
		Discount:    decimal.NewFromInt(discount),
		Stock:       10,
		IsAvailable: true,
		BrandID:     brandID,
		Images:      []string{},
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}
