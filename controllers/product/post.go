package productcontroller

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput is the JSON body of product create and patch. Categories may
// be sent as a single categoryId or as a categories list.
type ProductInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Images      []string         `json:"images"`
	Price       *decimal.Decimal `json:"price"`
	Discount    *decimal.Decimal `json:"discount"`
	Stock       *int             `json:"stock"`
	BrandID     string           `json:"brandId"`
	CategoryID  string           `json:"categoryId"`
	Categories  []string         `json:"categories"`
	IsFeatured  *bool            `json:"isFeatured"`
	IsAvailable *bool            `json:"isAvailable"`
}

func (in ProductInput) categoryIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, id := range append([]string{in.CategoryID}, in.Categories...) {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// apply copies the set fields of in onto p.
func (in ProductInput) apply(p *models.Product) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.BrandID != "" {
		p.BrandID = in.BrandID
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	if p.Images == nil {
		p.Images = []string{}
	}
}

func validatePricing(p *models.Product) error {
	switch {
	case p.Price.IsNegative():
		return apierror.Validation("Price cannot be negative")
	case p.Discount.IsNegative():
		return apierror.Validation("Discount cannot be negative")
	case p.Discount.GreaterThan(p.Price):
		return apierror.Validation("Discount cannot exceed price")
	case p.Stock < 0:
		return apierror.Validation("Stock cannot be negative")
	}
	return nil
}

func requireBrand(db *gorm.DB, brandID string) error {
	if err := db.Select("id").First(&models.Brand{}, "id = ?", brandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Validation("Invalid Brand ID")
		}
		return apierror.Internal("Failed to fetch brand", err)
	}
	return nil
}

// findCategories loads every id or fails with 400 naming the first missing.
func findCategories(db *gorm.DB, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []models.Category
	if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, apierror.Internal("Failed to fetch categories", err)
	}
	if len(categories) != len(ids) {
		return nil, apierror.Validation("Invalid Category ID")
	}
	return categories, nil
}

// CreateProduct creates a product linked to a brand and one or more
// categories.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierror.Respond(c, "[PRODUCTS_POST]", apierror.Validation("Invalid input: "+err.Error()))
			return
		}

		categoryIDs := input.categoryIDs()
		if input.Title == nil || strings.TrimSpace(*input.Title) == "" || len(categoryIDs) == 0 {
			apierror.Respond(c, "[PRODUCTS_POST]", apierror.Validation("Title and Category ID are required"))
			return
		}
		if err := requireBrand(db, input.BrandID); err != nil {
			apierror.Respond(c, "[PRODUCTS_POST]", err)
			return
		}
		categories, err := findCategories(db, categoryIDs)
		if err != nil {
			apierror.Respond(c, "[PRODUCTS_POST]", err)
			return
		}

		product := models.Product{IsAvailable: true}
		input.apply(&product)
		product.Categories = categories
		if err := validatePricing(&product); err != nil {
			apierror.Respond(c, "[PRODUCTS_POST]", err)
			return
		}

		if err := db.Create(&product).Error; err != nil {
			apierror.Respond(c, "[PRODUCTS_POST]", apierror.Internal("Failed to create product", err))
			return
		}

		log.Printf("🆕 [PRODUCTS_POST] product %s created", product.ID)
		c.JSON(http.StatusCreated, product)
	}
}
