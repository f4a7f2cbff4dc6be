package adminController

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type BrandInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

var (
	ErrBrandTitleTaken  = apierror.Validation("Brand title already exists")
	ErrBrandHasProducts = apierror.Validation("Cannot delete brand because products are linked to it.")
)

func findBrand(db *gorm.DB, id string) (*models.Brand, error) {
	var brand models.Brand
	if err := db.First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Brand not found")
		}
		return nil, apierror.Internal("Failed to fetch brand", err)
	}
	return &brand, nil
}

// GET /api/brands
func GetBrands(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brands []models.Brand
		if err := db.Order("title ASC").Find(&brands).Error; err != nil {
			apierror.Respond(c, "[BRANDS_GET]", apierror.Internal("Failed to fetch brands", err))
			return
		}
		c.JSON(http.StatusOK, brands)
	}
}

// GET /api/brands/:id
func GetBrand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		brand, err := findBrand(db, c.Param("id"))
		if err != nil {
			apierror.Respond(c, "[BRAND_GET]", err)
			return
		}
		c.JSON(http.StatusOK, brand)
	}
}

// POST /api/brands
func CreateBrand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input BrandInput
		if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Title) == "" {
			apierror.Respond(c, "[BRANDS_POST]", apierror.Validation("Title is required"))
			return
		}

		brand := models.Brand{Title: strings.TrimSpace(input.Title), Description: input.Description, Logo: input.Logo}
		var existing int64
		if err := db.Model(&models.Brand{}).Where("title = ?", brand.Title).Count(&existing).Error; err != nil {
			apierror.Respond(c, "[BRANDS_POST]", apierror.Internal("Failed to check brand", err))
			return
		}
		if existing > 0 {
			apierror.Respond(c, "[BRANDS_POST]", ErrBrandTitleTaken)
			return
		}

		if err := db.Create(&brand).Error; err != nil {
			if apierror.IsDuplicateKey(err) {
				apierror.Respond(c, "[BRANDS_POST]", ErrBrandTitleTaken)
				return
			}
			apierror.Respond(c, "[BRANDS_POST]", apierror.Internal("Failed to create brand", err))
			return
		}
		c.JSON(http.StatusCreated, brand)
	}
}

// PATCH /api/brands/:id
//
// Only the fields sent are changed; at least one is required.
func UpdateBrand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input BrandInput
		if err := c.ShouldBindJSON(&input); err != nil ||
			(input.Title == "" && input.Description == "" && input.Logo == "") {
			apierror.Respond(c, "[BRAND_PATCH]", apierror.Validation("At least one field (title or description) is required"))
			return
		}

		brand, err := findBrand(db, c.Param("id"))
		if err != nil {
			apierror.Respond(c, "[BRAND_PATCH]", err)
			return
		}

		updates := map[string]interface{}{}
		if input.Title != "" {
			updates["title"] = strings.TrimSpace(input.Title)
		}
		if input.Description != "" {
			updates["description"] = input.Description
		}
		if input.Logo != "" {
			updates["logo"] = input.Logo
		}
		if err := db.Model(brand).Updates(updates).Error; err != nil {
			if apierror.IsDuplicateKey(err) {
				apierror.Respond(c, "[BRAND_PATCH]", ErrBrandTitleTaken)
				return
			}
			apierror.Respond(c, "[BRAND_PATCH]", apierror.Internal("Failed to update brand", err))
			return
		}

		brand, err = findBrand(db, brand.ID)
		if err != nil {
			apierror.Respond(c, "[BRAND_PATCH]", err)
			return
		}
		c.JSON(http.StatusOK, brand)
	}
}

// RemoveBrand deletes a brand that no product references, together with
// its hosted logo.
func RemoveBrand(ctx context.Context, db *gorm.DB, host images.Host, id string) (*models.Brand, error) {
	brand, err := findBrand(db, id)
	if err != nil {
		return nil, err
	}

	var linked int64
	if err := db.Model(&models.Product{}).Where("brand_id = ?", brand.ID).Count(&linked).Error; err != nil {
		return nil, apierror.Internal("Failed to check products", err)
	}
	if linked > 0 {
		return nil, ErrBrandHasProducts
	}

	if err := images.DeleteAll(ctx, host, brand.Logo); err != nil {
		return nil, apierror.Internal("Failed to delete brand logo", err)
	}
	if err := db.Delete(brand).Error; err != nil {
		if apierror.IsForeignKeyViolation(err) {
			return nil, ErrBrandHasProducts
		}
		return nil, apierror.Internal("Failed to delete brand", err)
	}
	return brand, nil
}

// DELETE /api/brands/:id
func DeleteBrand(db *gorm.DB, host images.Host) gin.HandlerFunc {
	return func(c *gin.Context) {
		brand, err := RemoveBrand(c.Request.Context(), db, host, c.Param("id"))
		if err != nil {
			apierror.Respond(c, "[BRAND_DELETE]", err)
			return
		}
		c.JSON(http.StatusOK, brand)
	}
}
