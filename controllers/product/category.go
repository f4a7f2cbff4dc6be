package productcontroller

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	BannerID    string  `json:"bannerId"`
}

var ErrCategoryTitleTaken = apierror.Validation("Category title already exists")

func bindCategory(c *gin.Context) (CategoryInput, error) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return input, apierror.Validation("Invalid input: " + err.Error())
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return input, apierror.Validation("Title is required")
	}
	if input.BannerID == "" {
		return input, apierror.Validation("Banner ID is required")
	}
	return input, nil
}

func findBanner(db *gorm.DB, id string) (*models.Banner, error) {
	var banner models.Banner
	if err := db.First(&banner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Validation("Invalid Banner ID")
		}
		return nil, apierror.Internal("Failed to fetch banner", err)
	}
	return &banner, nil
}

func titleTaken(db *gorm.DB, title, exceptID string) (bool, error) {
	var count int64
	query := db.Model(&models.Category{}).Where("title = ?", title)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// POST /api/categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := bindCategory(c)
		if err != nil {
			apierror.Respond(c, "[CATEGORIES_POST]", err)
			return
		}

		banner, err := findBanner(db, input.BannerID)
		if err != nil {
			apierror.Respond(c, "[CATEGORIES_POST]", err)
			return
		}
		if taken, err := titleTaken(db, input.Title, ""); err != nil {
			apierror.Respond(c, "[CATEGORIES_POST]", apierror.Internal("Failed to check category", err))
			return
		} else if taken {
			apierror.Respond(c, "[CATEGORIES_POST]", ErrCategoryTitleTaken)
			return
		}

		category := models.Category{Title: input.Title, Banners: []models.Banner{*banner}}
		if input.Description != nil {
			category.Description = *input.Description
		}
		if input.ImageURL != nil {
			category.ImageURL = *input.ImageURL
		}

		if err := db.Create(&category).Error; err != nil {
			if apierror.IsDuplicateKey(err) {
				apierror.Respond(c, "[CATEGORIES_POST]", ErrCategoryTitleTaken)
				return
			}
			apierror.Respond(c, "[CATEGORIES_POST]", apierror.Internal("Failed to create category", err))
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

// GET /api/categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Preload("Banners").Order("title ASC").Find(&categories).Error; err != nil {
			apierror.Respond(c, "[CATEGORIES_GET]", apierror.Internal("Failed to fetch categories", err))
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /api/categories/:id
func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.Preload("Banners").Preload("Products").First(&category, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierror.Respond(c, "[CATEGORY_GET]", apierror.NotFound("Category not found"))
				return
			}
			apierror.Respond(c, "[CATEGORY_GET]", apierror.Internal("Failed to fetch category", err))
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// PATCH /api/categories/:id
//
// Title and bannerId are required; the banner is linked in addition to any
// already linked. A replaced image is removed from the image host.
func UpdateCategory(db *gorm.DB, host images.Host) gin.HandlerFunc {
	return func(c *gin.Context) {
		input, err := bindCategory(c)
		if err != nil {
			apierror.Respond(c, "[CATEGORY_PATCH]", err)
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierror.Respond(c, "[CATEGORY_PATCH]", apierror.NotFound("Category not found"))
				return
			}
			apierror.Respond(c, "[CATEGORY_PATCH]", apierror.Internal("Failed to fetch category", err))
			return
		}
		banner, err := findBanner(db, input.BannerID)
		if err != nil {
			apierror.Respond(c, "[CATEGORY_PATCH]", err)
			return
		}
		if taken, err := titleTaken(db, input.Title, category.ID); err != nil {
			apierror.Respond(c, "[CATEGORY_PATCH]", apierror.Internal("Failed to check category", err))
			return
		} else if taken {
			apierror.Respond(c, "[CATEGORY_PATCH]", ErrCategoryTitleTaken)
			return
		}

		oldImage := category.ImageURL
		category.Title = input.Title
		if input.Description != nil {
			category.Description = *input.Description
		}
		if input.ImageURL != nil {
			category.ImageURL = *input.ImageURL
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Banners", "Products").Save(&category).Error; err != nil {
				return err
			}
			return tx.Model(&category).Association("Banners").Append(banner)
		})
		if err != nil {
			if apierror.IsDuplicateKey(err) {
				apierror.Respond(c, "[CATEGORY_PATCH]", ErrCategoryTitleTaken)
				return
			}
			apierror.Respond(c, "[CATEGORY_PATCH]", apierror.Internal("Failed to update category", err))
			return
		}

		if oldImage != "" && oldImage != category.ImageURL {
			if err := host.Delete(c.Request.Context(), oldImage); err != nil {
				log.Printf("⚠️ [CATEGORY_PATCH] failed to remove image %s: %v", oldImage, err)
			}
		}

		if err := db.Preload("Banners").First(&category, "id = ?", category.ID).Error; err != nil {
			apierror.Respond(c, "[CATEGORY_PATCH]", apierror.Internal("Failed to fetch category", err))
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /api/categories/:id
//
// Removes the category image, unlinks products and banners, then deletes
// the row. With guard_category_delete set, categories that still have
// products are refused.
func DeleteCategory(db *gorm.DB, host images.Host, policy config.CatalogPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierror.Respond(c, "[CATEGORY_DELETE]", apierror.NotFound("Category not found"))
				return
			}
			apierror.Respond(c, "[CATEGORY_DELETE]", apierror.Internal("Failed to fetch category", err))
			return
		}

		if policy.GuardCategoryDelete {
			if linked := db.Model(&category).Association("Products").Count(); linked > 0 {
				apierror.Respond(c, "[CATEGORY_DELETE]", apierror.Validation("Cannot delete category because products are linked to it."))
				return
			}
		}

		if err := images.DeleteAll(c.Request.Context(), host, category.ImageURL); err != nil {
			apierror.Respond(c, "[CATEGORY_DELETE]", apierror.Internal("Failed to delete category image", err))
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&category).Association("Products").Clear(); err != nil {
				return err
			}
			if err := tx.Model(&category).Association("Banners").Clear(); err != nil {
				return err
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			apierror.Respond(c, "[CATEGORY_DELETE]", apierror.Internal("Failed to delete category", err))
			return
		}

		c.JSON(http.StatusOK, category)
	}
}
