package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// Spreadsheet columns shared by export and import.
var excelHeaders = []string{
	"ID", "Title", "Description", "Price", "Discount", "Stock",
	"BrandID", "Images", "CategoryIDs", "IsFeatured", "IsAvailable",
	"CreatedAt", "UpdatedAt",
}

const excelMinColumns = 9

// ImportProductsFromExcel creates or updates products from the first sheet
// of an uploaded workbook. Rows with an ID that exists update that product;
// other rows create one. Invalid rows are skipped and counted.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			apierror.Respond(c, "[PRODUCTS_IMPORT]", apierror.Validation("Excel file is required"))
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			apierror.Respond(c, "[PRODUCTS_IMPORT]", apierror.Internal("Failed to open Excel file", err))
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			apierror.Respond(c, "[PRODUCTS_IMPORT]", apierror.Validation("Failed to parse Excel file"))
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			apierror.Respond(c, "[PRODUCTS_IMPORT]", apierror.Validation("Excel file is empty or missing header row"))
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0
		brands := map[string]bool{}

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			if row == nil || len(row.Cells) < excelMinColumns {
				skippedCount++
				continue
			}

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			product, ok := productFromRow(get)
			if !ok || validatePricing(&product) != nil {
				skippedCount++
				continue
			}

			if _, checked := brands[product.BrandID]; !checked {
				brands[product.BrandID] = requireBrand(db, product.BrandID) == nil
			}
			if !brands[product.BrandID] {
				skippedCount++
				continue
			}

			categories, err := findCategories(db, splitCell(get(8)))
			if err != nil {
				skippedCount++
				continue
			}

			updated, err := upsertImportedProduct(db, product, categories)
			switch {
			case err != nil:
				skippedCount++
			case updated:
				updatedCount++
			default:
				createdCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}

func productFromRow(get func(int) string) (models.Product, bool) {
	title := get(1)
	price, err := decimal.NewFromString(get(3))
	if title == "" || err != nil {
		return models.Product{}, false
	}

	discount := decimal.Zero
	if v := get(4); v != "" {
		if discount, err = decimal.NewFromString(v); err != nil {
			return models.Product{}, false
		}
	}
	stock := 0
	if v := get(5); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return models.Product{}, false
		}
		stock = int(f)
	}

	isAvailable := true
	if v := get(10); v != "" {
		isAvailable, _ = strconv.ParseBool(v)
	}
	isFeatured, _ := strconv.ParseBool(get(9))

	return models.Product{
		ID:          get(0),
		Title:       title,
		Description: get(2),
		Price:       price,
		Discount:    discount,
		Stock:       stock,
		BrandID:     get(6),
		Images:      splitCell(get(7)),
		IsFeatured:  isFeatured,
		IsAvailable: isAvailable,
	}, true
}

// upsertImportedProduct reports whether an existing product was updated.
func upsertImportedProduct(db *gorm.DB, product models.Product, categories []models.Category) (bool, error) {
	updated := false
	err := db.Transaction(func(tx *gorm.DB) error {
		if product.ID != "" {
			var existing models.Product
			err := tx.First(&existing, "id = ?", product.ID).Error
			if err == nil {
				product.CreatedAt = existing.CreatedAt
				if err := tx.Omit("Categories", "Brand").Save(&product).Error; err != nil {
					return err
				}
				updated = true
				if len(categories) > 0 {
					return tx.Model(&product).Association("Categories").Replace(categories)
				}
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		product.Categories = categories
		return tx.Create(&product).Error
	})
	return updated, err
}

// splitCell reads a comma separated cell, skipping blanks and repeats.
func splitCell(s string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" && !seen[part] {
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}
