package productcontroller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Categories").Order("created_at ASC").Find(&products).Error; err != nil {
			apierror.Respond(c, "[PRODUCTS_EXPORT]", apierror.Internal("Failed to fetch products", err))
			return
		}

		file, err := buildProductsWorkbook(products)
		if err != nil {
			apierror.Respond(c, "[PRODUCTS_EXPORT]", apierror.Internal("Failed to create Excel sheet", err))
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			apierror.Respond(c, "[PRODUCTS_EXPORT]", apierror.Internal("Failed to write Excel file", err))
			return
		}
	}
}

func buildProductsWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range excelHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()

		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Title)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price.String())
		row.AddCell().SetValue(p.Discount.String())
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.BrandID)
		row.AddCell().SetValue(strings.Join(p.Images, ","))

		var catIDs []string
		for _, cat := range p.Categories {
			catIDs = append(catIDs, cat.ID)
		}
		row.AddCell().SetValue(strings.Join(catIDs, ","))

		row.AddCell().SetValue(p.IsFeatured)
		row.AddCell().SetValue(p.IsAvailable)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}
