package productcontroller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestExportThenImportProducts(t *testing.T) {
	db := testutil.NewDB(t)
	r := newCatalogRouter(db, images.NewMemory(), config.CatalogPolicy{})
	product := testutil.SeedProduct(t, db, "Kurta", 100, 10, "")
	category := seedCategory(t, db, "Kurtas")
	linkCategory(t, db, product, category)

	w := send(r, http.MethodGet, "/products/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	sheet := file.Sheets[0]
	require.Equal(t, 2, sheet.MaxRow)
	assert.Equal(t, "Title", sheet.Rows[0].Cells[1].String())
	assert.Equal(t, product.ID, sheet.Rows[1].Cells[0].String())
	assert.Equal(t, category.ID, sheet.Rows[1].Cells[8].String())

	// Rename the exported product, add a new one and a broken row.
	sheet.Rows[1].Cells[1].SetValue("Linen Kurta")
	fresh := sheet.AddRow()
	for _, v := range []string{"", "Dupatta", "", "250", "0", "3", product.BrandID, "", category.ID + "," + category.ID} {
		fresh.AddCell().SetValue(v)
	}
	broken := sheet.AddRow()
	for _, v := range []string{"", "No price", "", "abc", "0", "3", product.BrandID, "", category.ID} {
		broken.AddCell().SetValue(v)
	}

	var workbook bytes.Buffer
	require.NoError(t, file.Write(&workbook))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/products/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var counts map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.EqualValues(t, 1, counts["created_count"])
	assert.EqualValues(t, 1, counts["updated_count"])
	assert.EqualValues(t, 1, counts["skipped_count"])

	var renamed models.Product
	require.NoError(t, db.First(&renamed, "id = ?", product.ID).Error)
	assert.Equal(t, "Linen Kurta", renamed.Title)

	var dupatta models.Product
	require.NoError(t, db.Preload("Categories").First(&dupatta, "title = ?", "Dupatta").Error)
	assert.Equal(t, "250", dupatta.Price.String())
	assert.Equal(t, 3, dupatta.Stock)
	require.Len(t, dupatta.Categories, 1)
}

func TestImportRequiresFile(t *testing.T) {
	db := testutil.NewDB(t)
	r := newCatalogRouter(db, images.NewMemory(), config.CatalogPolicy{})

	w := send(r, http.MethodPost, "/products/import", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Excel file is required"}`, w.Body.String())
}

func TestSplitCell(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCell(" a, ,b "))
	assert.Equal(t, []string{"a", "b"}, splitCell("a,b,a"))
	assert.Equal(t, []string{}, splitCell(""))
}
