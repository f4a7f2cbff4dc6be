package productcontroller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	db := testutil.NewDB(t)
	r := newCatalogRouter(db, images.NewMemory(), config.CatalogPolicy{})
	banner := models.Banner{Label: "Festive", Image: "https://images.test/festive.jpg"}
	require.NoError(t, db.Create(&banner).Error)

	w := send(r, http.MethodPost, "/categories", gin.H{"title": "Kurtas", "bannerId": banner.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(r, http.MethodPost, "/categories", gin.H{"title": "Kurtas", "bannerId": banner.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Category title already exists"}`, w.Body.String())

	w = send(r, http.MethodPost, "/categories", gin.H{"title": "Sarees", "bannerId": "missing"})
	assert.JSONEq(t, `{"error":"Invalid Banner ID"}`, w.Body.String())

	w = send(r, http.MethodPost, "/categories", gin.H{"title": "Sarees"})
	assert.JSONEq(t, `{"error":"Banner ID is required"}`, w.Body.String())

	var category models.Category
	require.NoError(t, db.Preload("Banners").First(&category, "title = ?", "Kurtas").Error)
	require.Len(t, category.Banners, 1)
	assert.Equal(t, banner.ID, category.Banners[0].ID)
}

func TestDeleteCategoryUnlinksProducts(t *testing.T) {
	db := testutil.NewDB(t)
	host := images.NewMemory()
	r := newCatalogRouter(db, host, config.CatalogPolicy{})

	category := models.Category{Title: "Kurtas", ImageURL: "https://images.test/kurtas.jpg"}
	require.NoError(t, db.Create(&category).Error)
	product := testutil.SeedProduct(t, db, "Kurta", 100, 0, "")
	linkCategory(t, db, product, category)

	w := send(r, http.MethodDelete, "/categories/"+category.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"https://images.test/kurtas.jpg"}, host.Deleted)

	var count int64
	db.Table("product_categories").Where("category_id = ?", category.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteCategoryGuard(t *testing.T) {
	db := testutil.NewDB(t)
	host := images.NewMemory()
	r := newCatalogRouter(db, host, config.CatalogPolicy{GuardCategoryDelete: true})

	category := seedCategory(t, db, "Kurtas")
	product := testutil.SeedProduct(t, db, "Kurta", 100, 0, "")
	linkCategory(t, db, product, category)

	w := send(r, http.MethodDelete, "/categories/"+category.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot delete category because products are linked to it."}`, w.Body.String())

	empty := seedCategory(t, db, "Empty")
	assert.Equal(t, http.StatusOK, send(r, http.MethodDelete, "/categories/"+empty.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodDelete, "/categories/"+empty.ID, nil).Code)
}
