package productcontroller

import (
	"context"
	"net/http"
	"testing"

	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func productWithImages(t *testing.T, db *gorm.DB, urls ...string) models.Product {
	t.Helper()
	product := testutil.SeedProduct(t, db, "Kurta", 100, 0, "")
	product.Images = urls
	require.NoError(t, db.Save(&product).Error)
	return product
}

func TestRemoveProductCleansUp(t *testing.T) {
	db := testutil.NewDB(t)
	host := images.NewMemory()
	product := productWithImages(t, db, "https://images.test/a.jpg", "https://images.test/b.jpg")
	category := seedCategory(t, db, "Kurtas")
	linkCategory(t, db, product, category)

	user := testutil.SeedUser(t, db, "9876543210", false)
	cart := models.Cart{UserID: user.ID}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: product.ID, Count: 2}).Error)

	require.NoError(t, RemoveProduct(context.Background(), db, host, product.ID))

	assert.ElementsMatch(t, []string{"https://images.test/a.jpg", "https://images.test/b.jpg"}, host.Deleted)

	var count int64
	db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
	db.Table("product_categories").Where("product_id = ?", product.ID).Count(&count)
	assert.Zero(t, count)

	// The category itself survives.
	db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRemoveProductKeepsRowWhenImageDeleteFails(t *testing.T) {
	db := testutil.NewDB(t)
	host := images.NewMemory()
	host.FailOn = "https://images.test/b.jpg"
	product := productWithImages(t, db, "https://images.test/a.jpg", "https://images.test/b.jpg")

	err := RemoveProduct(context.Background(), db, host, product.ID)
	assert.Equal(t, http.StatusInternalServerError, apierror.Status(err))

	var count int64
	db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRemoveProductRefusesOrderedProduct(t *testing.T) {
	db := testutil.NewDB(t)
	host := images.NewMemory()
	product := productWithImages(t, db, "https://images.test/a.jpg")
	user := testutil.SeedUser(t, db, "9876543210", false)
	order := models.Order{ID: "order_1", UserID: user.ID, Status: models.OrderStatusProcessing}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, ProductID: product.ID, Count: 1, Price: product.Price}).Error)

	err := RemoveProduct(context.Background(), db, host, product.ID)
	assert.ErrorIs(t, err, ErrProductOrdered)
	assert.Empty(t, host.Deleted)
}

func TestRemoveProductNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	err := RemoveProduct(context.Background(), db, images.NewMemory(), "missing")
	assert.Equal(t, http.StatusNotFound, apierror.Status(err))
}

func TestDeleteProductHandler(t *testing.T) {
	db := testutil.NewDB(t)
	r := newCatalogRouter(db, images.NewMemory(), config.CatalogPolicy{})
	product := testutil.SeedProduct(t, db, "Kurta", 100, 0, "")

	w := send(r, http.MethodDelete, "/products/"+product.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodDelete, "/products/"+product.ID, nil).Code)
}
