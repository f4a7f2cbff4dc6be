package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Count     *int   `json:"count" binding:"required"`
}

var (
	ErrUserNotFound    = apierror.NotFound("User not found")
	ErrProductNotFound = apierror.NotFound("Product does not exist")
)

// UpsertCartItem sets the count of productID in the user's cart. A count
// below one removes the line, and removing a line that is not there is a
// no-op. Otherwise the line is created or its count overwritten. The cart
// itself is created on first use. Returns the cart with products loaded.
func UpsertCartItem(db *gorm.DB, userID, productID string, count int) (*models.Cart, error) {
	if err := db.Select("id").First(&models.User{}, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apierror.Internal("Failed to load user", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
			return err
		}

		if count < 1 {
			return tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
				Delete(&models.CartItem{}).Error
		}

		if err := tx.Select("id").First(&models.Product{}, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		item := models.CartItem{CartID: cart.ID, ProductID: productID, Count: count}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"count", "updated_at"}),
		}).Create(&item).Error
	})
	if err != nil {
		var apiErr *apierror.Error
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, apierror.Internal("Failed to update cart", err)
	}

	return GetCart(db, userID)
}

// GetCart returns the user's cart with items and products. A user without
// a cart gets an empty one.
func GetCart(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).Preload("Items.Product").
		Preload("Items.Product.Brand").
		Preload("Items.Product.Categories").
		Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, apierror.Internal("Failed to fetch cart", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// ClearCart removes every line from the user's cart.
func ClearCart(db *gorm.DB, userID string) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apierror.Internal("Failed to fetch user cart", err)
	}
	if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return apierror.Internal("Failed to clear cart", err)
	}
	return nil
}

// POST /api/cart
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			apierror.Respond(c, "[CART_POST]", apierror.Unauthorized("Unauthorized"))
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierror.Respond(c, "[CART_POST]", apierror.Validation("Invalid input: "+err.Error()))
			return
		}

		cart, err := UpsertCartItem(db, identity.UserID, input.ProductID, *input.Count)
		if err != nil {
			apierror.Respond(c, "[CART_POST]", err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// GET /api/cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			apierror.Respond(c, "[CART_GET]", apierror.Unauthorized("Unauthorized"))
			return
		}
		cart, err := GetCart(db, identity.UserID)
		if err != nil {
			apierror.Respond(c, "[CART_GET]", err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /api/cart
func ClearUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.CurrentIdentity(c)
		if !ok {
			apierror.Respond(c, "[CART_DELETE]", apierror.Unauthorized("Unauthorized"))
			return
		}
		if err := ClearCart(db, identity.UserID); err != nil {
			apierror.Respond(c, "[CART_DELETE]", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /api/users/:userId/cart
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := GetCart(db, c.Param("userId"))
		if err != nil {
			apierror.Respond(c, "[ADMIN_CART_GET]", err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
