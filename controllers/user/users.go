package userControllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UpdateUserInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func currentUserID(c *gin.Context) (string, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		apierror.Respond(c, "[PROFILE]", apierror.Unauthorized("Unauthorized"))
		return "", false
	}
	return identity.UserID, true
}

func loadUser(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := db.Preload("Addresses", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("User not found")
		}
		return nil, apierror.Internal("Failed to fetch user", err)
	}
	return &user, nil
}

// GET /api/profile
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		user, err := loadUser(db, userID)
		if err != nil {
			apierror.Respond(c, "[PROFILE_GET]", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /api/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.
			Select("id", "phone", "email", "name", "created_at", "updated_at"). // Select only public fields
			Order("created_at desc").
			Find(&users).Error; err != nil {
			apierror.Respond(c, "[USERS_GET]", apierror.Internal("Failed to fetch users", err))
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PATCH /api/profile
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierror.Respond(c, "[PROFILE_PATCH]", apierror.Validation("Invalid input: "+err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
		if input.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*input.Email))
			switch {
			case email == "":
				updates["email"] = nil
			case !emailPattern.MatchString(email):
				apierror.Respond(c, "[PROFILE_PATCH]", apierror.Validation("Incorrect Email"))
				return
			default:
				updates["email"] = email
			}
		}

		if len(updates) > 0 {
			err := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
			if apierror.IsDuplicateKey(err) {
				apierror.Respond(c, "[PROFILE_PATCH]", apierror.Conflict("Email is already in use"))
				return
			}
			if err != nil {
				apierror.Respond(c, "[PROFILE_PATCH]", apierror.Internal("Failed to update user", err))
				return
			}
		}

		user, err := loadUser(db, userID)
		if err != nil {
			apierror.Respond(c, "[PROFILE_PATCH]", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
