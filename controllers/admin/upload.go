package adminController

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/images"
)

const maxImageSize = 10 << 20

// UploadImage - POST /api/uploads. Stores the "image" form file with the
// image host and returns its public URL for use in catalog forms.
func UploadImage(host images.Host) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			apierror.Respond(c, "[UPLOAD]", apierror.Validation("No image uploaded"))
			return
		}
		if fileHeader.Size > maxImageSize {
			apierror.Respond(c, "[UPLOAD]", apierror.Validation("Image is larger than 10MB"))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			apierror.Respond(c, "[UPLOAD]", apierror.Internal("Failed to open upload", err))
			return
		}
		defer file.Close()

		url, err := host.Upload(c.Request.Context(), fileHeader.Filename, file)
		if err != nil {
			apierror.Respond(c, "[UPLOAD]", apierror.Internal("Failed to store image", err))
			return
		}

		log.Printf("🖼️ [UPLOAD] stored %s", url)
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}
