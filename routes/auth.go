package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
)

// SetupAuthRoutes registers all “/api/auth/*” endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Deps) {
	authGroup := api.Group("/auth")
	{
		// Storefront customers sign in with their phone
		authGroup.POST("/otp/phone/try", auth.PhoneOTPTry(d.DB, d.SMS, d.Config.Twilio.CountryPrefix))
		authGroup.POST("/otp/phone/verify", auth.PhoneOTPVerify(d.DB, d.Sessions, d.Config.Twilio.CountryPrefix))

		// Dashboard owners sign in with their email
		authGroup.POST("/otp/email/try", auth.EmailOTPTry(d.DB, d.Mailer, d.Config.SuperAdminEmail))
		authGroup.POST("/otp/email/verify", auth.EmailOTPVerify(d.DB, d.Sessions, d.Config.SuperAdminEmail))

		authGroup.POST("/logout", auth.Logout(d.Sessions))
	}
}
