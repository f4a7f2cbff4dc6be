package auth

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
	"gorm.io/gorm"
)

var (
	indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type phoneRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"OTP"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
	OTP   string `json:"OTP"`
}

// normalizePhone strips a leading country prefix so "+919876543210" and
// "9876543210" name the same customer.
func normalizePhone(phone, prefix string) string {
	phone = strings.TrimSpace(phone)
	return strings.TrimPrefix(phone, prefix)
}

// POST /api/auth/otp/phone/try
func PhoneOTPTry(db *gorm.DB, sms notify.SMSSender, countryPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req phoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierror.Respond(c, "[OTP_PHONE_TRY]", apierror.Validation("Invalid Phone Number"))
			return
		}
		phone := normalizePhone(req.Phone, countryPrefix)
		if !indianMobile.MatchString(phone) {
			apierror.Respond(c, "[OTP_PHONE_TRY]", apierror.Validation("Invalid Phone Number"))
			return
		}

		otp, hash, err := newOTP()
		if err != nil {
			apierror.Respond(c, "[OTP_PHONE_TRY]", apierror.Internal("Failed to generate OTP", err))
			return
		}

		now := time.Now()
		var user models.User
		err = db.Where("phone = ?", phone).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			expires := now.Add(otpTTL)
			user = models.User{Phone: &phone, OTPHash: hash, OTPExpiresAt: &expires}
			err = db.Create(&user).Error
		case err == nil:
			err = db.Model(&user).Updates(issuedOTP(hash, now)).Error
		}
		if err != nil {
			apierror.Respond(c, "[OTP_PHONE_TRY]", apierror.Internal("Failed to save OTP", err))
			return
		}

		if err := sms.SendSMS(c.Request.Context(), countryPrefix+phone, "Your OTP code is: "+otp); err != nil {
			apierror.Respond(c, "[OTP_PHONE_TRY]", apierror.Internal("Failed to send OTP via SMS", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "phone": phone})
	}
}

// POST /api/auth/otp/phone/verify
func PhoneOTPVerify(db *gorm.DB, sessions *Sessions, countryPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req phoneRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.OTP == "" {
			apierror.Respond(c, "[OTP_PHONE_VERIFY]", apierror.Validation("phone and OTP are required"))
			return
		}
		phone := normalizePhone(req.Phone, countryPrefix)

		var user models.User
		if err := db.Where("phone = ?", phone).First(&user).Error; err != nil {
			apierror.Respond(c, "[OTP_PHONE_VERIFY]", ErrInvalidOTP)
			return
		}
		state := otpState{Hash: user.OTPHash, ExpiresAt: user.OTPExpiresAt, Attempts: user.OTPAttempts}
		if err := verifyStoredOTP(db, &user, state, req.OTP, time.Now()); err != nil {
			apierror.Respond(c, "[OTP_PHONE_VERIFY]", err)
			return
		}

		// The OTP is single-use; the cart is created on first sign-in.
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&user).Updates(spentOTP()).Error; err != nil {
				return err
			}
			return tx.Where(models.Cart{UserID: user.ID}).FirstOrCreate(&models.Cart{}).Error
		})
		if err != nil {
			apierror.Respond(c, "[OTP_PHONE_VERIFY]", apierror.Internal("Failed to verify OTP", err))
			return
		}

		respondWithSession(c, sessions, user.ID, RoleUser)
	}
}

// POST /api/auth/otp/email/try
//
// Dashboard sign-in. Unknown emails are registered as pending admins and
// still receive a code; verification refuses them until approved.
func EmailOTPTry(db *gorm.DB, mailer notify.Mailer, superAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil || !emailPattern.MatchString(req.Email) {
			apierror.Respond(c, "[OTP_EMAIL_TRY]", apierror.Validation("Incorrect Email"))
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		otp, hash, err := newOTP()
		if err != nil {
			apierror.Respond(c, "[OTP_EMAIL_TRY]", apierror.Internal("Failed to generate OTP", err))
			return
		}

		now := time.Now()
		var admin models.Admin
		err = db.Where("email = ?", email).First(&admin).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			expires := now.Add(otpTTL)
			admin = models.Admin{Email: email, OTPHash: hash, OTPExpiresAt: &expires, Approved: email == superAdminEmail}
			if err = db.Create(&admin).Error; err == nil {
				log.Printf("📝 New admin registered: %s (approved=%t)", email, admin.Approved)
			}
		case err == nil:
			err = db.Model(&admin).Updates(issuedOTP(hash, now)).Error
		}
		if err != nil {
			apierror.Respond(c, "[OTP_EMAIL_TRY]", apierror.Internal("Failed to save OTP", err))
			return
		}

		subject, html := notify.OTPEmail(otp)
		if err := mailer.SendMail(c.Request.Context(), email, subject, html); err != nil {
			apierror.Respond(c, "[OTP_EMAIL_TRY]", apierror.Internal("Failed to send OTP email", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "email": email})
	}
}

// POST /api/auth/otp/email/verify
func EmailOTPVerify(db *gorm.DB, sessions *Sessions, superAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.OTP == "" {
			apierror.Respond(c, "[OTP_EMAIL_VERIFY]", apierror.Validation("email and OTP are required"))
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		var admin models.Admin
		if err := db.Where("email = ?", email).First(&admin).Error; err != nil {
			apierror.Respond(c, "[OTP_EMAIL_VERIFY]", ErrInvalidOTP)
			return
		}
		state := otpState{Hash: admin.OTPHash, ExpiresAt: admin.OTPExpiresAt, Attempts: admin.OTPAttempts}
		if err := verifyStoredOTP(db, &admin, state, req.OTP, time.Now()); err != nil {
			apierror.Respond(c, "[OTP_EMAIL_VERIFY]", err)
			return
		}
		if !admin.Approved && admin.Email != superAdminEmail {
			apierror.Respond(c, "[OTP_EMAIL_VERIFY]", apierror.Forbidden("Pending approval by super admin"))
			return
		}
		if err := db.Model(&admin).Updates(spentOTP()).Error; err != nil {
			apierror.Respond(c, "[OTP_EMAIL_VERIFY]", apierror.Internal("Failed to verify OTP", err))
			return
		}

		respondWithSession(c, sessions, admin.ID, RoleAdmin)
	}
}

// POST /api/auth/logout
func Logout(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessions.ClearCookies(c)
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}

func respondWithSession(c *gin.Context, sessions *Sessions, subject, role string) {
	token, err := sessions.Issue(subject, role)
	if err != nil {
		apierror.Respond(c, "[SESSION]", apierror.Internal("Token generation failed", err))
		return
	}
	sessions.SetCookies(c, token)
	c.JSON(http.StatusOK, gin.H{"status": "success", "token": token})
}

func newOTP() (otp, hash string, err error) {
	if otp, err = GenerateOTP(); err != nil {
		return "", "", err
	}
	if hash, err = HashOTP(otp); err != nil {
		return "", "", err
	}
	return otp, hash, nil
}
