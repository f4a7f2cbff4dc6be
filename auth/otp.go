package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/junaidrashid-git/storefront-api/apierror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpDigits = 6
	// otpTTL is how long a sent code stays valid.
	otpTTL = 10 * time.Minute
	// maxOTPAttempts wrong guesses burn the code.
	maxOTPAttempts = 5
)

var (
	ErrInvalidOTP  = apierror.Validation("Invalid OTP")
	ErrExpiredOTP  = apierror.Validation("OTP expired, request a new one")
	ErrOTPAttempts = apierror.New(http.StatusTooManyRequests, "Too many attempts, request a new OTP")
)

// GenerateOTP returns a random numeric code.
func GenerateOTP() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

func HashOTP(otp string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckOTP(hash, otp string) bool {
	if hash == "" || otp == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(otp)) == nil
}

// otpState is the stored code of a user or admin row.
type otpState struct {
	Hash      string
	ExpiresAt *time.Time
	Attempts  int
}

// issuedOTP holds the columns written when a new code is sent.
func issuedOTP(hash string, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"otp_hash":       hash,
		"otp_expires_at": now.Add(otpTTL),
		"otp_attempts":   0,
	}
}

// spentOTP clears the code after a successful sign-in.
func spentOTP() map[string]interface{} {
	return map[string]interface{}{
		"otp_hash":       "",
		"otp_expires_at": nil,
		"otp_attempts":   0,
	}
}

// verifyStoredOTP checks otp against state. A wrong guess is counted on
// model, which must carry its primary key.
func verifyStoredOTP(db *gorm.DB, model interface{}, state otpState, otp string, now time.Time) error {
	switch {
	case state.Hash == "":
		return ErrInvalidOTP
	case state.Attempts >= maxOTPAttempts:
		return ErrOTPAttempts
	case state.ExpiresAt == nil || now.After(*state.ExpiresAt):
		return ErrExpiredOTP
	}
	if CheckOTP(state.Hash, otp) {
		return nil
	}
	if err := db.Model(model).UpdateColumn("otp_attempts", gorm.Expr("otp_attempts + 1")).Error; err != nil {
		return apierror.Internal("Failed to record OTP attempt", err)
	}
	return ErrInvalidOTP
}
