package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const superAdmin = "owner@example.com"

var mailedOTP = regexp.MustCompile(`<strong>(\d{6})</strong>`)

func newAuthRouter(db *gorm.DB, recorder *notify.Recorder, sessions *Sessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/otp/phone/try", PhoneOTPTry(db, recorder, "+91"))
	r.POST("/otp/phone/verify", PhoneOTPVerify(db, sessions, "+91"))
	r.POST("/otp/email/try", EmailOTPTry(db, recorder, superAdmin))
	r.POST("/otp/email/verify", EmailOTPVerify(db, sessions, superAdmin))
	r.POST("/logout", Logout(sessions))
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFrom(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestPhoneOTPFlow(t *testing.T) {
	db := testutil.NewDB(t)
	recorder := &notify.Recorder{}
	sessions := NewSessions([]byte("secret"), time.Hour, false)
	r := newAuthRouter(db, recorder, sessions)

	w := postJSON(r, "/otp/phone/try", gin.H{"phone": "12345"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid Phone Number"}`, w.Body.String())

	w = postJSON(r, "/otp/phone/try", gin.H{"phone": "+919876543210"})
	require.Equal(t, http.StatusOK, w.Code)

	sent := recorder.SMS()
	require.Len(t, sent, 1)
	assert.Equal(t, "+919876543210", sent[0].To)
	otp := sent[0].Body[len(sent[0].Body)-otpDigits:]

	var user models.User
	require.NoError(t, db.Where("phone = ?", "9876543210").First(&user).Error)
	assert.NotEmpty(t, user.OTPHash)

	w = postJSON(r, "/otp/phone/verify", gin.H{"phone": "9876543210", "OTP": "000000x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/otp/phone/verify", gin.H{"phone": "9876543210", "OTP": otp})
	require.Equal(t, http.StatusOK, w.Code)
	identity, err := sessions.Verify(tokenFrom(t, w))
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: user.ID, Role: RoleUser}, identity)
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), ";"), TokenCookie+"=")

	var carts int64
	db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&carts)
	assert.EqualValues(t, 1, carts)

	// single use
	w = postJSON(r, "/otp/phone/verify", gin.H{"phone": "9876543210", "OTP": otp})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhoneOTPTryReusesExistingUser(t *testing.T) {
	db := testutil.NewDB(t)
	recorder := &notify.Recorder{}
	r := newAuthRouter(db, recorder, NewSessions([]byte("secret"), time.Hour, false))

	require.Equal(t, http.StatusOK, postJSON(r, "/otp/phone/try", gin.H{"phone": "9876543210"}).Code)
	require.Equal(t, http.StatusOK, postJSON(r, "/otp/phone/try", gin.H{"phone": "+919876543210"}).Code)

	var users int64
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 1, users)
	assert.Len(t, recorder.SMS(), 2)
}

func TestEmailOTPRequiresApproval(t *testing.T) {
	db := testutil.NewDB(t)
	recorder := &notify.Recorder{}
	sessions := NewSessions([]byte("secret"), time.Hour, false)
	r := newAuthRouter(db, recorder, sessions)

	lastOTP := func() string {
		mails := recorder.Mails()
		require.NotEmpty(t, mails)
		m := mailedOTP.FindStringSubmatch(mails[len(mails)-1].Body)
		require.Len(t, m, 2)
		return m[1]
	}

	assert.Equal(t, http.StatusBadRequest, postJSON(r, "/otp/email/try", gin.H{"email": "not-an-email"}).Code)

	// The super admin is approved on first sign-in.
	require.Equal(t, http.StatusOK, postJSON(r, "/otp/email/try", gin.H{"email": "Owner@Example.com"}).Code)
	w := postJSON(r, "/otp/email/verify", gin.H{"email": superAdmin, "OTP": lastOTP()})
	require.Equal(t, http.StatusOK, w.Code)
	identity, err := sessions.Verify(tokenFrom(t, w))
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, identity.Role)

	// Anyone else waits for approval.
	require.Equal(t, http.StatusOK, postJSON(r, "/otp/email/try", gin.H{"email": "staff@example.com"}).Code)
	w = postJSON(r, "/otp/email/verify", gin.H{"email": "staff@example.com", "OTP": lastOTP()})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Pending approval by super admin"}`, w.Body.String())

	require.NoError(t, db.Model(&models.Admin{}).Where("email = ?", "staff@example.com").Update("approved", true).Error)
	require.Equal(t, http.StatusOK, postJSON(r, "/otp/email/try", gin.H{"email": "staff@example.com"}).Code)
	w = postJSON(r, "/otp/email/verify", gin.H{"email": "staff@example.com", "OTP": lastOTP()})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	db := testutil.NewDB(t)
	r := newAuthRouter(db, &notify.Recorder{}, NewSessions([]byte("secret"), time.Hour, false))

	w := postJSON(r, "/logout", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), ";"), "Max-Age=0")
}

func TestPhoneOTPLocksAfterTooManyWrongGuesses(t *testing.T) {
	db := testutil.NewDB(t)
	recorder := &notify.Recorder{}
	r := newAuthRouter(db, recorder, NewSessions([]byte("secret"), time.Hour, false))

	require.Equal(t, http.StatusOK, postJSON(r, "/otp/phone/try", gin.H{"phone": "9876543210"}).Code)
	body := recorder.SMS()[0].Body
	otp := body[len(body)-otpDigits:]

	for i := 0; i < maxOTPAttempts; i++ {
		w := postJSON(r, "/otp/phone/verify", gin.H{"phone": "9876543210", "OTP": "wrong"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := postJSON(r, "/otp/phone/verify", gin.H{"phone": "9876543210", "OTP": otp})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A fresh code resets the counter.
	require.Equal(t, http.StatusOK, postJSON(r, "/otp/phone/try", gin.H{"phone": "9876543210"}).Code)
	body = recorder.SMS()[1].Body
	w = postJSON(r, "/otp/phone/verify", gin.H{"phone": "9876543210", "OTP": body[len(body)-otpDigits:]})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExpiredOTPIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	recorder := &notify.Recorder{}
	r := newAuthRouter(db, recorder, NewSessions([]byte("secret"), time.Hour, false))

	require.Equal(t, http.StatusOK, postJSON(r, "/otp/email/try", gin.H{"email": superAdmin}).Code)
	m := mailedOTP.FindStringSubmatch(recorder.Mails()[0].Body)
	require.Len(t, m, 2)

	require.NoError(t, db.Model(&models.Admin{}).Where("email = ?", superAdmin).
		Update("otp_expires_at", time.Now().Add(-time.Minute)).Error)

	w := postJSON(r, "/otp/email/verify", gin.H{"email": superAdmin, "OTP": m[1]})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"OTP expired, request a new one"}`, w.Body.String())
}
