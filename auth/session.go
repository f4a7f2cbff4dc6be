package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	TokenCookie    = "token"
	LoggedInCookie = "logged-in"
)

// Identity is the authenticated caller attached to every protected request.
type Identity struct {
	UserID string
	Role   string
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies signed session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessions(secret []byte, ttl time.Duration, secureCookies bool) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, secure: secureCookies}
}

func (s *Sessions) Issue(subject, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Sessions) Verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return Identity{}, errors.New("invalid token claims")
	}
	return Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

// SetCookies writes the http-only session cookie and the client-readable
// logged-in flag.
func (s *Sessions) SetCookies(c *gin.Context, token string) {
	maxAge := int(s.ttl.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, maxAge, "/", "", s.secure, true)
	c.SetCookie(LoggedInCookie, "true", maxAge, "/", "", s.secure, false)
}

func (s *Sessions) ClearCookies(c *gin.Context) {
	c.SetCookie(TokenCookie, "", -1, "/", "", s.secure, true)
	c.SetCookie(LoggedInCookie, "", -1, "/", "", s.secure, false)
}
