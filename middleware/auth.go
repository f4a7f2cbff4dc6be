package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/auth"
)

const identityKey = "identity"

// UserIDHeader is honoured only when an upstream gateway has already
// verified the caller.
const UserIDHeader = "X-USER-ID"

// Authenticate resolves the caller from a verified session token (Bearer
// header or cookie) and stores the Identity on the context. Requests
// without a valid identity stop with 401.
func Authenticate(sessions *auth.Sessions, trustUserIDHeader bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			identity, err := sessions.Verify(token)
			if err != nil {
				apierror.Respond(c, "[AUTH]", apierror.Unauthorized("Invalid or expired token"))
				return
			}
			c.Set(identityKey, identity)
			c.Next()
			return
		}

		if trustUserIDHeader {
			if userID := c.GetHeader(UserIDHeader); userID != "" {
				c.Set(identityKey, auth.Identity{UserID: userID, Role: auth.RoleUser})
				c.Next()
				return
			}
		}

		apierror.Respond(c, "[AUTH]", apierror.Unauthorized("Unauthorized"))
	}
}

// RequireRole rejects authenticated callers that lack role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			apierror.Respond(c, "[AUTH]", apierror.Unauthorized("Unauthorized"))
			return
		}
		if identity.Role != role {
			apierror.Respond(c, "[AUTH]", apierror.Forbidden("Forbidden"))
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok && identity.UserID != ""
}

// SetIdentity is used by tests that bypass token verification.
func SetIdentity(c *gin.Context, identity auth.Identity) {
	c.Set(identityKey, identity)
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return strings.TrimSpace(header)
	}
	if cookie, err := c.Cookie(auth.TokenCookie); err == nil {
		return cookie
	}
	return ""
}
