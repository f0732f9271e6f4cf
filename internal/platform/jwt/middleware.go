package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fiction_backend/internal/platform/http/apierror"
)

// ContextUserID is the gin context key holding the authenticated Identity.
const ContextUserID = "userID"

// MsgInvalidCredentials is the message of every 401 written by AuthRequired.
const MsgInvalidCredentials = "Invalid authentication credentials"

// AuthRequired returns a Gin middleware function that validates bearer tokens
// and restricts access to authenticated users only.
func AuthRequired(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}

		identity, err := v.VerifyToken(tokenStr)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(ContextUserID, identity)
		c.Next()
	}
}

// IdentityFrom returns the Identity stored by AuthRequired.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}

// bearerToken extracts the credentials of a "Bearer" authorization header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	apierror.Abort(c, http.StatusUnauthorized, MsgInvalidCredentials)
}
