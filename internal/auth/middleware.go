package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserAuth enforces bearer JWT tokens signed with HS256.
func UserAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := FromRequest(c.GetHeader("Authorization"), signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// AdminOnly rejects requests whose token does not carry the admin role.
// Runs after UserAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom extracts the parsed claims set by UserAuth.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

// FromRequest parses a bearer Authorization header value. Shared with the
// websocket subscribe endpoint, which also accepts the token as a query
// parameter.
func FromRequest(authz, signingKey, issuer string) (Claims, error) {
	if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return Claims{}, errMissingToken
	}
	tokenStr := strings.TrimSpace(authz[len("bearer "):])
	claims, err := Parse(tokenStr, signingKey, issuer)
	if err != nil {
		return Claims{}, errInvalidToken
	}
	return claims, nil
}

var (
	errMissingToken = &authError{"missing bearer token"}
	errInvalidToken = &authError{"invalid token"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }
