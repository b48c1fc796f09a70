package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/services"
)

const claimsContextKey = "authClaims"

// EnsureValidToken validates the Bearer access token and stores its
// claims in the request context
func EnsureValidToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Authorization header with Bearer token is required")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		svc := services.NewAuthService(config.GetDB(), config.GetConfig())
		claims, err := svc.ValidateAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "Failed to validate token")
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// Must run after EnsureValidToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			abortUnauthorized(c, "Could not extract user information")
			return
		}
		if claims.TipUsuCod != models.TipUsuCodAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admin role required",
				},
			})
			return
		}
		c.Next()
	}
}

// GetClaims returns the token claims stored by EnsureValidToken
func GetClaims(c *gin.Context) (*services.AuthClaims, error) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, errors.New("no claims found in request context")
	}
	claims, ok := value.(*services.AuthClaims)
	if !ok {
		return nil, errors.New("claims have unexpected type")
	}
	return claims, nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_TOKEN",
			"message": message,
		},
	})
}
