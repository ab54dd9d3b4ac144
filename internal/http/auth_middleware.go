package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mediatube/internal/service"
)

const authClaimsKey = "auth_claims"

// AuthMiddleware valida el access token desde el header Authorization o la
// cookie accessToken y deja los claims en el contexto.
func AuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			if cookie, err := c.Cookie(accessTokenCookie); err == nil {
				tokenString = strings.TrimSpace(cookie)
			}
		}
		if tokenString == "" {
			respondError(c, http.StatusUnauthorized, service.ErrMissingToken.Error())
			c.Abort()
			return
		}

		claims, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			respondError(c, http.StatusUnauthorized, service.ErrInvalidToken.Error())
			c.Abort()
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// GetAuthClaims obtiene los claims autenticados desde el contexto.
func GetAuthClaims(c *gin.Context) (service.AccessClaims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.AccessClaims{}, false
	}
	claims, ok := val.(service.AccessClaims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}
