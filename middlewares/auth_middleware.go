package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

// PrincipalKey holds the services.Principal of the caller.
const PrincipalKey = "principal"

// AuthMiddleware turns a bearer token into a principal. Without a token the
// request continues anonymously unless required is set; a bad token is always 401.
func AuthMiddleware(tokens *utils.TokenIssuer, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
				c.Abort()
				return
			}
			c.Set(PrincipalKey, services.Principal{})
			c.Next()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		claims, err := tokens.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil || claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(PrincipalKey, services.Principal{UserID: claims.UserID, IsStaff: claims.IsStaff})
		c.Next()
	}
}
