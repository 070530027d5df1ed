package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/services"
	"github.com/yeremiapane/gastro-api/utils"
)

// RoleContextKey holds the resolved services.RoleContext.
const RoleContextKey = "role_context"

// RoleContextMiddleware resolves the principal set by AuthMiddleware once per request.
func RoleContextMiddleware(resolver *services.RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p services.Principal
		if v, ok := c.Get(PrincipalKey); ok {
			p, _ = v.(services.Principal)
		}

		rc, err := resolver.Resolve(c.Request.Context(), p)
		if err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{"user_id": p.UserID}).Errorf("resolve role: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
			c.Abort()
			return
		}

		c.Set(RoleContextKey, rc)
		c.Next()
	}
}

// CurrentRoleContext returns the caller's role context, or the anonymous one.
func CurrentRoleContext(c *gin.Context) services.RoleContext {
	if v, ok := c.Get(RoleContextKey); ok {
		if rc, ok := v.(services.RoleContext); ok {
			return rc
		}
	}
	return services.RoleContext{}
}
