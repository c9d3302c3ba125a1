package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/auth"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextClaims   = "authClaims"
)

func AuthMiddleware(authn *auth.Authenticate) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Send the session token as 'Authorization: Bearer <token>'.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			httperr.Unauthorized(c, "invalid_authorization_header", "The Authorization header must use the Bearer scheme.")
			c.Abort()
			return
		}

		claims, err := authn.Execute(c.Request.Context(), parts[1])
		if err != nil {
			httperr.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, string(claims.Role))
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

// ActorFrom devolve o ator autenticado; vazio fora de rotas protegidas.
func ActorFrom(c *gin.Context) authz.Actor {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return authz.Actor{}
	}
	return claims.Actor()
}

func ClaimsFrom(c *gin.Context) (auth.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}
