package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
	apperrors "github.com/yanqian/lifesure-gateway/pkg/errors"
)

func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		if !authenticate(c, svc, header) {
			return
		}
		c.Next()
	}
}

// optionalAuthMiddleware attaches claims when a bearer token is present and
// lets anonymous requests through.
func optionalAuthMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		if !authenticate(c, svc, header) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, svc auth.Service, header string) bool {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "invalid authorization header", nil))
		return false
	}
	claims, err := svc.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
	if err != nil {
		status := http.StatusUnauthorized
		code := apperrors.CodeInvalidToken
		if !apperrors.IsCode(err, apperrors.CodeInvalidToken) {
			status = http.StatusInternalServerError
			code = "auth_failed"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return false
	}
	setClaims(c, claims)
	return true
}

func requireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := getClaims(c)
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeUnauthorized, "authentication required", nil))
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, NewHTTPError(http.StatusForbidden, apperrors.CodeForbidden, "insufficient role", nil))
	}
}
