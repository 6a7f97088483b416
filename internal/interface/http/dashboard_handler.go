package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Dashboard returns the caller's role specific summary.
func (h *Handler) Dashboard(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return
	}
	summary, err := h.dashboardSvc.Summary(c.Request.Context(), claims)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, summary)
}
