package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	"github.com/yanqian/lifesure-gateway/internal/domain/dashboard"
	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
)

// MediaSource serves images held by the gateway itself.
type MediaSource interface {
	Open(key string) ([]byte, string, bool)
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	quoteSvc     quote.Service
	policySvc    policy.Service
	appSvc       application.Service
	dashboardSvc dashboard.Service
	media        MediaSource
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler. Images are served from the
// gateway only when the image storage keeps them locally.
func NewHandler(
	quoteSvc quote.Service,
	policySvc policy.Service,
	appSvc application.Service,
	dashboardSvc dashboard.Service,
	images policy.ImageStorage,
	logger *slog.Logger,
) *Handler {
	media, _ := images.(MediaSource)
	return &Handler{
		quoteSvc:     quoteSvc,
		policySvc:    policySvc,
		appSvc:       appSvc,
		dashboardSvc: dashboardSvc,
		media:        media,
		logger:       logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Media streams a locally stored policy image.
func (h *Handler) Media(c *gin.Context) {
	data, contentType, ok := h.media.Open(c.Param("key"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "image not found", nil))
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, contentType, data)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}

func mustClaimsUserID(c *gin.Context) (string, bool) {
	claims, ok := getClaims(c)
	if !ok || claims.UserID == "" {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return "", false
	}
	return claims.UserID, true
}
