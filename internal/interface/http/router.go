package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
	"github.com/yanqian/lifesure-gateway/internal/infra/config"
	"github.com/yanqian/lifesure-gateway/internal/infra/imagestore"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/healthz", handler.Health)
	if handler.media != nil {
		router.GET(imagestore.MediaPrefix+"*key", handler.Media)
	}

	requireAuth := authMiddleware(authSvc)
	admin := requireRole(auth.RoleAdmin)
	reviewer := requireRole(auth.RoleAgent, auth.RoleAdmin)

	api := router.Group("/api/v1")
	{
		quotes := api.Group("/quotes")
		quotes.GET("/options", handler.QuoteOptions)
		quotes.POST("", optionalAuthMiddleware(authSvc), handler.CalculateQuote)
		quotes.GET("/:id", handler.GetQuote)
		quotes.DELETE("/:id", handler.DiscardQuote)

		policies := api.Group("/policies")
		policies.GET("", handler.ListPolicies)
		policies.GET("/categories", handler.PolicyCategories)
		policies.GET("/:id", handler.GetPolicy)

		apps := api.Group("/applications", requireAuth)
		apps.GET("/prefill/:quoteId", handler.PrefillApplication)
		apps.POST("", handler.SubmitApplication)
		apps.GET("/mine", handler.MyApplications)

		agent := api.Group("/agent", requireAuth, reviewer)
		agent.GET("/applications", handler.AgentApplications)
		agent.PATCH("/applications/:id/status", handler.ReviewApplication)

		adminGroup := api.Group("/admin", requireAuth, admin)
		adminGroup.POST("/policies", handler.CreatePolicy)
		adminGroup.PUT("/policies/:id", handler.UpdatePolicy)
		adminGroup.DELETE("/policies/:id", handler.DeletePolicy)
		adminGroup.PUT("/policies/:id/image", handler.UploadPolicyImage)
		adminGroup.GET("/applications", handler.AllApplications)
		adminGroup.PATCH("/applications/:id/agent", handler.AssignAgent)

		api.GET("/dashboard", requireAuth, handler.Dashboard)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
