package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lifesure-gateway/internal/domain/application"
	"github.com/yanqian/lifesure-gateway/internal/domain/auth"
)

type assignAgentBody struct {
	AgentID string `json:"agentId"`
}

// PrefillApplication builds a form draft from a cached quote.
func (h *Handler) PrefillApplication(c *gin.Context) {
	draft, err := h.appSvc.Prefill(c.Request.Context(), c.Param("quoteId"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, draft)
}

// SubmitApplication files a new application for the caller.
func (h *Handler) SubmitApplication(c *gin.Context) {
	userID, ok := mustClaimsUserID(c)
	if !ok {
		return
	}
	var req application.SubmitRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.appSvc.Submit(c.Request.Context(), userID, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, app)
}

// MyApplications lists the caller's applications.
func (h *Handler) MyApplications(c *gin.Context) {
	userID, ok := mustClaimsUserID(c)
	if !ok {
		return
	}
	h.respondList(c, func() ([]application.Application, error) {
		return h.appSvc.ListMine(c.Request.Context(), userID)
	})
}

// AgentApplications lists applications assigned to the calling agent.
// Admins see every application.
func (h *Handler) AgentApplications(c *gin.Context) {
	claims, _ := getClaims(c)
	h.respondList(c, func() ([]application.Application, error) {
		if claims.Role == auth.RoleAdmin {
			return h.appSvc.ListAll(c.Request.Context())
		}
		return h.appSvc.ListAssigned(c.Request.Context(), claims.UserID)
	})
}

// AllApplications lists every application.
func (h *Handler) AllApplications(c *gin.Context) {
	h.respondList(c, func() ([]application.Application, error) {
		return h.appSvc.ListAll(c.Request.Context())
	})
}

// ReviewApplication approves or rejects an application.
func (h *Handler) ReviewApplication(c *gin.Context) {
	claims, _ := getClaims(c)
	var body application.StatusUpdate
	if !bindJSON(c, &body) {
		return
	}
	actor := application.Actor{ID: claims.UserID, Admin: claims.Role == auth.RoleAdmin}
	app, err := h.appSvc.UpdateStatus(c.Request.Context(), actor, c.Param("id"), body)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, app)
}

// AssignAgent routes an application to an agent.
func (h *Handler) AssignAgent(c *gin.Context) {
	var body assignAgentBody
	if !bindJSON(c, &body) {
		return
	}
	app, err := h.appSvc.AssignAgent(c.Request.Context(), c.Param("id"), body.AgentID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) respondList(c *gin.Context, list func() ([]application.Application, error)) {
	apps, err := list()
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": apps, "counts": application.Tally(apps)})
}
