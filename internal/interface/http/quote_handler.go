package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
)

type calculateQuoteBody struct {
	PolicyID string `json:"policyId"`
	quote.QuoteRequest
}

// QuoteOptions returns the fixed choices for the quote form.
func (h *Handler) QuoteOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.quoteSvc.Options())
}

// CalculateQuote prices a quote against a policy and caches it.
func (h *Handler) CalculateQuote(c *gin.Context) {
	var body calculateQuoteBody
	if !bindJSON(c, &body) {
		return
	}
	req := quote.CalculateRequest{PolicyID: body.PolicyID, Request: body.QuoteRequest}
	if claims, ok := getClaims(c); ok {
		req.UserID = claims.UserID
	}

	q, err := h.quoteSvc.Calculate(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, q)
}

// GetQuote returns a cached quote.
func (h *Handler) GetQuote(c *gin.Context) {
	q, err := h.quoteSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, q)
}

// DiscardQuote drops a cached quote.
func (h *Handler) DiscardQuote(c *gin.Context) {
	if err := h.quoteSvc.Discard(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}
