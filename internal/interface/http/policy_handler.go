package http

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lifesure-gateway/internal/domain/policy"
)

// ListPolicies returns one page of the catalog.
func (h *Handler) ListPolicies(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	out, err := h.policySvc.List(c.Request.Context(), policy.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

// PolicyCategories lists the distinct categories.
func (h *Handler) PolicyCategories(c *gin.Context) {
	cats, err := h.policySvc.Categories(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

// GetPolicy returns a single policy.
func (h *Handler) GetPolicy(c *gin.Context) {
	p, err := h.policySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePolicy adds a policy to the catalog.
func (h *Handler) CreatePolicy(c *gin.Context) {
	var in policy.Input
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.policySvc.Create(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdatePolicy replaces the editable fields of a policy.
func (h *Handler) UpdatePolicy(c *gin.Context) {
	var in policy.Input
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.policySvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePolicy removes a policy.
func (h *Handler) DeletePolicy(c *gin.Context) {
	if err := h.policySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPolicyImage accepts a multipart "image" field.
func (h *Handler) UploadPolicyImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "image file is required", err))
		return
	}
	if fileHeader.Size > policy.MaxImageBytes {
		abortWithError(c, NewHTTPError(http.StatusRequestEntityTooLarge, "invalid_request", "image is too large", nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "unable to open image", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, policy.MaxImageBytes+1))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "unable to read image", err))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(data)
	}

	p, err := h.policySvc.UploadImage(c.Request.Context(), c.Param("id"), policy.Image{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", key+" must be an integer", err))
		return 0, false
	}
	return v, true
}
