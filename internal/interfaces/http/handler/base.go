package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	syncapp "github.com/feedsync/backend/internal/application/sync"
	"github.com/feedsync/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// Credential override headers accepted on sync, stats and info endpoints.
const (
	HeaderStoreURL   = "X-Shopify-Store-Url"
	HeaderAdminToken = "X-Shopify-Admin-Token"
	HeaderFeedURL    = "X-XML-Feed-Url"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// headerCredentials reads the per-request credential override headers.
func headerCredentials(c *gin.Context) syncapp.HeaderCredentials {
	return syncapp.HeaderCredentials{
		StoreURL:   c.GetHeader(HeaderStoreURL),
		AdminToken: c.GetHeader(HeaderAdminToken),
		FeedURL:    c.GetHeader(HeaderFeedURL),
	}
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// InvalidJSON sends the response for an unparseable request body
func (h *BaseHandler) InvalidJSON(c *gin.Context, message string) {
	h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}
