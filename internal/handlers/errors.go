package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/draws-backend/internal/engine"
	"github.com/ArowuTest/draws-backend/internal/repositories"
	"github.com/ArowuTest/draws-backend/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// Error codes outside the engine kinds
const (
	codeInvalidRequest = "invalid_request"
	codeNotFound       = "not_found"
	codeUnauthorized   = "unauthorized"
	codeInternal       = "internal_error"
)

// ErrorItem is one entry of an error response
type ErrorItem struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Minimum int    `json:"minimum,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	General []ErrorItem `json:"general"`
}

func abortWith(c *gin.Context, status int, item ErrorItem) {
	c.AbortWithStatusJSON(status, ErrorResponse{General: []ErrorItem{item}})
}

func badRequest(c *gin.Context, message string) {
	abortWith(c, http.StatusBadRequest, ErrorItem{Message: message, Code: codeInvalidRequest})
}

// respondError maps service errors onto HTTP responses. Validation failures
// are 400 except upstream outages, which are 503; missing entities are 404.
func respondError(c *gin.Context, err error) {
	var engineErr *engine.Error
	switch {
	case errors.As(err, &engineErr):
		status := http.StatusBadRequest
		if engineErr.Kind == engine.KindUpstreamUnavailable {
			status = http.StatusServiceUnavailable
		}
		abortWith(c, status, ErrorItem{
			Message: engineErr.Message,
			Code:    string(engineErr.Kind),
			Field:   engineErr.Field,
			Minimum: engineErr.Minimum,
		})
	case errors.Is(err, repositories.ErrNotFound):
		abortWith(c, http.StatusNotFound, ErrorItem{Message: "Not found", Code: codeNotFound})
	case errors.Is(err, services.ErrInvalidCredentials):
		abortWith(c, http.StatusUnauthorized, ErrorItem{Message: "Invalid credentials", Code: codeUnauthorized})
	default:
		slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		_ = c.Error(err)
		abortWith(c, http.StatusInternalServerError, ErrorItem{Message: "Internal server error", Code: codeInternal})
	}
}
