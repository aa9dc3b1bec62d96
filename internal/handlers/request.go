package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// bindOptionalJSON decodes the request body into obj when there is one.
// Chunked requests report an unknown length, so only an empty body counts
// as absent. It answers 400 and returns false when the body is malformed.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		badRequest(c, err.Error())
		return false
	}
	return true
}
