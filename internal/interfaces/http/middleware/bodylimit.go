package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parcelco/backoffice/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared length exceeds maxBytes and caps
// reads of chunked bodies at the same size. Websocket upgrades are skipped.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortBodyTooLarge(c)
			return
		}
		if c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from reading past the body limit
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func abortBodyTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
		dto.ErrCodeBodyTooLarge,
		"Request body exceeds maximum allowed size",
		GetRequestID(c),
	))
}
