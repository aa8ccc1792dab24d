// Package response implements the boundary envelope: success is the sole
// error signal, payload fields are merged alongside it.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperr "github.com/pfcmatch/backend/internal/errors"
)

// OK writes {"success": true} merged with the given payload fields.
func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail writes {"success": false, "error": msg} with the given status.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// Error maps a domain error to its status and message and writes the
// failure envelope.
func Error(c *gin.Context, err error) {
	Fail(c, apperr.HTTPStatus(err), apperr.Message(err))
}

// AbortError is Error plus request abortion, for middleware.
func AbortError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{
		"success": false,
		"error":   apperr.Message(err),
	})
}
