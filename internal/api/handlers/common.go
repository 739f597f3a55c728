package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mockmate/backend/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

// writeError maps an AppError to its HTTP status and a safe body. Anything
// else becomes a generic 500.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		msg := ae.Message
		if msg == "" {
			msg = "internal error"
		}
		c.JSON(utils.HTTPStatus(err), apiError{Code: ae.Code, Message: msg})
		return
	}
	c.JSON(http.StatusInternalServerError, apiError{Code: utils.CodeInternal, Message: "internal error"})
}

func requireUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, apiError{Code: utils.CodeUnauthorized, Message: "authentication required"})
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, apiError{Code: utils.CodeUnauthorized, Message: "authentication required"})
		return "", false
	}
	return id, true
}

// optionalUserID returns the authenticated user id or "" for anonymous calls.
func optionalUserID(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
