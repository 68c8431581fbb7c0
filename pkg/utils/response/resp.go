package response

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/storefront/pkg/customerrors"
)

// Success bodies are the resource itself, failures are a plain text message
// carried with the matching HTTP status.

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func statusOf(err error) (int, string) {
	if bizErr := customerrors.GetBusinessError(err); bizErr != nil {
		return bizErr.Code, strings.Replace(err.Error(), bizErr.Error(), bizErr.Message, 1)
	}
	return customerrors.ErrInternalServerError.Code, customerrors.ErrInternalServerError.Message
}

func Failed(c *gin.Context, err error) {
	code, message := statusOf(err)
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.String(code, message)
}

func Abort(c *gin.Context, reason any) {
	err, ok := reason.(error)
	if ok {
		code, message := statusOf(err)
		c.Abort()
		c.String(code, message)
	} else {
		slog.Error("an error occurred or panic recovered", "reason", reason)
		c.Abort()
		c.String(customerrors.ErrInternalServerError.Code, customerrors.ErrInternalServerError.Message)
	}
}
