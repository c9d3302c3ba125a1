package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/logging"
)

type HTTPError struct {
	Code    string              `json:"error_code"`
	Message string              `json:"message"`
	Details map[string]any      `json:"details,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// FromError escreve erros de negócio com o status do seu tipo.
// Qualquer outro erro vira 500 e é logado.
func FromError(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		c.JSON(be.Status(), HTTPError{
			Code:    be.Code,
			Message: be.Message,
			Details: be.Details,
			Errors:  be.Fields,
		})
		return
	}

	logging.FromContext(c.Request.Context()).Error(
		"unexpected error",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"error", err,
	)
	Internal(c, "internal_error", "Something went wrong, please try again.")
}
