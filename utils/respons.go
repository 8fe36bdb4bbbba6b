package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/quickserve/models"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// StatusFor maps the error kinds of the order core onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case models.IsInvalidTransition(err):
		return http.StatusConflict
	case models.IsPersistence(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError writes err with the status its kind maps to. Store
// failures are logged here because the client only sees a generic message.
func RespondServiceError(c *gin.Context, err error) {
	code := StatusFor(err)
	switch code {
	case http.StatusServiceUnavailable:
		ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.Header("Retry-After", "1")
		c.JSON(code, JSONResponse{Status: false, Message: "service temporarily unavailable, please retry"})
	case http.StatusInternalServerError:
		ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(code, JSONResponse{Status: false, Message: "internal server error"})
	default:
		RespondError(c, code, err)
	}
}
