package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	xerrors "linecrm-service/internal/pkg/errors"
)

// Response defines the standard API response format.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	c.JSON(code, resp)
}

// FieldErrors sends a 400 with a field→error map from validation.
func FieldErrors(c *gin.Context, message string, fields map[string]string) {
	c.Abort()
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: message,
		Fields:  fields,
	})
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// FromError maps a service error onto the matching HTTP status using the
// sentinel errors, falling back to 500.
func FromError(c *gin.Context, message string, err error) {
	switch {
	case xerrors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, message, err)
	case xerrors.Is(err, xerrors.ErrBadRequest), xerrors.Is(err, xerrors.ErrInvalidInput):
		Error(c, http.StatusBadRequest, message, err)
	case xerrors.Is(err, xerrors.ErrConflict), xerrors.Is(err, xerrors.ErrDuplicateOrder):
		Error(c, http.StatusConflict, message, err)
	default:
		Error(c, http.StatusInternalServerError, message, err)
	}
}
