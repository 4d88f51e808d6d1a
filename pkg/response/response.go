package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/flaskr/pkg/errors"
)

// Response is the JSON envelope for the non-HTML endpoints.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo is the client visible part of an AppError.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Success: true, Data: data})
}

// Failure reports an unsuccessful outcome that still carries data, such as
// a health report with a component down.
func Failure(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{Success: false, Data: data})
}

// Error writes err as an error envelope. The wrapped internal error is
// attached to the gin context so the access log records it.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}
	appErr := appErrors.FromError(err)
	if appErr.Internal != nil {
		_ = c.Error(appErr.Internal)
	}

	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: appErr.Code, Message: appErr.Message},
	})
}

// Abort is Error followed by stopping the handler chain.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
