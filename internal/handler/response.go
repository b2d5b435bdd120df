package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/healthvault/ops-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// ListPayload is the envelope for paginated listings.
type ListPayload struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// Error writes err as JSON. Typed app errors carry their own status;
// anything foreign is a 500 with the detail kept out of the body.
func Error(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, NewErrorResponse("internal error"))
}
