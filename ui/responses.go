package ui

import (
	apperrors "heartrisk/internal/errors"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope of every /api/v1 response.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// fail maps err to its HTTP status and error code.
func fail(c *gin.Context, err error, message string) {
	failWith(c, apperrors.HTTPStatus(err), apperrors.GetCode(err), err, message)
}

func failWith(c *gin.Context, statusCode int, code string, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
		Code:    code,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}
