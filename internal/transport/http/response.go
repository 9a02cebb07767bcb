package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	platformerrors "kokorod/internal/platform/errors"
)

// APIResponse is the envelope for JSON admin endpoints. The audio
// endpoints return raw bytes and do not use it.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

func RespondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	if message == "" {
		message = "ok"
	}
	c.JSON(httpStatus, APIResponse{
		Success: true,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

func RespondError(c *gin.Context, httpStatus int, message string, data interface{}) {
	c.JSON(httpStatus, APIResponse{
		Success: false,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// RespondDomainError maps an error's kind to the surface status code.
func RespondDomainError(c *gin.Context, err error) {
	status := StatusForError(err)
	RespondError(c, status, err.Error(), gin.H{"kind": string(platformerrors.KindOf(err))})
}

// StatusForError is the kind-to-status mapping shared with the tests.
func StatusForError(err error) int {
	switch platformerrors.KindOf(err) {
	case platformerrors.KindBadInput,
		platformerrors.KindUnknownVoice,
		platformerrors.KindBadMixSyntax:
		return http.StatusBadRequest
	case platformerrors.KindResourceMissing,
		platformerrors.KindSessionNotFound:
		return http.StatusNotFound
	case platformerrors.KindBackpressure:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
