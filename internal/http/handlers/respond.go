package handlers

import (
	"net/http"

	"github.com/geocoder89/worklog/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// APIError is the error body. Error is the human-readable message clients
// display; Code is stable for programmatic checks.
type APIError struct {
	Error     string      `json:"error"`
	Code      string      `json:"code"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	if id := ctx.GetString(middlewares.CtxRequestID); id != "" {
		return id
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.AbortWithStatusJSON(status, APIError{
		Error:     message,
		Code:      code,
		RequestID: requestIDFrom(ctx),
		Details:   details,
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondMethodNotAllowed(ctx *gin.Context) {
	RespondError(ctx, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil)
}

// RespondInternal logs err against the request and sends a generic message.
func RespondInternal(ctx *gin.Context, err error) {
	if err != nil {
		_ = ctx.Error(err)
	}
	RespondError(ctx, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
}

func RespondSuccess(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
