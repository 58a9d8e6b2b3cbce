// Package httpx maps domain errors to HTTP responses.
package httpx

import (
	"errors"
	"net/http"

	"prompt_architect/pkg/core/auth"
	"prompt_architect/pkg/core/section"
	"prompt_architect/pkg/core/store"
	"prompt_architect/pkg/core/workbench"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest    = "bad_request"
	CodeUnknownField  = "unknown_field"
	CodeInvalidValue  = "invalid_value"
	CodeNotAssistable = "not_assistable"
	CodeBusy          = "busy"
	CodeEmptyPrompt   = "empty_prompt"
	CodeTokenMissing  = "token_missing"
	CodeTokenInvalid  = "token_invalid"
	CodeTokenExpired  = "token_expired"
	CodeNotAuthorized = "not_authorized"
	CodeForbidden     = "forbidden"
	CodeCPFRequired   = "cpf_required"
	CodeNotFound      = "not_found"
	CodeConflict      = "conflict"
	CodeInternal      = "internal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError aborts the request with the status and body matching err.
func WriteError(c *gin.Context, err error) {
	status, resp := classify(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("Unhandled internal error", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// BadRequest aborts with 400 and msg.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: msg})
}

func classify(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, section.ErrUnknownField):
		return http.StatusNotFound, ErrorResponse{Code: CodeUnknownField, Message: err.Error()}
	case errors.Is(err, section.ErrInvalidValue):
		return http.StatusUnprocessableEntity, ErrorResponse{Code: CodeInvalidValue, Message: err.Error()}
	case errors.Is(err, workbench.ErrNotAssistable):
		return http.StatusBadRequest, ErrorResponse{Code: CodeNotAssistable, Message: err.Error()}
	case errors.Is(err, workbench.ErrBusy):
		return http.StatusConflict, ErrorResponse{Code: CodeBusy, Message: "Another request of this kind is still running"}
	case errors.Is(err, workbench.ErrEmptyPrompt):
		return http.StatusConflict, ErrorResponse{Code: CodeEmptyPrompt, Message: "Fill in at least one section before testing"}
	case errors.Is(err, auth.ErrTokenMissing):
		return http.StatusUnauthorized, ErrorResponse{Code: CodeTokenMissing, Message: "Authorization token missing"}
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{Code: CodeTokenExpired, Message: "Token has expired"}
	case errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized, ErrorResponse{Code: CodeTokenInvalid, Message: "Token is invalid or malformed"}
	case errors.Is(err, auth.ErrCPFRequired):
		return http.StatusBadRequest, ErrorResponse{Code: CodeCPFRequired, Message: "Please enter your CPF to sign up."}
	case errors.Is(err, auth.ErrNotAuthorized):
		return http.StatusForbidden, ErrorResponse{Code: CodeNotAuthorized, Message: "This account is not authorized. Please contact the administrator."}
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Code: CodeForbidden, Message: "Administrator access required"}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, store.ErrAlreadyAuthorized):
		return http.StatusConflict, ErrorResponse{Code: CodeConflict, Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: CodeInternal, Message: "An unexpected internal error occurred"}
	}
}
