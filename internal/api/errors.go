package api

import (
	"barefoot/internal/apperr"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeConflict           = "ERR_CONFLICT"
	ErrCodeInvalidToken       = "ERR_INVALID_TOKEN"
	ErrCodeMissingToken       = "ERR_MISSING_TOKEN"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.AbortWithStatusJSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// statusFor 将错误类别映射为 HTTP 状态码与错误码
func statusFor(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.KindBadRequest:
		return http.StatusBadRequest, ErrCodeInvalidRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound, ErrCodeNotFound
	case apperr.KindConflict:
		return http.StatusConflict, ErrCodeConflict
	case apperr.KindInvalidToken:
		return http.StatusUnauthorized, ErrCodeInvalidToken
	case apperr.KindMissingToken:
		return http.StatusUnauthorized, ErrCodeMissingToken
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// respondError translates err into a localised error response. Causes of
// internal failures are logged and never returned.
func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(err)
	}
	status, code := statusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
	}
	ErrorResponse(c, status, code, h.translate(c, appErr.Key, appErr.Args...))
}

// invalidPayload 无效的请求体
func (h *HTTPHandler) invalidPayload(c *gin.Context, err error) {
	details := gin.H{}
	if err != nil {
		details["reason"] = err.Error()
	}
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeInvalidRequest, h.translate(c, apperr.MsgInvalidPayload), details)
}

// errMissingGuardEntity means a route was registered without the policy its handler relies on.
var errMissingGuardEntity = errors.New("guarded entity missing from request")
