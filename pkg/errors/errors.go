// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1002"
	CodeConflict           ErrorCode = "1003"
	CodeTooManyRequests    ErrorCode = "1004"
	CodeInternalError      ErrorCode = "1005"
	CodeServiceUnavailable ErrorCode = "1006"

	// 会话错误 (2xxx)
	CodeSessionNotFound    ErrorCode = "2001"
	CodeTurnNotFound       ErrorCode = "2002"
	CodeTurnNotEditable    ErrorCode = "2003"
	CodeEmptySubmission    ErrorCode = "2004"
	CodeGenerationInFlight ErrorCode = "2005"
	CodeInvalidMode        ErrorCode = "2006"
	CodeUploadTooLarge     ErrorCode = "2007"

	// 生成错误 (3xxx)
	CodeMalformedHandle    ErrorCode = "3001"
	CodeEmptyResponse      ErrorCode = "3002"
	CodeBackendError       ErrorCode = "3003"
	CodeNoInteriorProduced ErrorCode = "3004"
	CodeIncompleteRevision ErrorCode = "3005"
	CodeRevisionNotOpen    ErrorCode = "3006"

	// 外部服务错误 (5xxx)
	CodeCacheError ErrorCode = "5001"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeEmptySubmission, CodeInvalidMode, CodeMalformedHandle:
		return http.StatusBadRequest
	case CodeNotFound, CodeSessionNotFound, CodeTurnNotFound, CodeRevisionNotOpen:
		return http.StatusNotFound
	case CodeConflict, CodeGenerationInFlight:
		return http.StatusConflict
	case CodeTurnNotEditable, CodeNoInteriorProduced, CodeIncompleteRevision:
		return http.StatusUnprocessableEntity
	case CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeEmptyResponse, CodeBackendError:
		return http.StatusBadGateway
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrSessionNotFound     = New(CodeSessionNotFound, "design session not found")
	ErrTurnNotFound        = New(CodeTurnNotFound, "turn not found")
	ErrTurnNotEditable     = New(CodeTurnNotEditable, "only user turns can be edited")
	ErrEmptySubmission     = New(CodeEmptySubmission, "nothing to send")
	ErrGenerationInFlight  = New(CodeGenerationInFlight, "generation already in progress")
	ErrExplorationInFlight = New(CodeGenerationInFlight, "interior exploration already in progress")
	ErrRevisionInFlight    = New(CodeGenerationInFlight, "revision submission already in progress")
	ErrInvalidMode         = New(CodeInvalidMode, "unknown generation mode")
	ErrUploadTooLarge      = New(CodeUploadTooLarge, "uploaded image exceeds size limit")

	ErrMalformedHandle    = New(CodeMalformedHandle, "malformed image handle")
	ErrEmptyResponse      = New(CodeEmptyResponse, "backend returned no content")
	ErrBackendError       = New(CodeBackendError, "generation backend failure")
	ErrNoInteriorProduced = New(CodeNoInteriorProduced, "no interior view produced")
	ErrIncompleteRevision = New(CodeIncompleteRevision, "revision produced too few images")
	ErrRevisionNotOpen    = New(CodeRevisionNotOpen, "revision workspace not open")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
