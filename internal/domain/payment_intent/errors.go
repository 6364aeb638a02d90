package payment_intent

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrProcessorUnavailable 決済プロセッサに到達できない、またはタイムアウトしたエラー
	ErrProcessorUnavailable = errors.New("payment processor unavailable")
	// ErrAmountRequired 金額未指定エラー
	ErrAmountRequired = NewValidationError("amount", "amount is required")
	// ErrPaymentIntentIDRequired PaymentIntent ID未指定エラー
	ErrPaymentIntentIDRequired = NewValidationError("payment_intent_id", "payment_intent_id is required")
)

// ValidationError 呼び出し側の入力エラー
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError 新しいValidationErrorを作成
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError 認証エラー
type AuthError struct {
	Message string
}

// NewAuthError 新しいAuthErrorを作成
func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

func (e *AuthError) Error() string {
	return e.Message
}

// ProcessorErrorKind プロセッサエラーの分類
type ProcessorErrorKind string

const (
	ProcessorErrorKindRejected    ProcessorErrorKind = "rejected"     // リクエスト内容による拒否（カード拒否、存在しないIDなど）
	ProcessorErrorKindCredential  ProcessorErrorKind = "credential"   // APIキーの不備
	ProcessorErrorKindRateLimited ProcessorErrorKind = "rate_limited" // レート制限
	ProcessorErrorKindUpstream    ProcessorErrorKind = "upstream"     // プロセッサ側の障害
)

// ProcessorError 決済プロセッサが返したエラー
type ProcessorError struct {
	HTTPStatus int
	Type       string
	Code       string
	Message    string
}

// NewProcessorError 新しいProcessorErrorを作成
func NewProcessorError(httpStatus int, errType, code, message string) *ProcessorError {
	return &ProcessorError{
		HTTPStatus: httpStatus,
		Type:       errType,
		Code:       code,
		Message:    message,
	}
}

func (e *ProcessorError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("processor error (%d %s): %s", e.HTTPStatus, e.Code, e.Message)
	}
	return fmt.Sprintf("processor error (%d): %s", e.HTTPStatus, e.Message)
}

// Kind HTTPステータスからエラーの分類を返す
func (e *ProcessorError) Kind() ProcessorErrorKind {
	switch {
	case e.HTTPStatus == http.StatusUnauthorized || e.HTTPStatus == http.StatusForbidden:
		return ProcessorErrorKindCredential
	case e.HTTPStatus == http.StatusTooManyRequests:
		return ProcessorErrorKindRateLimited
	case e.HTTPStatus >= 400 && e.HTTPStatus < 500:
		return ProcessorErrorKindRejected
	default:
		return ProcessorErrorKindUpstream
	}
}

// NewUnavailableError 原因をErrProcessorUnavailableでラップする
func NewUnavailableError(cause error) error {
	if cause == nil {
		return ErrProcessorUnavailable
	}
	return fmt.Errorf("%w: %w", ErrProcessorUnavailable, cause)
}

// ErrorKind メトリクス用にエラーの種別名を返す
func ErrorKind(err error) string {
	var validationErr *ValidationError
	var authErr *AuthError
	var processorErr *ProcessorError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &processorErr):
		return "processor_" + string(processorErr.Kind())
	case errors.Is(err, ErrProcessorUnavailable):
		return "processor_unavailable"
	default:
		return "unknown"
	}
}
