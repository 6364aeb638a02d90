package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"payment-relay/internal/domain/payment_intent"
	otelinfra "payment-relay/internal/infrastructure/observability/otel"
	sentryinfra "payment-relay/internal/infrastructure/observability/sentry"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

const (
	CodeValidationError      = "validation_error"
	CodeUnauthorized         = "unauthorized"
	CodeProcessorRejected    = "processor_rejected"
	CodeProcessorError       = "processor_error"
	CodeProcessorUnavailable = "processor_unavailable"
	CodeInternalServerError  = "internal_server_error"

	messageProcessorError       = "Payment processor request failed"
	messageProcessorUnavailable = "Payment processor is temporarily unavailable"
	messageInternalServerError  = "An unexpected error occurred"
)

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger, reporter *sentryinfra.Reporter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			return handleError(c, err, logger, reporter)
		}
	}
}

// HTTPErrorHandler ミドルウェアの外側（Recoverなど）で発生したエラー用のハンドラー
func HTTPErrorHandler(logger *otelinfra.Logger, reporter *sentryinfra.Reporter) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		_ = handleError(c, err, logger, reporter)
	}
}

// MapError エラーをHTTPステータスとレスポンスボディに変換
func MapError(err error) (int, ErrorResponse) {
	var validationErr *payment_intent.ValidationError
	var authErr *payment_intent.AuthError
	var processorErr *payment_intent.ProcessorError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, ErrorResponse{Error: validationErr.Message, Code: CodeValidationError}

	case errors.As(err, &authErr):
		return http.StatusUnauthorized, ErrorResponse{Error: authErr.Message, Code: CodeUnauthorized}

	case errors.As(err, &processorErr):
		switch processorErr.Kind() {
		case payment_intent.ProcessorErrorKindRejected:
			// カード拒否などはプロセッサのメッセージをそのまま返す
			return http.StatusBadRequest, ErrorResponse{Error: processorErr.Message, Code: CodeProcessorRejected}
		case payment_intent.ProcessorErrorKindRateLimited:
			return http.StatusServiceUnavailable, ErrorResponse{Error: messageProcessorUnavailable, Code: CodeProcessorUnavailable}
		default:
			return http.StatusBadGateway, ErrorResponse{Error: messageProcessorError, Code: CodeProcessorError}
		}

	case errors.Is(err, payment_intent.ErrProcessorUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{Error: messageProcessorUnavailable, Code: CodeProcessorUnavailable}

	case errors.As(err, &httpErr):
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, ErrorResponse{Error: message}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: messageInternalServerError, Code: CodeInternalServerError}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger, reporter *sentryinfra.Reporter) error {
	ctx := c.Request().Context()
	status, body := MapError(err)

	fields := map[string]interface{}{
		"status_code": status,
		"path":        c.Request().URL.Path,
		"kind":        payment_intent.ErrorKind(err),
	}

	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "Request failed", err, fields)
		reporter.CaptureError(ctx, err, map[string]string{
			"path":        c.Path(),
			"status_code": strconv.Itoa(status),
			"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
		})
	} else {
		fields["error"] = err.Error()
		logger.Warn(ctx, "Request rejected", fields)
	}

	return c.JSON(status, body)
}
