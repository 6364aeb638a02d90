package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "payment-relay/internal/infrastructure/observability/otel"
)

// MetricsMiddleware メトリクス記録ミドルウェア
// エラーハンドリングミドルウェアより外側に置き、確定したステータスで記録する
func MetricsMiddleware(metrics *otelinfra.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			ctx := c.Request().Context()

			metrics.RecordRequest(ctx, c.Request().Method, c.Path())

			err := next(c)

			metrics.RecordResponseTime(ctx, c.Request().Method, c.Path(), time.Since(start).Seconds())

			if errorType := errorTypeOf(c.Response().Status, err); errorType != "" {
				metrics.RecordError(ctx, errorType)
			}

			return err
		}
	}
}

// errorTypeOf ステータスコードからエラー種別を判定
func errorTypeOf(status int, err error) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status >= http.StatusBadRequest:
		return "client_error"
	case err != nil:
		// レスポンス未確定のままエラーが返った場合
		return "server_error"
	default:
		return ""
	}
}
