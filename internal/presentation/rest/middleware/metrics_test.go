package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	otelinfra "payment-relay/internal/infrastructure/observability/otel"
)

// sumOf カウンターの合計値を返す（未記録なら0）
func sumOf(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		handler    echo.HandlerFunc
		wantErr    bool
		wantErrors int64
	}{
		{
			name: "正常系: 200はエラーに数えない",
			handler: func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			},
		},
		{
			name: "正常系: 3xxはエラーに数えない",
			handler: func(c echo.Context) error {
				return c.Redirect(http.StatusFound, "/health")
			},
		},
		{
			name: "異常系: 4xx",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount is required"})
			},
			wantErrors: 1,
		},
		{
			name: "異常系: 5xx",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Payment processor request failed"})
			},
			wantErrors: 1,
		},
		{
			name: "異常系: ステータス未確定のエラー",
			handler: func(c echo.Context) error {
				return errors.New("boom")
			},
			wantErr:    true,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := sdkmetric.NewManualReader()
			provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			metrics, err := otelinfra.NewMetricsWithProvider(provider, "test-meter")
			require.NoError(t, err)

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/payments/create-payment-intent/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetPath("/api/payments/create-payment-intent/")

			err = MetricsMiddleware(metrics)(tt.handler)(c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, int64(1), sumOf(t, reader, "requests_total"))
			assert.Equal(t, tt.wantErrors, sumOf(t, reader, "errors_total"))
		})
	}
}
