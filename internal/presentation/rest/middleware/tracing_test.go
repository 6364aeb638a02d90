package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupSpanRecorder 記録用のトレーサープロバイダーをグローバルに設定
func setupSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return recorder
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		handler    echo.HandlerFunc
		wantStatus int
		wantCode   codes.Code
		wantErr    bool
	}{
		{
			name: "正常系: 200",
			handler: func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			},
			wantStatus: http.StatusOK,
			wantCode:   codes.Unset,
		},
		{
			name: "正常系: 400はエラー扱いしない",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount is required"})
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   codes.Unset,
		},
		{
			name: "異常系: 502",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Payment processor request failed"})
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   codes.Error,
		},
		{
			name: "異常系: ハンドラーがエラーを返す",
			handler: func(c echo.Context) error {
				return errors.New("boom")
			},
			wantCode: codes.Error,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := setupSpanRecorder(t)

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/payments/confirm-payment/", nil)
			req.Header.Set("User-Agent", "test-agent")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetPath("/api/payments/confirm-payment/")

			err := TracingMiddleware()(tt.handler)(c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			span := spans[0]
			assert.Equal(t, "POST /api/payments/confirm-payment/", span.Name())
			assert.Equal(t, trace.SpanKindServer, span.SpanKind())
			assert.Equal(t, tt.wantCode, span.Status().Code)

			if tt.wantStatus != 0 {
				status, ok := attrValue(span.Attributes(), "http.status_code")
				require.True(t, ok)
				assert.Equal(t, int64(tt.wantStatus), status.AsInt64())
			}

			ua, ok := attrValue(span.Attributes(), "http.user_agent")
			require.True(t, ok)
			assert.Equal(t, "test-agent", ua.AsString())
		})
	}
}

func TestTracingMiddleware_ExtractsTraceContext(t *testing.T) {
	recorder := setupSpanRecorder(t)

	parentCtx, parent := otel.Tracer("client").Start(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "parent")
	parent.End()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	otel.GetTextMapPropagator().Inject(parentCtx, propagation.HeaderCarrier(req.Header))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/health")

	var handlerSpan trace.SpanContext
	err := TracingMiddleware()(func(c echo.Context) error {
		handlerSpan = trace.SpanContextFromContext(c.Request().Context())
		return c.String(http.StatusOK, "ok")
	})(c)
	require.NoError(t, err)

	assert.Equal(t, parent.SpanContext().TraceID(), handlerSpan.TraceID())

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, parent.SpanContext().SpanID(), spans[1].Parent().SpanID())
}
