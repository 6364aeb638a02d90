package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantCSP   string
		wantHSTS  bool
		wantStore bool
	}{
		{
			name:      "正常系: APIパス",
			target:    "/api/payments/create-payment-intent/",
			wantCSP:   "default-src 'none'",
			wantStore: true,
		},
		{
			name:      "正常系: HTTPSならHSTSを付与",
			target:    "https://example.com/confirm-payment/",
			wantCSP:   "default-src 'none'",
			wantHSTS:  true,
			wantStore: true,
		},
		{
			name:    "正常系: Swagger UIは外部CDNを許可",
			target:  "/swagger/index.html",
			wantCSP: "https://cdn.jsdelivr.net",
		},
		{
			name:    "正常系: ReDoc",
			target:  "/redoc",
			wantCSP: "https://fonts.googleapis.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := SecurityHeadersMiddleware()(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})

			require.NoError(t, handler(c))
			assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
			assert.Contains(t, rec.Header().Get("Content-Security-Policy"), tt.wantCSP)

			if tt.wantHSTS {
				assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=31536000")
			} else {
				assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
			}
			if tt.wantStore {
				assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			} else {
				assert.Empty(t, rec.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestSecurityHeadersMiddleware_HeadersKeptOnError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/confirm-payment/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SecurityHeadersMiddleware()(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad")
	})

	assert.Error(t, handler(c))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
