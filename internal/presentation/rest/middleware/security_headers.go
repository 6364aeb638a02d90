package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// apiCSP JSONしか返さないため何も読み込ませない
	apiCSP = "default-src 'none'; frame-ancestors 'none'"
	// docsCSP Swagger UIとReDocがunpkg・jsDelivr・Google Fontsから読み込む分だけ許可
	docsCSP = "default-src 'self'; script-src 'self' 'unsafe-inline' https://unpkg.com https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline' https://unpkg.com https://fonts.googleapis.com; font-src 'self' https://fonts.gstatic.com; img-src 'self' data: https:;"

	hstsValue = "max-age=31536000; includeSubDomains"
)

// baseSecurityHeaders すべてのレスポンスに付けるヘッダー
var baseSecurityHeaders = map[string]string{
	"X-XSS-Protection":       "1; mode=block",
	"X-Frame-Options":        "DENY",
	"X-Content-Type-Options": "nosniff",
	"Referrer-Policy":        "no-referrer",
}

// SecurityHeadersMiddleware セキュリティ関連のレスポンスヘッダーを付与
// ドキュメント以外のレスポンスはclient_secretを含みうるのでno-storeにする
func SecurityHeadersMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for name, value := range baseSecurityHeaders {
				h.Set(name, value)
			}

			if isDocsPath(c.Request().URL.Path) {
				h.Set("Content-Security-Policy", docsCSP)
			} else {
				h.Set("Content-Security-Policy", apiCSP)
				h.Set("Cache-Control", "no-store")
			}

			// X-Forwarded-Protoも見るのでTLS終端がプロキシでも付く
			if c.Scheme() == "https" {
				h.Set("Strict-Transport-Security", hstsValue)
			}

			return next(c)
		}
	}
}

// isDocsPath Swagger UI・ReDoc・OpenAPI定義のパスかどうか
func isDocsPath(path string) bool {
	return path == "/redoc" || path == "/openapi.yaml" || strings.HasPrefix(path, "/swagger")
}
