package middleware

import (
	"github.com/labstack/echo/v4"

	authapp "payment-relay/internal/application/auth"
	"payment-relay/internal/domain/identity"
)

// callerKey echo.Contextに呼び出し元を保持するキー
const callerKey = "caller"

// AuthMiddleware JWT認証ミドルウェア
// 検証に失敗した場合はAuthErrorを返し、ハンドラーは実行しない
func AuthMiddleware(authService *authapp.AuthApplicationService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			caller, err := authService.VerifyToken(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			c.Set(callerKey, caller)
			c.SetRequest(c.Request().WithContext(identity.WithCaller(ctx, caller)))

			return next(c)
		}
	}
}

// CallerFrom 認証済みの呼び出し元を取得
func CallerFrom(c echo.Context) (*identity.Caller, bool) {
	caller, ok := c.Get(callerKey).(*identity.Caller)
	return caller, ok && caller != nil
}
