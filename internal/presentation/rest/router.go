package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/xid"

	authapp "payment-relay/internal/application/auth"
	paymentapp "payment-relay/internal/application/payment"
	"payment-relay/internal/infrastructure/config"
	otelinfra "payment-relay/internal/infrastructure/observability/otel"
	sentryinfra "payment-relay/internal/infrastructure/observability/sentry"
	"payment-relay/internal/presentation/rest/handler"
	restmiddleware "payment-relay/internal/presentation/rest/middleware"
)

// Dependencies ルーターが利用するサービス群
type Dependencies struct {
	Logger         *otelinfra.Logger
	Metrics        *otelinfra.Metrics
	Reporter       *sentryinfra.Reporter
	AuthService    *authapp.AuthApplicationService
	PaymentService *paymentapp.PaymentApplicationService
}

// Router REST APIルーター
type Router struct {
	echo           *echo.Echo
	server         *http.Server
	paymentHandler *handler.PaymentHandler
	authHandler    *handler.AuthHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(cfg *config.Config, deps Dependencies) (*Router, error) {
	if deps.Logger == nil || deps.Metrics == nil || deps.AuthService == nil || deps.PaymentService == nil {
		return nil, errors.New("router dependencies are incomplete")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	// ミドルウェアの外側で発生したエラー（パニックなど）も同じ形式で返す
	e.HTTPErrorHandler = restmiddleware.HTTPErrorHandler(deps.Logger, deps.Reporter)

	setupMiddleware(e, cfg, deps)

	paymentHandler := handler.NewPaymentHandler(deps.PaymentService)
	authHandler := handler.NewAuthHandler(deps.AuthService)

	setupRoutes(e, cfg, deps, paymentHandler, authHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo: e,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      e,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		paymentHandler: paymentHandler,
		authHandler:    authHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, deps Dependencies) {
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return xid.New().String()
		},
	}))

	e.Use(restmiddleware.SecurityHeadersMiddleware())
	e.Use(restmiddleware.TracingMiddleware())
	e.Use(restmiddleware.MetricsMiddleware(deps.Metrics))
	e.Use(restmiddleware.LoggingMiddleware(deps.Logger))
	e.Use(restmiddleware.ErrorHandlerMiddleware(deps.Logger, deps.Reporter))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	deps Dependencies,
	paymentHandler *handler.PaymentHandler,
	authHandler *handler.AuthHandler,
) {
	authMiddleware := restmiddleware.AuthMiddleware(deps.AuthService)

	// 決済エンドポイント
	payments := e.Group("/api/payments", authMiddleware)
	payments.POST("/create-payment-intent/", paymentHandler.CreatePaymentIntent)
	payments.POST("/confirm-payment/", paymentHandler.ConfirmPayment)

	// プレフィックスなしの旧URL
	e.POST("/create-payment-intent/", paymentHandler.CreatePaymentIntent, authMiddleware)
	e.POST("/confirm-payment/", paymentHandler.ConfirmPayment, authMiddleware)

	// 開発環境のみトークン発行を許可
	if cfg.IsDevelopment() {
		e.POST("/api/v1/auth/token", authHandler.GenerateToken)
	}

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Handler HTTPハンドラーを返す
func (r *Router) Handler() http.Handler {
	return r.echo
}

// Start サーバーを起動（Shutdown後はnilを返す）
func (r *Router) Start() error {
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 処理中のリクエストを待ってサーバーを停止
func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}
