package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "payment-relay/internal/application/auth"
	paymentapp "payment-relay/internal/application/payment"
	"payment-relay/internal/infrastructure/config"
	otelinfra "payment-relay/internal/infrastructure/observability/otel"
	sentryinfra "payment-relay/internal/infrastructure/observability/sentry"
	"payment-relay/internal/infrastructure/processor/stripe"
	grpcserver "payment-relay/internal/presentation/grpc"
	"payment-relay/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	logger := otelinfra.NewLoggerWithOutput(otelinfra.Tracer("payment-relay"), os.Stdout, cfg.LogLevel)
	metrics, err := otelinfra.NewMetrics("payment-relay")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// エラー通知（SENTRY_DSN未設定なら無効）
	reporter, err := sentryinfra.NewReporter(&cfg.Sentry, cfg.Environment, cfg.OpenTelemetry.ServiceVersion)
	if err != nil {
		log.Fatalf("Failed to initialize sentry: %v", err)
	}
	defer reporter.Flush(2 * time.Second)

	// 決済プロセッサクライアントの初期化
	processor := stripe.NewClient(&cfg.Processor)

	// アプリケーションサービスの初期化
	authAppService := authapp.NewAuthApplicationService(&cfg.JWT, logger)
	paymentAppService := paymentapp.NewPaymentApplicationService(processor, &cfg.Processor, logger, metrics)

	// REST APIルーターの初期化
	router, err := rest.NewRouter(cfg, rest.Dependencies{
		Logger:         logger,
		Metrics:        metrics,
		Reporter:       reporter,
		AuthService:    authAppService,
		PaymentService: paymentAppService,
	})
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// gRPCサーバーの初期化
	var grpcSrv *grpcserver.Server
	if cfg.GRPC.Enabled {
		grpcSrv, err = grpcserver.NewServer(cfg, logger, metrics, authAppService, paymentAppService)
		if err != nil {
			log.Fatalf("Failed to create gRPC server: %v", err)
		}
	}

	ctx := context.Background()

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// REST APIサーバーを別ゴルーチンで起動
	go func() {
		logger.Info(ctx, "REST API server starting", map[string]interface{}{
			"port":        cfg.Server.Port,
			"environment": cfg.Environment,
		})
		if err := router.Start(); err != nil {
			logger.Error(ctx, "REST API server error", err, nil)
			quit <- syscall.SIGTERM
		}
	}()

	// gRPCサーバーを別ゴルーチンで起動
	if grpcSrv != nil {
		go func() {
			if err := grpcSrv.Start(); err != nil {
				logger.Error(ctx, "gRPC server error", err, nil)
			}
		}()
	}

	// シグナルを待機
	<-quit
	logger.Info(ctx, "Shutting down servers", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Error shutting down REST API server", err, nil)
	}

	if grpcSrv != nil {
		if err := grpcSrv.Stop(shutdownCtx); err != nil {
			logger.Error(ctx, "Error shutting down gRPC server", err, nil)
		}
	}

	logger.Info(ctx, "Servers stopped", nil)
}
