package sentry

import (
	"context"
	"fmt"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel/trace"

	"payment-relay/internal/infrastructure/config"
)

// Reporter Sentryへのエラー送信（DSN未設定なら何もしない）
type Reporter struct {
	hub *sentrygo.Hub
}

// NewReporter 設定からReporterを作成
func NewReporter(cfg *config.SentryConfig, environment, release string) (*Reporter, error) {
	if !cfg.Enabled() {
		return &Reporter{}, nil
	}

	return NewReporterWithOptions(sentrygo.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      environment,
		Release:          release,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
	})
}

// NewReporterWithOptions クライアントオプションを指定してReporterを作成
func NewReporterWithOptions(opts sentrygo.ClientOptions) (*Reporter, error) {
	client, err := sentrygo.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create sentry client: %w", err)
	}
	return &Reporter{hub: sentrygo.NewHub(client, sentrygo.NewScope())}, nil
}

// Enabled 送信が有効かどうかを返す
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// CaptureError エラーをタグ付きで送信
func (r *Reporter) CaptureError(ctx context.Context, err error, tags map[string]string) {
	if !r.Enabled() || err == nil {
		return
	}

	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentrygo.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		// トレースIDを紐付け
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			scope.SetTag("trace_id", sc.TraceID().String())
		}
		hub.CaptureException(err)
	})
}

// Flush 未送信のイベントを送信
func (r *Reporter) Flush(timeout time.Duration) bool {
	if !r.Enabled() {
		return true
	}
	return r.hub.Flush(timeout)
}
