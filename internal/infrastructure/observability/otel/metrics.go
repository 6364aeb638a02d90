package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 作成されたPaymentIntent数
	IntentCreatedCount metric.Int64Counter

	// 決済確認の結果（success / failed）
	ConfirmationCount metric.Int64Counter

	// プロセッサ呼び出し時間
	ProcessorLatency metric.Float64Histogram

	// プロセッサエラー数
	ProcessorErrorCount metric.Int64Counter

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics グローバルのメータープロバイダーからMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	return NewMetricsWithProvider(otel.GetMeterProvider(), meterName)
}

// NewMetricsWithProvider メータープロバイダーを指定してMetricsを作成
func NewMetricsWithProvider(provider metric.MeterProvider, meterName string) (*Metrics, error) {
	meter := provider.Meter(meterName)

	intentCreatedCount, err := meter.Int64Counter(
		"payment_intents_created_total",
		metric.WithDescription("Total number of payment intents created at the processor"),
	)
	if err != nil {
		return nil, err
	}

	confirmationCount, err := meter.Int64Counter(
		"payment_confirmations_total",
		metric.WithDescription("Total number of payment confirmations by outcome"),
	)
	if err != nil {
		return nil, err
	}

	processorLatency, err := meter.Float64Histogram(
		"processor_request_duration_seconds",
		metric.WithDescription("Payment processor call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	processorErrorCount, err := meter.Int64Counter(
		"processor_errors_total",
		metric.WithDescription("Total number of payment processor errors by kind"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		IntentCreatedCount:  intentCreatedCount,
		ConfirmationCount:   confirmationCount,
		ProcessorLatency:    processorLatency,
		ProcessorErrorCount: processorErrorCount,
		RequestCount:        requestCount,
		ResponseTime:        responseTime,
		ErrorCount:          errorCount,
	}, nil
}

// RecordIntentCreated PaymentIntent作成を記録
func (m *Metrics) RecordIntentCreated(ctx context.Context, currency string) {
	m.IntentCreatedCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("currency", currency),
		),
	)
}

// RecordConfirmation 決済確認の結果を記録
func (m *Metrics) RecordConfirmation(ctx context.Context, outcome, processorStatus string) {
	m.ConfirmationCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.String("processor_status", processorStatus),
		),
	)
}

// RecordProcessorLatency プロセッサ呼び出し時間を記録
func (m *Metrics) RecordProcessorLatency(ctx context.Context, operation string, duration float64) {
	m.ProcessorLatency.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("operation", operation),
		),
	)
}

// RecordProcessorError プロセッサエラーを記録
func (m *Metrics) RecordProcessorError(ctx context.Context, operation, kind string) {
	m.ProcessorErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("kind", kind),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
