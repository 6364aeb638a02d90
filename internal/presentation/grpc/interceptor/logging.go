package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	otelinfra "payment-relay/internal/infrastructure/observability/otel"
)

// LoggingInterceptor リクエストのログとメトリクスを記録するインターセプター
func LoggingInterceptor(logger *otelinfra.Logger, metrics *otelinfra.Metrics) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		metrics.RecordRequest(ctx, "grpc", info.FullMethod)

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		metrics.RecordResponseTime(ctx, "grpc", info.FullMethod, duration.Seconds())

		code := status.Code(err)
		fields := map[string]interface{}{
			"method":      info.FullMethod,
			"code":        code.String(),
			"duration_ms": duration.Milliseconds(),
		}
		if err != nil {
			metrics.RecordError(ctx, "grpc_"+code.String())
			logger.Warn(ctx, "gRPC request failed", merge(fields, "error", err.Error()))
		} else {
			logger.Info(ctx, "gRPC request completed", fields)
		}

		return resp, err
	}
}

func merge(fields map[string]interface{}, key string, value interface{}) map[string]interface{} {
	fields[key] = value
	return fields
}
