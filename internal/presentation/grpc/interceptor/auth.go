package interceptor

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	authapp "payment-relay/internal/application/auth"
	"payment-relay/internal/domain/identity"
	otelinfra "payment-relay/internal/infrastructure/observability/otel"
)

// 認証不要のサービス
var publicServices = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.",
}

// AuthInterceptor JWT認証インターセプター
func AuthInterceptor(authService *authapp.AuthApplicationService, logger *otelinfra.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			logger.Warn(ctx, "Missing metadata", map[string]interface{}{
				"method": info.FullMethod,
			})
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		var authHeader string
		if values := md.Get("authorization"); len(values) > 0 {
			authHeader = values[0]
		}

		caller, err := authService.VerifyToken(ctx, authHeader)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		return handler(identity.WithCaller(ctx, caller), req)
	}
}

func isPublicMethod(fullMethod string) bool {
	for _, prefix := range publicServices {
		if strings.HasPrefix(fullMethod, prefix) {
			return true
		}
	}
	return false
}
