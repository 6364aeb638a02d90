package interceptor

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	authapp "payment-relay/internal/application/auth"
	"payment-relay/internal/domain/identity"
	"payment-relay/internal/infrastructure/config"
	otelinfra "payment-relay/internal/infrastructure/observability/otel"
)

func newTestLogger() *otelinfra.Logger {
	return otelinfra.NewLoggerWithOutput(noop.NewTracerProvider().Tracer("test"), io.Discard, "debug")
}

func TestAuthInterceptor(t *testing.T) {
	logger := newTestLogger()
	authService := authapp.NewAuthApplicationService(&config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	}, logger)
	token, err := authService.GenerateToken(context.Background(), &authapp.GenerateTokenRequest{UserID: "user123"})
	require.NoError(t, err)

	tests := []struct {
		name        string
		ctx         context.Context
		method      string
		wantCode    codes.Code
		wantMessage string
		wantCaller  bool
	}{
		{
			name:        "異常系: メタデータなし",
			ctx:         context.Background(),
			method:      "/payments.v1.PaymentService/ConfirmPayment",
			wantCode:    codes.Unauthenticated,
			wantMessage: "missing metadata",
		},
		{
			name:        "異常系: Authorizationなし",
			ctx:         metadata.NewIncomingContext(context.Background(), metadata.New(nil)),
			method:      "/payments.v1.PaymentService/ConfirmPayment",
			wantCode:    codes.Unauthenticated,
			wantMessage: "missing authorization header",
		},
		{
			name:        "異常系: 形式が不正",
			ctx:         metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Token abc")),
			method:      "/payments.v1.PaymentService/ConfirmPayment",
			wantCode:    codes.Unauthenticated,
			wantMessage: "invalid authorization header format",
		},
		{
			name:        "異常系: 不正なトークン",
			ctx:         metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer invalid")),
			method:      "/payments.v1.PaymentService/ConfirmPayment",
			wantCode:    codes.Unauthenticated,
			wantMessage: "invalid or expired token",
		},
		{
			name:       "正常系: 有効なトークン",
			ctx:        metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token.Token)),
			method:     "/payments.v1.PaymentService/ConfirmPayment",
			wantCode:   codes.OK,
			wantCaller: true,
		},
		{
			name:     "正常系: ヘルスチェックは認証不要",
			ctx:      context.Background(),
			method:   "/grpc.health.v1.Health/Check",
			wantCode: codes.OK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCaller *identity.Caller
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				gotCaller, _ = identity.FromContext(ctx)
				return "success", nil
			}

			resp, err := AuthInterceptor(authService, logger)(tt.ctx, nil, &grpc.UnaryServerInfo{FullMethod: tt.method}, handler)

			if tt.wantCode != codes.OK {
				st, ok := status.FromError(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantCode, st.Code())
				assert.Contains(t, st.Message(), tt.wantMessage)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "success", resp)
			if tt.wantCaller {
				require.NotNil(t, gotCaller)
				assert.Equal(t, "user123", gotCaller.UserID)
			}
		})
	}
}
