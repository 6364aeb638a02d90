package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"payment-relay/internal/domain/identity"
	"payment-relay/internal/domain/payment_intent"
	"payment-relay/internal/infrastructure/config"
	otelinfra "payment-relay/internal/infrastructure/observability/otel"
)

func newTestAuthService(cfg *config.JWTConfig) *AuthApplicationService {
	logger := otelinfra.NewLoggerWithOutput(otel.Tracer("test"), io.Discard, "debug")
	return NewAuthApplicationService(cfg, logger)
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:     "test-secret-key",
		Issuer:     "test-issuer",
		Expiration: 24 * time.Hour,
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthApplicationService_GenerateToken(t *testing.T) {
	tests := []struct {
		name      string
		req       *GenerateTokenRequest
		wantError bool
		checkFunc func(*testing.T, *GenerateTokenResponse, error)
	}{
		{
			name: "正常系: トークンを生成",
			req: &GenerateTokenRequest{
				UserID: "user123",
				Email:  "user@example.com",
			},
			checkFunc: func(t *testing.T, resp *GenerateTokenResponse, err error) {
				require.NoError(t, err)
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, int64(86400), resp.ExpiresIn) // 24時間 = 86400秒
				assert.Equal(t, "Bearer", resp.TokenType)
			},
		},
		{
			name: "異常系: ユーザーIDが空",
			req: &GenerateTokenRequest{
				UserID: "",
			},
			wantError: true,
			checkFunc: func(t *testing.T, resp *GenerateTokenResponse, err error) {
				var validationErr *payment_intent.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, "user_id", validationErr.Field)
				assert.Nil(t, resp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(testJWTConfig())

			got, err := svc.GenerateToken(context.Background(), tt.req)

			if tt.wantError {
				assert.Error(t, err)
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, got, err)
			}
		})
	}
}

func TestAuthApplicationService_GenerateThenVerify(t *testing.T) {
	svc := newTestAuthService(testJWTConfig())
	ctx := context.Background()

	resp, err := svc.GenerateToken(ctx, &GenerateTokenRequest{UserID: "user123", Email: "user@example.com"})
	require.NoError(t, err)

	caller, err := svc.VerifyToken(ctx, "Bearer "+resp.Token)
	require.NoError(t, err)
	assert.Equal(t, identity.NewCaller("user123", "user@example.com"), caller)
}

func TestAuthApplicationService_VerifyToken(t *testing.T) {
	cfg := testJWTConfig()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name       string
		header     string
		wantCaller *identity.Caller
	}{
		{
			name:       "正常系: 文字列のuser_id",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"user_id": "abc", "exp": future}),
			wantCaller: identity.NewCaller("abc", ""),
		},
		{
			name:       "正常系: 数値のuser_idとemail",
			header:     "Bearer " + signToken(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"user_id": 42, "email": "doc@example.com"}),
			wantCaller: identity.NewCaller("42", "doc@example.com"),
		},
		{
			name:   "異常系: ヘッダーなし",
			header: "",
		},
		{
			name:   "異常系: Bearer形式でない",
			header: "Token abc",
		},
		{
			name:   "異常系: 不正なトークン",
			header: "Bearer invalid-token",
		},
		{
			name:   "異常系: シークレット不一致",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, "wrong-secret", jwt.MapClaims{"user_id": "abc"}),
		},
		{
			name:   "異常系: HS256以外の署名方式",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS512, cfg.Secret, jwt.MapClaims{"user_id": "abc"}),
		},
		{
			name:   "異常系: 期限切れ",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"user_id": "abc", "exp": time.Now().Add(-time.Hour).Unix()}),
		},
		{
			name:   "異常系: user_idなし",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"other_claim": "value"}),
		},
		{
			name:   "異常系: user_idが真偽値",
			header: "Bearer " + signToken(t, jwt.SigningMethodHS256, cfg.Secret, jwt.MapClaims{"user_id": true}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(cfg)

			caller, err := svc.VerifyToken(context.Background(), tt.header)

			if tt.wantCaller == nil {
				var authErr *payment_intent.AuthError
				assert.ErrorAs(t, err, &authErr)
				assert.Nil(t, caller)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCaller, caller)
		})
	}
}
