package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"payment-relay/internal/domain/identity"
	"payment-relay/internal/domain/payment_intent"
	"payment-relay/internal/infrastructure/config"
	otelinfra "payment-relay/internal/infrastructure/observability/otel"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AuthApplicationService 認証アプリケーションサービス
type AuthApplicationService struct {
	jwtConfig *config.JWTConfig
	logger    *otelinfra.Logger
}

// NewAuthApplicationService 新しいAuthApplicationServiceを作成
func NewAuthApplicationService(jwtConfig *config.JWTConfig, logger *otelinfra.Logger) *AuthApplicationService {
	return &AuthApplicationService{
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

// GenerateToken JWTトークンを生成（開発用）
func (s *AuthApplicationService) GenerateToken(ctx context.Context, req *GenerateTokenRequest) (*GenerateTokenResponse, error) {
	tracer := otel.Tracer("auth-service")
	ctx, span := tracer.Start(ctx, "AuthApplicationService.GenerateToken")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", req.UserID),
	)

	if req.UserID == "" {
		err := payment_intent.NewValidationError("user_id", "user_id is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn(ctx, "User ID is required", nil)
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtConfig.Expiration)

	claims := jwt.MapClaims{
		"user_id": req.UserID,
		"iss":     s.jwtConfig.Issuer,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	if req.Email != "" {
		claims["email"] = req.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error(ctx, "Failed to generate token", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info(ctx, "Token generated successfully", map[string]interface{}{
		"user_id":    req.UserID,
		"expires_at": expiresAt.Unix(),
	})

	return &GenerateTokenResponse{
		Token:     tokenString,
		ExpiresIn: int64(s.jwtConfig.Expiration.Seconds()),
		TokenType: "Bearer",
	}, nil
}

// VerifyToken Authorizationヘッダーの値を検証し、呼び出し元を返す
// user_idクレームは文字列と数値のどちらも受け付ける
func (s *AuthApplicationService) VerifyToken(ctx context.Context, authHeader string) (*identity.Caller, error) {
	if authHeader == "" {
		s.logger.Warn(ctx, "Missing authorization header", nil)
		return nil, payment_intent.NewAuthError("missing authorization header")
	}

	// Bearerトークンの形式を確認
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		s.logger.Warn(ctx, "Invalid authorization header format", nil)
		return nil, payment_intent.NewAuthError("invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		fields := map[string]interface{}{}
		if err != nil {
			fields["error"] = err.Error()
		}
		s.logger.Warn(ctx, "Invalid token", fields)
		return nil, payment_intent.NewAuthError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		s.logger.Warn(ctx, "Invalid token claims", nil)
		return nil, payment_intent.NewAuthError("invalid token claims")
	}

	userID, ok := userIDFromClaim(claims["user_id"])
	if !ok {
		s.logger.Warn(ctx, "Missing user_id in token claims", nil)
		return nil, payment_intent.NewAuthError("missing user_id in token")
	}

	email, _ := claims["email"].(string)
	return identity.NewCaller(userID, email), nil
}

// userIDFromClaim user_idクレームを文字列に変換
func userIDFromClaim(v interface{}) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}
