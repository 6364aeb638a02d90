package handler

import (
	"fmt"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/labstack/echo/v4"

	authapp "payment-relay/internal/application/auth"
)

// AuthHandler 認証関連ハンドラー（開発環境のみ）
type AuthHandler struct {
	authService *authapp.AuthApplicationService
}

// NewAuthHandler 新しいAuthHandlerを作成
func NewAuthHandler(authService *authapp.AuthApplicationService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// GenerateToken トークン生成ハンドラー
// @Summary 開発用の認証トークンを生成
// @Description ユーザーIDとメールアドレスからJWT認証トークンを生成します（ENVIRONMENT=developmentのみ）
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GenerateTokenRequest true "トークン生成リクエスト"
// @Success 200 {object} GenerateTokenResponse "トークン生成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Router /v1/auth/token [post]
func (h *AuthHandler) GenerateToken(c echo.Context) error {
	var reqBody GenerateTokenRequest
	if err := bindAndValidate(c, &reqBody); err != nil {
		return err
	}

	resp, err := h.authService.GenerateToken(c.Request().Context(), &authapp.GenerateTokenRequest{
		UserID: reqBody.UserID,
		Email:  reqBody.Email,
	})
	if err != nil {
		return err
	}

	var out GenerateTokenResponse
	if err := copier.Copy(&out, resp); err != nil {
		return fmt.Errorf("failed to build response: %w", err)
	}
	return c.JSON(http.StatusOK, out)
}
