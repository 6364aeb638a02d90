package handler

import (
	"fmt"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/labstack/echo/v4"

	paymentapp "payment-relay/internal/application/payment"
)

// PaymentHandler 決済関連ハンドラー
type PaymentHandler struct {
	paymentService *paymentapp.PaymentApplicationService
}

// NewPaymentHandler 新しいPaymentHandlerを作成
func NewPaymentHandler(paymentService *paymentapp.PaymentApplicationService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePaymentIntent PaymentIntent作成ハンドラー
// @Summary PaymentIntentを作成
// @Description 決済プロセッサにPaymentIntentを作成し、クライアントシークレットを返します
// @Tags payment
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreatePaymentIntentRequest true "PaymentIntent作成リクエスト"
// @Success 200 {object} CreatePaymentIntentResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト、またはプロセッサによる拒否"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 502 {object} ErrorResponse "プロセッサエラー"
// @Failure 503 {object} ErrorResponse "プロセッサ到達不可"
// @Router /payments/create-payment-intent/ [post]
func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var reqBody CreatePaymentIntentRequest
	if err := bindAndValidate(c, &reqBody); err != nil {
		return err
	}

	resp, err := h.paymentService.CreatePaymentIntent(c.Request().Context(), &paymentapp.CreatePaymentIntentRequest{
		Caller:   caller,
		Amount:   int64(reqBody.Amount),
		Currency: reqBody.Currency,
	})
	if err != nil {
		return err
	}

	var out CreatePaymentIntentResponse
	if err := copier.Copy(&out, resp); err != nil {
		return fmt.Errorf("failed to build response: %w", err)
	}
	return c.JSON(http.StatusOK, out)
}

// ConfirmPayment 決済確認ハンドラー
// @Summary 決済の完了を確認
// @Description プロセッサからPaymentIntentのステータスを取得し、succeededなら成功を返します
// @Tags payment
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ConfirmPaymentRequest true "決済確認リクエスト"
// @Success 200 {object} ConfirmPaymentResponse "決済完了"
// @Failure 400 {object} ConfirmPaymentResponse "決済未完了"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 502 {object} ErrorResponse "プロセッサエラー"
// @Failure 503 {object} ErrorResponse "プロセッサ到達不可"
// @Router /payments/confirm-payment/ [post]
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var reqBody ConfirmPaymentRequest
	if err := bindAndValidate(c, &reqBody); err != nil {
		return err
	}

	resp, err := h.paymentService.ConfirmPayment(c.Request().Context(), &paymentapp.ConfirmPaymentRequest{
		Caller:          caller,
		PaymentIntentID: reqBody.PaymentIntentID,
	})
	if err != nil {
		return err
	}

	var out ConfirmPaymentResponse
	if err := copier.Copy(&out, resp); err != nil {
		return fmt.Errorf("failed to build response: %w", err)
	}

	if resp.Succeeded() {
		out.ProcessorStatus = ""
		return c.JSON(http.StatusOK, out)
	}
	return c.JSON(http.StatusBadRequest, out)
}
