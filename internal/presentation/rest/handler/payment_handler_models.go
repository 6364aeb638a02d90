package handler

import (
	"bytes"
	"encoding/json"

	"payment-relay/internal/domain/payment_intent"
)

// Amount JSON数値と数字文字列のどちらでも受け付ける金額
// nullと空文字は未指定（0）として扱う
type Amount int64

// UnmarshalJSON 金額を整数に変換して読み込む
func (a *Amount) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return payment_intent.ErrAmountNotInteger
	}

	var n int64
	var err error
	switch v := raw.(type) {
	case nil:
		n = 0
	case json.Number:
		n, err = payment_intent.ParseAmountNumber(v.String())
	case string:
		if v == "" {
			n = 0
		} else {
			n, err = payment_intent.ParseAmount(v)
		}
	default:
		err = payment_intent.ErrAmountNotInteger
	}
	if err != nil {
		return err
	}

	*a = Amount(n)
	return nil
}

// CreatePaymentIntentRequest PaymentIntent作成リクエスト
// @Description PaymentIntent作成リクエスト
type CreatePaymentIntentRequest struct {
	Amount   Amount `json:"amount" validate:"required" swaggertype:"integer" example:"1000"`
	Currency string `json:"currency" example:"eur"`
}

// CreatePaymentIntentResponse PaymentIntent作成レスポンス
// @Description PaymentIntent作成レスポンス
type CreatePaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret" example:"pi_3Nabc_secret_xyz"`
	PaymentIntentID string `json:"payment_intent_id" example:"pi_3Nabc"`
}

// ConfirmPaymentRequest 決済確認リクエスト
// @Description 決済確認リクエスト
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required" example:"pi_3Nabc"`
}

// ConfirmPaymentResponse 決済確認レスポンス
// @Description 決済確認レスポンス（成功時はprocessor_statusを含まない）
type ConfirmPaymentResponse struct {
	Status          string `json:"status" example:"success"`
	Message         string `json:"message" example:"Payment completed successfully"`
	PaymentIntentID string `json:"payment_intent_id" example:"pi_3Nabc"`
	ProcessorStatus string `json:"processor_status,omitempty" example:"requires_action"`
}
