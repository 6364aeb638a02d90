package payment_intent

import "context"

// CreateIntentParams PaymentIntent作成パラメータ
type CreateIntentParams struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

// Processor 外部決済プロセッサのインターフェース
type Processor interface {
	// CreateIntent PaymentIntentを作成
	CreateIntent(ctx context.Context, params CreateIntentParams) (*PaymentIntent, error)
	// RetrieveIntent IDでPaymentIntentを取得
	RetrieveIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
}
