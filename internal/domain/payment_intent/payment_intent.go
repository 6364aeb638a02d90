package payment_intent

// PaymentIntent 決済プロセッサが所有するPaymentIntentへの参照
// ローカルには保存せず、リクエストの間だけ保持する
type PaymentIntent struct {
	id           string
	clientSecret string
	status       IntentStatus
	amount       int64
	currency     string
}

// NewPaymentIntent 新しいPaymentIntent参照を作成
func NewPaymentIntent(id, clientSecret string, status IntentStatus, amount int64, currency string) *PaymentIntent {
	return &PaymentIntent{
		id:           id,
		clientSecret: clientSecret,
		status:       status,
		amount:       amount,
		currency:     currency,
	}
}

// ID PaymentIntent IDを返す
func (pi *PaymentIntent) ID() string {
	return pi.id
}

// ClientSecret クライアントシークレットを返す
func (pi *PaymentIntent) ClientSecret() string {
	return pi.clientSecret
}

// Status ステータスを返す
func (pi *PaymentIntent) Status() IntentStatus {
	return pi.status
}

// Amount 金額を返す（通貨の最小単位）
func (pi *PaymentIntent) Amount() int64 {
	return pi.amount
}

// Currency 通貨コードを返す
func (pi *PaymentIntent) Currency() string {
	return pi.currency
}

// IsSucceeded 決済が完了しているかどうかを返す
func (pi *PaymentIntent) IsSucceeded() bool {
	return pi.status.IsSucceeded()
}
