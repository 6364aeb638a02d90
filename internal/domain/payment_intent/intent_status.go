package payment_intent

import (
	"fmt"
)

// IntentStatus 決済プロセッサ側のPaymentIntentステータスを表す値オブジェクト
type IntentStatus string

const (
	IntentStatusRequiresPaymentMethod IntentStatus = "requires_payment_method" // 支払い方法待ち
	IntentStatusRequiresConfirmation  IntentStatus = "requires_confirmation"   // 確定待ち
	IntentStatusRequiresAction        IntentStatus = "requires_action"         // 追加認証待ち
	IntentStatusProcessing            IntentStatus = "processing"              // 処理中
	IntentStatusRequiresCapture       IntentStatus = "requires_capture"        // キャプチャ待ち
	IntentStatusCanceled              IntentStatus = "canceled"                // キャンセル
	IntentStatusSucceeded             IntentStatus = "succeeded"               // 成功
)

// NewIntentStatus 新しいIntentStatusを作成
func NewIntentStatus(s string) (IntentStatus, error) {
	status := IntentStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid intent status: %s", s)
	}
	return status, nil
}

// String 文字列表現を返す
func (s IntentStatus) String() string {
	return string(s)
}

// Valid 既知のステータスかどうかを返す
func (s IntentStatus) Valid() bool {
	switch s {
	case IntentStatusRequiresPaymentMethod,
		IntentStatusRequiresConfirmation,
		IntentStatusRequiresAction,
		IntentStatusProcessing,
		IntentStatusRequiresCapture,
		IntentStatusCanceled,
		IntentStatusSucceeded:
		return true
	default:
		return false
	}
}

// IsSucceeded 決済が完了しているかどうかを返す
func (s IntentStatus) IsSucceeded() bool {
	return s == IntentStatusSucceeded
}

// IsPending プロセッサ側でまだ状態が進む可能性があるかどうかを返す
func (s IntentStatus) IsPending() bool {
	switch s {
	case IntentStatusProcessing, IntentStatusRequiresAction, IntentStatusRequiresCapture, IntentStatusRequiresConfirmation:
		return true
	default:
		return false
	}
}
