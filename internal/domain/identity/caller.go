package identity

import "context"

// Caller 認証済みの呼び出し元
type Caller struct {
	UserID string
	Email  string
}

// NewCaller 新しいCallerを作成
func NewCaller(userID, email string) *Caller {
	return &Caller{UserID: userID, Email: email}
}

// Metadata プロセッサへ渡すトレーサビリティ用メタデータを返す
func (c *Caller) Metadata() map[string]string {
	return map[string]string{
		"user_id":    c.UserID,
		"user_email": c.Email,
	}
}

type callerContextKey struct{}

// WithCaller コンテキストに呼び出し元を設定
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// FromContext コンテキストから呼び出し元を取得
func FromContext(ctx context.Context) (*Caller, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(*Caller)
	return caller, ok && caller != nil
}
