package handler

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"payment-relay/internal/domain/identity"
	"payment-relay/internal/domain/payment_intent"
	restmiddleware "payment-relay/internal/presentation/rest/middleware"
)

// bindAndValidate リクエストボディを読み込んで検証
// 読み込み失敗もValidationErrorとして返す
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		var validationErr *payment_intent.ValidationError
		if errors.As(err, &validationErr) {
			return validationErr
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return payment_intent.NewValidationError(typeErr.Field, fmt.Sprintf("%s must be %s", typeErr.Field, describeKind(typeErr.Type.Kind().String())))
		}
		return payment_intent.NewValidationError("body", "invalid request body")
	}
	return c.Validate(dst)
}

// describeKind 型名をメッセージ用に変換
func describeKind(kind string) string {
	switch kind {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		return "an integer"
	case "string":
		return "a string"
	default:
		return "a valid " + kind
	}
}

// requireCaller 認証ミドルウェアが設定した呼び出し元を取得
func requireCaller(c echo.Context) (*identity.Caller, error) {
	caller, ok := restmiddleware.CallerFrom(c)
	if !ok {
		return nil, payment_intent.NewAuthError("authentication required")
	}
	return caller, nil
}
