package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"payment-relay/internal/domain/payment_intent"
)

// RequestValidator echo.Validatorの実装
// 検証エラーはValidationErrorに変換する
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator 新しいRequestValidatorを作成
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// エラーメッセージにはJSONのフィールド名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate 構造体を検証
func (v *RequestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	// 最初のエラーのみ返す
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return payment_intent.NewValidationError(fe.Field(), fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return payment_intent.NewValidationError(fe.Field(), fmt.Sprintf("%s must be a valid email address", fe.Field()))
	default:
		return payment_intent.NewValidationError(fe.Field(), fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
