package payment_intent

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrAmountNotInteger 金額を整数に変換できないエラー
	ErrAmountNotInteger = NewValidationError("amount", "amount must be an integer")
	// ErrAmountOutOfRange 金額がint64に収まらないエラー
	ErrAmountOutOfRange = NewValidationError("amount", "amount is out of range")
)

// ParseAmount 数字文字列の金額を整数に変換
// 前後の空白と符号は許容し、小数表記は受け付けない
func ParseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrAmountOutOfRange
		}
		return 0, ErrAmountNotInteger
	}
	return n, nil
}

// AmountFromFloat 数値の金額を整数に変換（小数部は0方向に切り捨て）
func AmountFromFloat(f float64) (int64, error) {
	if math.IsNaN(f) {
		return 0, ErrAmountNotInteger
	}
	// float64(math.MaxInt64)は2^63に丸められるため等号も範囲外
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, ErrAmountOutOfRange
	}
	return int64(f), nil
}

// ParseAmountNumber JSON数値リテラルの金額を整数に変換
// 整数表記はそのまま、小数・指数表記は切り捨てで変換する
func ParseAmountNumber(literal string) (int64, error) {
	n, err := strconv.ParseInt(literal, 10, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrAmountOutOfRange
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrAmountOutOfRange
		}
		return 0, ErrAmountNotInteger
	}
	return AmountFromFloat(f)
}
