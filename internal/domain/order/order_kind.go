package order

import (
	"fmt"
)

// Kind 注文種別を表す値オブジェクト
type Kind string

const (
	KindProduct Kind = "product" // 商品注文（作成時にウォレットをデビット）
	KindDeposit Kind = "deposit" // 入金申請（承認時にウォレットをクレジット）
)

// NewKind 新しいKindを作成
func NewKind(s string) (Kind, error) {
	switch s {
	case "product", "deposit":
		return Kind(s), nil
	default:
		return "", fmt.Errorf("invalid order kind: %s", s)
	}
}

// String 文字列表現を返す
func (k Kind) String() string {
	return string(k)
}

// Valid 有効な注文種別かどうかを返す
func (k Kind) Valid() bool {
	return k == KindProduct || k == KindDeposit
}
