package ledger

import (
	"fmt"
)

// BalanceField アカウントの数値フィールドを表す値オブジェクト
type BalanceField string

const (
	FieldBalanceCents   BalanceField = "balance_cents"   // ウォレット残高（USDセント）
	FieldCoins          BalanceField = "coins"           // ソフト通貨
	FieldDiamonds       BalanceField = "diamonds"        // ハード通貨
	FieldWealth         BalanceField = "wealth"          // 富ポイント
	FieldCharm          BalanceField = "charm"           // チャームポイント
	FieldAgencyBalance  BalanceField = "agency_balance"  // エージェンシー残高
	FieldRechargePoints BalanceField = "recharge_points" // チャージポイント
	FieldHostProduction BalanceField = "host_production" // ホスト累計生産
)

// NewBalanceField 新しいBalanceFieldを作成
func NewBalanceField(s string) (BalanceField, error) {
	f := BalanceField(s)
	if !f.Valid() {
		return "", fmt.Errorf("invalid balance field: %s", s)
	}
	return f, nil
}

// String 文字列表現を返す
func (f BalanceField) String() string {
	return string(f)
}

// Valid 有効なフィールドかどうかを返す
func (f BalanceField) Valid() bool {
	switch f {
	case FieldBalanceCents, FieldCoins, FieldDiamonds, FieldWealth, FieldCharm,
		FieldAgencyBalance, FieldRechargePoints, FieldHostProduction:
		return true
	default:
		return false
	}
}

// Monotone 単調非減少フィールドかどうかを返す
// プレステージ系カウンターは減算できない。
func (f BalanceField) Monotone() bool {
	switch f {
	case FieldWealth, FieldCharm, FieldRechargePoints, FieldHostProduction:
		return true
	default:
		return false
	}
}
