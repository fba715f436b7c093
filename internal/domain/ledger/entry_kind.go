package ledger

import (
	"fmt"
)

// EntryKind 台帳エントリ種別を表す値オブジェクト
type EntryKind string

const (
	EntryKindGift           EntryKind = "gift"            // ギフト送信
	EntryKindExchange       EntryKind = "exchange"        // ダイヤ->コイン交換
	EntryKindSalaryExchange EntryKind = "salary_exchange" // 給与->エージェンシー残高変換
	EntryKindAgencyTransfer EntryKind = "agency_transfer" // エージェンシー残高からの送金
	EntryKindVipPurchase    EntryKind = "vip_purchase"    // VIP購入
	EntryKindStorePurchase  EntryKind = "store_purchase"  // ストアアイテム購入
	EntryKindOrderDebit     EntryKind = "order_debit"     // 注文作成時のデビット
	EntryKindDepositCredit  EntryKind = "deposit_credit"  // 入金承認時のクレジット
	EntryKindAdminGrant     EntryKind = "admin_grant"     // 管理者付与・調整
)

// NewEntryKind 新しいEntryKindを作成
func NewEntryKind(s string) (EntryKind, error) {
	k := EntryKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("invalid entry kind: %s", s)
	}
	return k, nil
}

// String 文字列表現を返す
func (k EntryKind) String() string {
	return string(k)
}

// Valid 有効なエントリ種別かどうかを返す
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindGift, EntryKindExchange, EntryKindSalaryExchange, EntryKindAgencyTransfer,
		EntryKindVipPurchase, EntryKindStorePurchase, EntryKindOrderDebit,
		EntryKindDepositCredit, EntryKindAdminGrant:
		return true
	default:
		return false
	}
}
