package ledger

import (
	"ledger-server/internal/domain/ledger"
)

// TransferGiftRequest ギフト送信リクエスト
type TransferGiftRequest struct {
	IdempotencyKey string
	SenderID       string
	GiftID         string
	Quantity       int64
	RecipientIDs   []string
	WinAmount      int64 // 抽選ゲームの払い戻し（0可）
}

// TransferGiftResponse ギフト送信レスポンス
type TransferGiftResponse struct {
	EventID     string
	GrossValue  int64
	EarnedShare int64 // 受信者1人あたりの獲得ダイヤ
	Announced   bool
	SenderDelta ledger.AccountDelta
}

// ExchangeDiamondsRequest ダイヤ->コイン交換リクエスト
type ExchangeDiamondsRequest struct {
	IdempotencyKey string
	AccountID      string
	Amount         int64
}

// ExchangeDiamondsResponse ダイヤ->コイン交換レスポンス
type ExchangeDiamondsResponse struct {
	CoinsGained int64
	Delta       ledger.AccountDelta
}

// ExchangeSalaryRequest 給与変換リクエスト
type ExchangeSalaryRequest struct {
	IdempotencyKey string
	HostID         string
	Amount         int64
}

// ExchangeSalaryResponse 給与変換レスポンス
type ExchangeSalaryResponse struct {
	AgencyID       string
	AgentAccountID string
	Payout         int64
	HostDelta      ledger.AccountDelta
}

// AgencyTransferRequest エージェンシー送金リクエスト
type AgencyTransferRequest struct {
	IdempotencyKey string
	AgentID        string
	TargetID       string
	Amount         int64
}

// AgencyTransferResponse エージェンシー送金レスポンス
type AgencyTransferResponse struct {
	AgentDelta  ledger.AccountDelta
	TargetDelta ledger.AccountDelta
}

// PurchaseVipTierRequest VIPティア購入リクエスト
type PurchaseVipTierRequest struct {
	IdempotencyKey string
	AccountID      string
	TierID         string
}

// PurchaseVipTierResponse VIPティア購入レスポンス
type PurchaseVipTierResponse struct {
	Level int
	Frame string
	Cost  int64
	Delta ledger.AccountDelta
}

// PurchaseStoreItemRequest ストアアイテム購入リクエスト
// 価格と報酬はカタログから解決されるためアイテムIDのみを受け取る。
type PurchaseStoreItemRequest struct {
	IdempotencyKey string
	AccountID      string
	ItemID         string
}

// PurchaseStoreItemResponse ストアアイテム購入レスポンス
type PurchaseStoreItemResponse struct {
	ItemID string
	Delta  ledger.AccountDelta
}

// GrantBalanceRequest 管理者による残高調整リクエスト
type GrantBalanceRequest struct {
	IdempotencyKey string
	AccountID      string
	Field          string
	Delta          int64
	Reason         string
}

// GrantBalanceResponse 管理者による残高調整レスポンス
type GrantBalanceResponse struct {
	Delta ledger.AccountDelta
}

// GetBalanceRequest 残高取得リクエスト
type GetBalanceRequest struct {
	AccountID string
}

// GetBalanceResponse 残高取得レスポンス
type GetBalanceResponse struct {
	AccountID      string
	BalanceCents   int64
	Coins          int64
	Diamonds       int64
	Wealth         int64
	Charm          int64
	AgencyBalance  int64
	RechargePoints int64
	VipLevel       int
	Frame          string
}
