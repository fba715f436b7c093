package handler

import (
	"strconv"

	"ledger-server/internal/domain/ledger"
)

// DeltaView 適用済みバッチのアカウント差分
// @Description 適用済みバッチのアカウント差分
type DeltaView struct {
	AccountID      string  `json:"account_id" example:"user123"`
	BalanceCents   string  `json:"balance_cents" example:"-999"`
	Coins          string  `json:"coins" example:"999"`
	Diamonds       string  `json:"diamonds" example:"0"`
	Wealth         string  `json:"wealth" example:"999"`
	Charm          string  `json:"charm" example:"0"`
	AgencyBalance  string  `json:"agency_balance" example:"0"`
	RechargePoints string  `json:"recharge_points" example:"0"`
	HostProduction string  `json:"host_production" example:"0"`
	VipLevel       *int    `json:"vip_level,omitempty" example:"2"`
	Frame          *string `json:"frame,omitempty" example:"silver.png"`
}

func toDeltaView(d ledger.AccountDelta) DeltaView {
	return DeltaView{
		AccountID:      d.AccountID,
		BalanceCents:   strconv.FormatInt(d.BalanceCents, 10),
		Coins:          strconv.FormatInt(d.Coins, 10),
		Diamonds:       strconv.FormatInt(d.Diamonds, 10),
		Wealth:         strconv.FormatInt(d.Wealth, 10),
		Charm:          strconv.FormatInt(d.Charm, 10),
		AgencyBalance:  strconv.FormatInt(d.AgencyBalance, 10),
		RechargePoints: strconv.FormatInt(d.RechargePoints, 10),
		HostProduction: strconv.FormatInt(d.HostProduction, 10),
		VipLevel:       d.VipLevel,
		Frame:          d.Frame,
	}
}

// TransferGiftRequest ギフト送信リクエスト
// @Description ギフト送信リクエスト
type TransferGiftRequest struct {
	IdempotencyKey string   `json:"idempotency_key" example:"b7c9d1f0-0000-4000-8000-000000000000"`
	GiftID         string   `json:"gift_id" example:"rose"`
	Quantity       int64    `json:"quantity" example:"3"`
	RecipientIDs   []string `json:"recipient_ids" example:"host1,host2"`
	WinAmount      string   `json:"win_amount,omitempty" example:"0"`
}

// TransferGiftResponse ギフト送信レスポンス
// @Description ギフト送信レスポンス
type TransferGiftResponse struct {
	EventID     string    `json:"event_id" example:"evt_123"`
	GrossValue  string    `json:"gross_value" example:"300"`
	EarnedShare string    `json:"earned_share" example:"105"`
	Announced   bool      `json:"announced" example:"false"`
	SenderDelta DeltaView `json:"sender_delta"`
}

// ExchangeDiamondsRequest ダイヤ->コイン交換リクエスト
// @Description ダイヤ->コイン交換リクエスト
type ExchangeDiamondsRequest struct {
	IdempotencyKey string `json:"idempotency_key" example:"b7c9d1f0-0000-4000-8000-000000000001"`
	Amount         string `json:"amount" example:"1000"`
}

// ExchangeDiamondsResponse ダイヤ->コイン交換レスポンス
// @Description ダイヤ->コイン交換レスポンス
type ExchangeDiamondsResponse struct {
	CoinsGained string    `json:"coins_gained" example:"500"`
	Delta       DeltaView `json:"delta"`
}

// ExchangeSalaryRequest 給与変換リクエスト
// @Description 給与変換リクエスト
type ExchangeSalaryRequest struct {
	IdempotencyKey string `json:"idempotency_key" example:"b7c9d1f0-0000-4000-8000-000000000002"`
	Amount         string `json:"amount" example:"70000"`
}

// ExchangeSalaryResponse 給与変換レスポンス
// @Description 給与変換レスポンス
type ExchangeSalaryResponse struct {
	AgencyID       string    `json:"agency_id" example:"agency1"`
	AgentAccountID string    `json:"agent_account_id" example:"agent1"`
	Payout         string    `json:"payout" example:"80000"`
	HostDelta      DeltaView `json:"host_delta"`
}

// AgencyTransferRequest エージェンシー送金リクエスト
// @Description エージェンシー送金リクエスト
type AgencyTransferRequest struct {
	IdempotencyKey string `json:"idempotency_key" example:"b7c9d1f0-0000-4000-8000-000000000003"`
	TargetID       string `json:"target_id" example:"host1"`
	Amount         string `json:"amount" example:"5000"`
}

// AgencyTransferResponse エージェンシー送金レスポンス
// @Description エージェンシー送金レスポンス
type AgencyTransferResponse struct {
	AgentDelta  DeltaView `json:"agent_delta"`
	TargetDelta DeltaView `json:"target_delta"`
}

// PurchaseVipTierRequest VIPティア購入リクエスト
// @Description VIPティア購入リクエスト
type PurchaseVipTierRequest struct {
	IdempotencyKey string `json:"idempotency_key" example:"b7c9d1f0-0000-4000-8000-000000000004"`
	TierID         string `json:"tier_id" example:"vip2"`
}

// PurchaseVipTierResponse VIPティア購入レスポンス
// @Description VIPティア購入レスポンス
type PurchaseVipTierResponse struct {
	Level int       `json:"level" example:"2"`
	Frame string    `json:"frame" example:"silver.png"`
	Cost  string    `json:"cost" example:"20000"`
	Delta DeltaView `json:"delta"`
}

// PurchaseStoreItemRequest ストアアイテム購入リクエスト
// @Description ストアアイテム購入リクエスト
type PurchaseStoreItemRequest struct {
	IdempotencyKey string `json:"idempotency_key" example:"b7c9d1f0-0000-4000-8000-000000000005"`
	ItemID         string `json:"item_id" example:"entry_comet"`
}

// PurchaseStoreItemResponse ストアアイテム購入レスポンス
// @Description ストアアイテム購入レスポンス
type PurchaseStoreItemResponse struct {
	ItemID string    `json:"item_id" example:"entry_comet"`
	Delta  DeltaView `json:"delta"`
}

// GrantBalanceRequest 管理者による残高調整リクエスト
// @Description 管理者による残高調整リクエスト
type GrantBalanceRequest struct {
	IdempotencyKey string `json:"idempotency_key" example:"b7c9d1f0-0000-4000-8000-000000000006"`
	Field          string `json:"field" example:"coins" enums:"balance_cents,coins,diamonds,wealth,charm,agency_balance,recharge_points,host_production"`
	Delta          string `json:"delta" example:"1000"`
	Reason         string `json:"reason" example:"イベント報酬"`
}

// GrantBalanceResponse 管理者による残高調整レスポンス
// @Description 管理者による残高調整レスポンス
type GrantBalanceResponse struct {
	Delta DeltaView `json:"delta"`
}

// BalanceResponse 残高レスポンス
// @Description 残高レスポンス
type BalanceResponse struct {
	AccountID      string `json:"account_id" example:"user123"`
	BalanceCents   string `json:"balance_cents" example:"2000"`
	Coins          string `json:"coins" example:"1500"`
	Diamonds       string `json:"diamonds" example:"300"`
	Wealth         string `json:"wealth" example:"5000"`
	Charm          string `json:"charm" example:"100"`
	AgencyBalance  string `json:"agency_balance" example:"0"`
	RechargePoints string `json:"recharge_points" example:"50"`
	VipLevel       int    `json:"vip_level" example:"2"`
	Frame          string `json:"frame" example:"silver.png"`
}
