package service

import (
	"encoding/json"
	"fmt"

	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/agency"
	"ledger-server/internal/domain/gift"
	"ledger-server/internal/domain/ledger"
	"ledger-server/internal/domain/order"
	"ledger-server/internal/domain/reward"
	"ledger-server/internal/domain/settings"
	"ledger-server/internal/domain/store"
	"ledger-server/internal/domain/vip"
)

// AnnouncementTopic 全体アナウンスのトピック名
const AnnouncementTopic = "global-announcements"

// SettlementService 経済アクションをアトミックバッチへ変換するドメインサービス
// 純粋な計算のみを行い、永続化は一切行わない。
// 事前チェックは呼び出し元が渡したスナップショットに対するベストエフォートであり、
// 同時デビット競合の残余リスクはインクリメント設計が吸収する。
type SettlementService struct{}

// NewSettlementService 新しいSettlementServiceを作成
func NewSettlementService() *SettlementService {
	return &SettlementService{}
}

// GiftInput ギフト送信の入力
type GiftInput struct {
	IdempotencyKey string
	EventID        string
	Sender         *account.Account
	Gift           *gift.Gift
	Quantity       int64
	Recipients     []*account.Account
	WinAmount      int64 // 抽選ゲームの払い戻し（上流で算出、0可）
	Settings       *settings.EconomySettings
}

// SettleGift ギフト送信を単一バッチへ変換する
// 受信者ごとに charm += 単価×個数、diamonds += 同額×生産比率、
// 所属エージェンシーの累計生産も同額加算。送信者は coins -= 総額 - 払い戻し、
// wealth += 総額。ギフトイベント1件と、閾値超過時の全体アナウンスを同梱する。
func (s *SettlementService) SettleGift(in GiftInput) (*ledger.Batch, error) {
	if in.Sender == nil || in.Gift == nil || in.Settings == nil {
		return nil, ledger.ErrInvalidOperation
	}
	if in.Quantity <= 0 || in.Quantity > gift.MaxQuantity {
		return nil, account.ErrInvalidAmount
	}
	if in.WinAmount < 0 {
		return nil, account.ErrInvalidAmount
	}
	if len(in.Recipients) == 0 {
		return nil, gift.ErrNoRecipients
	}
	if in.Sender.IsBlocked() {
		return nil, account.ErrAccountBlocked
	}

	grossValue := in.Gift.UnitCost() * in.Quantity
	if !in.Sender.CanSpendCoins(grossValue) {
		return nil, account.ErrInsufficientBalance
	}

	batch, err := ledger.NewBatch(in.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	// 送信者: コインは総額デビット + 払い戻しクレジットの正味、富は総額加算
	if delta := -grossValue + in.WinAmount; delta != 0 {
		if err := batch.AddAccountIncrement(in.Sender.AccountID(), ledger.FieldCoins, delta); err != nil {
			return nil, err
		}
	}
	if err := batch.AddAccountIncrement(in.Sender.AccountID(), ledger.FieldWealth, grossValue); err != nil {
		return nil, err
	}

	recipientCredit := grossValue
	earnedShare := in.Settings.EarnedShare(recipientCredit)
	recipientIDs := make([]string, 0, len(in.Recipients))
	for _, rec := range in.Recipients {
		recipientIDs = append(recipientIDs, rec.AccountID())
		if err := batch.AddAccountIncrement(rec.AccountID(), ledger.FieldCharm, recipientCredit); err != nil {
			return nil, err
		}
		if earnedShare > 0 {
			if err := batch.AddAccountIncrement(rec.AccountID(), ledger.FieldDiamonds, earnedShare); err != nil {
				return nil, err
			}
			if rec.AgencyID() != "" {
				if err := batch.AddAccountIncrement(rec.AccountID(), ledger.FieldHostProduction, earnedShare); err != nil {
					return nil, err
				}
				if err := batch.AddAgencyIncrement(rec.AgencyID(), earnedShare); err != nil {
					return nil, err
				}
			}
		}
	}

	event, err := gift.NewEvent(
		in.EventID,
		in.Gift.GiftID(),
		in.Gift.Name(),
		in.Sender.AccountID(),
		recipientIDs,
		in.Quantity,
		grossValue,
		recipientCredit,
		earnedShare,
		in.WinAmount,
	)
	if err != nil {
		return nil, err
	}
	batch.AddGiftEvent(event)

	entry, err := ledger.NewEntry(in.IdempotencyKey, in.Sender.AccountID(), ledger.EntryKindGift, grossValue, map[string]interface{}{
		"gift_id":    in.Gift.GiftID(),
		"quantity":   in.Quantity,
		"recipients": recipientIDs,
		"win_amount": in.WinAmount,
	})
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)

	// 閾値超過時のみ全体アナウンスを同梱する
	threshold := in.Settings.AnnouncementThreshold()
	if threshold > 0 && (grossValue >= threshold || in.WinAmount >= threshold) {
		kind := "gift"
		amount := grossValue
		if in.WinAmount >= threshold {
			kind = "lucky_win"
			amount = in.WinAmount
		}
		payload, err := json.Marshal(map[string]interface{}{
			"type":          kind,
			"sender_id":     in.Sender.AccountID(),
			"gift_name":     in.Gift.Name(),
			"gift_icon":     in.Gift.Icon(),
			"recipient_ids": recipientIDs,
			"amount":        amount,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal announcement: %w", err)
		}
		if err := batch.AddOutboxMessage(AnnouncementTopic, in.Sender.AccountID(), string(payload)); err != nil {
			return nil, err
		}
	}

	return batch, nil
}

// SettleExchange ダイヤ->コイン交換を単一バッチへ変換する
func (s *SettlementService) SettleExchange(idempotencyKey string, acct *account.Account, amount int64, econ *settings.EconomySettings) (*ledger.Batch, error) {
	if acct == nil || econ == nil {
		return nil, ledger.ErrInvalidOperation
	}
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}
	if !acct.CanSpendDiamonds(amount) {
		return nil, account.ErrInsufficientBalance
	}
	coinsGained := econ.DiamondsToCoins(amount)
	if coinsGained <= 0 {
		return nil, account.ErrInvalidAmount
	}

	batch, err := ledger.NewBatch(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(acct.AccountID(), ledger.FieldDiamonds, -amount); err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(acct.AccountID(), ledger.FieldCoins, coinsGained); err != nil {
		return nil, err
	}

	entry, err := ledger.NewEntry(idempotencyKey, acct.AccountID(), ledger.EntryKindExchange, amount, map[string]interface{}{
		"coins_gained": coinsGained,
	})
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)
	return batch, nil
}

// SettleSalaryExchange 給与ダイヤ->エージェンシー残高変換を単一バッチへ変換する
// ホストのダイヤをデビットし、エージェンシーのエージェントアカウントへ
// 変換後の残高をクレジットする。
func (s *SettlementService) SettleSalaryExchange(idempotencyKey string, host *account.Account, ag *agency.Agency, amount int64, econ *settings.EconomySettings) (*ledger.Batch, error) {
	if host == nil || ag == nil || econ == nil {
		return nil, ledger.ErrInvalidOperation
	}
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}
	if !host.CanSpendDiamonds(amount) {
		return nil, account.ErrInsufficientBalance
	}
	payout := econ.SalaryToAgencyBalance(amount)
	if payout <= 0 {
		return nil, account.ErrInvalidAmount
	}

	batch, err := ledger.NewBatch(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(host.AccountID(), ledger.FieldDiamonds, -amount); err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(ag.AgentAccountID(), ledger.FieldAgencyBalance, payout); err != nil {
		return nil, err
	}

	entry, err := ledger.NewEntry(idempotencyKey, host.AccountID(), ledger.EntryKindSalaryExchange, amount, map[string]interface{}{
		"agency_id": ag.AgencyID(),
		"payout":    payout,
	})
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)
	return batch, nil
}

// SettleAgencyTransfer エージェンシー残高から対象アカウントへの送金を単一バッチへ変換する
// 対象のコインとチャージポイントが同額加算される。
func (s *SettlementService) SettleAgencyTransfer(idempotencyKey string, agent *account.Account, targetID string, amount int64) (*ledger.Batch, error) {
	if agent == nil || targetID == "" {
		return nil, ledger.ErrInvalidOperation
	}
	if amount <= 0 {
		return nil, account.ErrInvalidAmount
	}
	if !agent.Roles().Has(account.RoleAgencyAgent) {
		return nil, account.ErrAccountBlocked
	}
	if !agent.CanSpendAgencyBalance(amount) {
		return nil, account.ErrInsufficientBalance
	}

	batch, err := ledger.NewBatch(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(agent.AccountID(), ledger.FieldAgencyBalance, -amount); err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(targetID, ledger.FieldCoins, amount); err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(targetID, ledger.FieldRechargePoints, amount); err != nil {
		return nil, err
	}

	entry, err := ledger.NewEntry(idempotencyKey, agent.AccountID(), ledger.EntryKindAgencyTransfer, amount, map[string]interface{}{
		"target_id": targetID,
	})
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)
	return batch, nil
}

// SettleVipPurchase VIPティア購入を単一バッチへ変換する
// 既に同等以上のティアを保有している場合はErrTierAlreadyOwned。
func (s *SettlementService) SettleVipPurchase(idempotencyKey string, acct *account.Account, tier *vip.Tier) (*ledger.Batch, error) {
	if acct == nil || tier == nil {
		return nil, ledger.ErrInvalidOperation
	}
	if acct.VipLevel() >= tier.Level() {
		return nil, vip.ErrTierAlreadyOwned
	}
	if !acct.CanSpendCoins(tier.Cost()) {
		return nil, account.ErrInsufficientBalance
	}

	batch, err := ledger.NewBatch(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(acct.AccountID(), ledger.FieldCoins, -tier.Cost()); err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(acct.AccountID(), ledger.FieldWealth, tier.Cost()); err != nil {
		return nil, err
	}
	if err := batch.SetVip(acct.AccountID(), tier.Level(), tier.FrameURL()); err != nil {
		return nil, err
	}

	entry, err := ledger.NewEntry(idempotencyKey, acct.AccountID(), ledger.EntryKindVipPurchase, tier.Cost(), map[string]interface{}{
		"tier_id": tier.TierID(),
		"level":   tier.Level(),
	})
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)
	return batch, nil
}

// SettleStorePurchase ストアアイテム購入を単一バッチへ変換する
// カタログ価格のコインをデビットし、富を同額加算し、アイテムの報酬を付与する。
// 報酬がnilの場合はアイテムIDをそのまま所有アイテムへ追加する。
func (s *SettlementService) SettleStorePurchase(idempotencyKey string, acct *account.Account, item *store.Item) (*ledger.Batch, error) {
	if acct == nil || item == nil {
		return nil, ledger.ErrInvalidOperation
	}
	price := item.PriceCoins()
	if !acct.CanSpendCoins(price) {
		return nil, account.ErrInsufficientBalance
	}

	batch, err := ledger.NewBatch(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(acct.AccountID(), ledger.FieldCoins, -price); err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(acct.AccountID(), ledger.FieldWealth, price); err != nil {
		return nil, err
	}

	rw := item.Reward()
	metadata := map[string]interface{}{
		"item_id": item.ItemID(),
	}
	switch v := rw.(type) {
	case nil:
		if err := batch.AppendItem(acct.AccountID(), item.ItemID()); err != nil {
			return nil, err
		}
	case reward.Coins:
		if err := batch.AddAccountIncrement(acct.AccountID(), ledger.FieldCoins, v.Amount); err != nil {
			return nil, err
		}
		metadata["reward"] = rw.String()
	case reward.Frame:
		if err := batch.SetVip(acct.AccountID(), acct.VipLevel(), v.FrameURL); err != nil {
			return nil, err
		}
		metadata["reward"] = rw.String()
	default:
		// 期限付きアイテムとVIPティアは報酬トークンをそのまま所有アイテムに載せる
		if err := batch.AppendItem(acct.AccountID(), rw.String()); err != nil {
			return nil, err
		}
		metadata["reward"] = rw.String()
	}

	entry, err := ledger.NewEntry(idempotencyKey, acct.AccountID(), ledger.EntryKindStorePurchase, price, metadata)
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)
	return batch, nil
}

// SettleAdminGrant 管理者による残高調整を単一バッチへ変換する
// deltaは正負どちらも可。理由は必須。
func (s *SettlementService) SettleAdminGrant(idempotencyKey, accountID string, field ledger.BalanceField, delta int64, reason string) (*ledger.Batch, error) {
	if accountID == "" || reason == "" {
		return nil, ledger.ErrInvalidOperation
	}
	if delta == 0 {
		return nil, account.ErrInvalidAmount
	}

	batch, err := ledger.NewBatch(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(accountID, field, delta); err != nil {
		return nil, err
	}

	amount := delta
	if amount < 0 {
		amount = -amount
	}
	entry, err := ledger.NewEntry(idempotencyKey, accountID, ledger.EntryKindAdminGrant, amount, map[string]interface{}{
		"field":  field.String(),
		"delta":  delta,
		"reason": reason,
	})
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)
	return batch, nil
}

// SettleOrderDebit 商品注文の作成時デビットを単一バッチへ変換する
func (s *SettlementService) SettleOrderDebit(idempotencyKey string, acct *account.Account, o *order.Order) (*ledger.Batch, error) {
	if acct == nil || o == nil || !o.DebitsAtCreation() {
		return nil, ledger.ErrInvalidOperation
	}
	if !acct.CanSpendBalance(o.ValueCents()) {
		return nil, account.ErrInsufficientBalance
	}

	batch, err := ledger.NewBatch(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(acct.AccountID(), ledger.FieldBalanceCents, -o.ValueCents()); err != nil {
		return nil, err
	}

	entry, err := ledger.NewEntry(idempotencyKey, acct.AccountID(), ledger.EntryKindOrderDebit, o.ValueCents(), map[string]interface{}{
		"order_id": o.OrderID(),
	})
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)
	return batch, nil
}

// SettleDepositCredit 入金注文の承認時クレジットを単一バッチへ変換する
func (s *SettlementService) SettleDepositCredit(idempotencyKey string, o *order.Order) (*ledger.Batch, error) {
	if o == nil || !o.CreditsOnApproval() {
		return nil, ledger.ErrInvalidOperation
	}

	batch, err := ledger.NewBatch(idempotencyKey)
	if err != nil {
		return nil, err
	}
	if err := batch.AddAccountIncrement(o.AccountID(), ledger.FieldBalanceCents, o.ValueCents()); err != nil {
		return nil, err
	}

	entry, err := ledger.NewEntry(idempotencyKey, o.AccountID(), ledger.EntryKindDepositCredit, o.ValueCents(), map[string]interface{}{
		"order_id": o.OrderID(),
	})
	if err != nil {
		return nil, err
	}
	batch.AddEntry(entry)
	return batch, nil
}
