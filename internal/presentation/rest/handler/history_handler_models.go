package handler

import (
	"strconv"

	historyapp "ledger-server/internal/application/history"
)

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

// EntryItem 台帳エントリアイテム
// @Description 台帳エントリアイテム
type EntryItem struct {
	EntryID   string                 `json:"entry_id" example:"ent_123"`
	AccountID string                 `json:"account_id" example:"user123"`
	Kind      string                 `json:"kind" example:"gift"`
	Amount    string                 `json:"amount" example:"-300"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt string                 `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// EntryHistoryResponse 台帳エントリ履歴レスポンス
// @Description 台帳エントリ履歴レスポンス
type EntryHistoryResponse struct {
	Entries []EntryItem `json:"entries"`
	Limit   int         `json:"limit" example:"50"`
	Offset  int         `json:"offset" example:"0"`
}

// GiftEventItem ギフトイベントアイテム
// @Description ギフトイベントアイテム
type GiftEventItem struct {
	EventID         string   `json:"event_id" example:"evt_123"`
	GiftID          string   `json:"gift_id" example:"rose"`
	GiftName        string   `json:"gift_name" example:"Rose"`
	SenderID        string   `json:"sender_id" example:"user123"`
	RecipientIDs    []string `json:"recipient_ids" example:"host1,host2"`
	Quantity        string   `json:"quantity" example:"3"`
	GrossValue      string   `json:"gross_value" example:"300"`
	RecipientCredit string   `json:"recipient_credit" example:"300"`
	EarnedShare     string   `json:"earned_share" example:"210"`
	WinAmount       string   `json:"win_amount" example:"0"`
	CreatedAt       string   `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// GiftHistoryResponse ギフトイベント履歴レスポンス
// @Description ギフトイベント履歴レスポンス
type GiftHistoryResponse struct {
	Events []GiftEventItem `json:"events"`
	Limit  int             `json:"limit" example:"50"`
	Offset int             `json:"offset" example:"0"`
}

func toEntryItem(v historyapp.EntryView) EntryItem {
	return EntryItem{
		EntryID:   v.EntryID,
		AccountID: v.AccountID,
		Kind:      v.Kind,
		Amount:    formatInt64(v.Amount),
		Metadata:  v.Metadata,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toGiftEventItem(v historyapp.GiftEventView) GiftEventItem {
	return GiftEventItem{
		EventID:         v.EventID,
		GiftID:          v.GiftID,
		GiftName:        v.GiftName,
		SenderID:        v.SenderID,
		RecipientIDs:    v.RecipientIDs,
		Quantity:        formatInt64(v.Quantity),
		GrossValue:      formatInt64(v.GrossValue),
		RecipientCredit: formatInt64(v.RecipientCredit),
		EarnedShare:     formatInt64(v.EarnedShare),
		WinAmount:       formatInt64(v.WinAmount),
		CreatedAt:       v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
