package history

import (
	"time"

	"ledger-server/internal/domain/gift"
	"ledger-server/internal/domain/ledger"
)

// GetEntryHistoryRequest 台帳エントリ履歴取得リクエスト
type GetEntryHistoryRequest struct {
	AccountID string
	Limit     int
	Offset    int
	Kind      string // optional: "gift", "exchange", etc.
}

// EntryView 台帳エントリビュー
type EntryView struct {
	EntryID   string
	AccountID string
	Kind      string
	Amount    int64
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// GetEntryHistoryResponse 台帳エントリ履歴取得レスポンス
type GetEntryHistoryResponse struct {
	Entries []EntryView
	Limit   int
	Offset  int
}

// GetGiftHistoryRequest ギフトイベント履歴取得リクエスト
type GetGiftHistoryRequest struct {
	AccountID string
	Limit     int
	Offset    int
}

// GiftEventView ギフトイベントビュー
type GiftEventView struct {
	EventID         string
	GiftID          string
	GiftName        string
	SenderID        string
	RecipientIDs    []string
	Quantity        int64
	GrossValue      int64
	RecipientCredit int64
	EarnedShare     int64
	WinAmount       int64
	CreatedAt       time.Time
}

// GetGiftHistoryResponse ギフトイベント履歴取得レスポンス
type GetGiftHistoryResponse struct {
	Events []GiftEventView
	Limit  int
	Offset int
}

func toEntryView(e *ledger.Entry) EntryView {
	return EntryView{
		EntryID:   e.EntryID(),
		AccountID: e.AccountID(),
		Kind:      e.Kind().String(),
		Amount:    e.Amount(),
		Metadata:  e.Metadata(),
		CreatedAt: e.CreatedAt(),
	}
}

func toGiftEventView(e *gift.Event) GiftEventView {
	return GiftEventView{
		EventID:         e.EventID(),
		GiftID:          e.GiftID(),
		GiftName:        e.GiftName(),
		SenderID:        e.SenderID(),
		RecipientIDs:    e.RecipientIDs(),
		Quantity:        e.Quantity(),
		GrossValue:      e.GrossValue(),
		RecipientCredit: e.RecipientCredit(),
		EarnedShare:     e.EarnedShare(),
		WinAmount:       e.WinAmount(),
		CreatedAt:       e.CreatedAt(),
	}
}
