package gift

import (
	"time"
)

// Event ギフトイベントレコード
// 価値移動と同一バッチで書き込まれる不変のレコード。作成後の変更は行わない。
type Event struct {
	eventID          string
	giftID           string
	giftName         string
	senderID         string
	recipientIDs     []string
	quantity         int64
	grossValue       int64 // 送信者が支払った総額（コイン）
	recipientCredit  int64 // 受信者1人あたりのチャーム加算
	earnedShare      int64 // 受信者1人あたりのダイヤ加算（生産比率適用後）
	winAmount        int64 // 抽選ゲームからの払い戻し（上流で算出、0可）
	createdAt        time.Time
}

// NewEvent 新しいEventを作成
func NewEvent(
	eventID, giftID, giftName, senderID string,
	recipientIDs []string,
	quantity, grossValue, recipientCredit, earnedShare, winAmount int64,
) (*Event, error) {
	if eventID == "" || giftID == "" || senderID == "" {
		return nil, ErrInvalidGiftEvent
	}
	if len(recipientIDs) == 0 {
		return nil, ErrNoRecipients
	}
	if quantity <= 0 || grossValue <= 0 || recipientCredit <= 0 || earnedShare < 0 || winAmount < 0 {
		return nil, ErrInvalidGiftEvent
	}
	ids := make([]string, len(recipientIDs))
	copy(ids, recipientIDs)
	return &Event{
		eventID:         eventID,
		giftID:          giftID,
		giftName:        giftName,
		senderID:        senderID,
		recipientIDs:    ids,
		quantity:        quantity,
		grossValue:      grossValue,
		recipientCredit: recipientCredit,
		earnedShare:     earnedShare,
		winAmount:       winAmount,
		createdAt:       time.Now(),
	}, nil
}

// ReconstructEvent 永続化層からEventを復元
func ReconstructEvent(
	eventID, giftID, giftName, senderID string,
	recipientIDs []string,
	quantity, grossValue, recipientCredit, earnedShare, winAmount int64,
	createdAt time.Time,
) *Event {
	return &Event{
		eventID:         eventID,
		giftID:          giftID,
		giftName:        giftName,
		senderID:        senderID,
		recipientIDs:    recipientIDs,
		quantity:        quantity,
		grossValue:      grossValue,
		recipientCredit: recipientCredit,
		earnedShare:     earnedShare,
		winAmount:       winAmount,
		createdAt:       createdAt,
	}
}

// EventID イベントIDを返す
func (e *Event) EventID() string {
	return e.eventID
}

// GiftID ギフトIDを返す
func (e *Event) GiftID() string {
	return e.giftID
}

// GiftName ギフト名を返す
func (e *Event) GiftName() string {
	return e.giftName
}

// SenderID 送信者IDを返す
func (e *Event) SenderID() string {
	return e.senderID
}

// RecipientIDs 受信者ID一覧を返す
func (e *Event) RecipientIDs() []string {
	return e.recipientIDs
}

// Quantity 個数を返す
func (e *Event) Quantity() int64 {
	return e.quantity
}

// GrossValue 総額を返す
func (e *Event) GrossValue() int64 {
	return e.grossValue
}

// RecipientCredit 受信者1人あたりのチャーム加算を返す
func (e *Event) RecipientCredit() int64 {
	return e.recipientCredit
}

// EarnedShare 受信者1人あたりのダイヤ加算を返す
func (e *Event) EarnedShare() int64 {
	return e.earnedShare
}

// WinAmount 払い戻し額を返す
func (e *Event) WinAmount() int64 {
	return e.winAmount
}

// CreatedAt 作成日時を返す
func (e *Event) CreatedAt() time.Time {
	return e.createdAt
}
