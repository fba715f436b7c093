package ledger

import (
	"regexp"

	"ledger-server/internal/domain/gift"
)

var idempotencyKeyRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,255}$`)

// AccountIncrement アカウントの数値フィールドへの可換なインクリメント
// 絶対値の書き込みではなく必ず差分で表現する（同時書き込み下での収束条件）。
type AccountIncrement struct {
	AccountID string
	Field     BalanceField
	Delta     int64
}

// AgencyIncrement エージェンシー累計生産へのインクリメント
type AgencyIncrement struct {
	AgencyID string
	Delta    int64
}

// AccountFieldSet アカウントの非数値フィールドの絶対書き込み
// 残高系フィールドには使用できない。
type AccountFieldSet struct {
	AccountID string
	VipLevel  int
	Frame     string
}

// AccountItemAppend 所有アイテム集合への重複安全な追加
type AccountItemAppend struct {
	AccountID string
	ItemID    string
}

// OutboxMessage バッチと同一トランザクションで書き込まれる送信待ちメッセージ
type OutboxMessage struct {
	Topic      string
	MessageKey string
	Payload    string
}

// Batch 単一のアトミックバッチ
// 含まれる全ミューテーションは不可分に適用される。冪等性キーの重複は
// ストアがErrDuplicateEntryで拒否し、何も適用しない。
type Batch struct {
	idempotencyKey string
	entries        []*Entry
	accountIncs    []AccountIncrement
	agencyIncs     []AgencyIncrement
	fieldSets      []AccountFieldSet
	itemAppends    []AccountItemAppend
	giftEvents     []*gift.Event
	outbox         []OutboxMessage
}

// NewBatch 新しいBatchを作成
func NewBatch(idempotencyKey string) (*Batch, error) {
	if !idempotencyKeyRegex.MatchString(idempotencyKey) {
		return nil, ErrInvalidIdempotencyKey
	}
	return &Batch{idempotencyKey: idempotencyKey}, nil
}

// IdempotencyKey 冪等性キーを返す
func (b *Batch) IdempotencyKey() string {
	return b.idempotencyKey
}

// AddAccountIncrement アカウントフィールドへのインクリメントを追加
func (b *Batch) AddAccountIncrement(accountID string, field BalanceField, delta int64) error {
	if accountID == "" || !field.Valid() {
		return ErrInvalidOperation
	}
	if delta == 0 {
		return ErrInvalidOperation
	}
	if field.Monotone() && delta < 0 {
		return ErrMonotoneViolation
	}
	b.accountIncs = append(b.accountIncs, AccountIncrement{AccountID: accountID, Field: field, Delta: delta})
	return nil
}

// AddAgencyIncrement エージェンシー累計生産へのインクリメントを追加
func (b *Batch) AddAgencyIncrement(agencyID string, delta int64) error {
	if agencyID == "" || delta <= 0 {
		return ErrInvalidOperation
	}
	b.agencyIncs = append(b.agencyIncs, AgencyIncrement{AgencyID: agencyID, Delta: delta})
	return nil
}

// SetVip VIPレベルとフレームの書き込みを追加
func (b *Batch) SetVip(accountID string, level int, frame string) error {
	if accountID == "" || level <= 0 {
		return ErrInvalidOperation
	}
	b.fieldSets = append(b.fieldSets, AccountFieldSet{AccountID: accountID, VipLevel: level, Frame: frame})
	return nil
}

// AppendItem 所有アイテムへの追加を追加
func (b *Batch) AppendItem(accountID, itemID string) error {
	if accountID == "" || itemID == "" {
		return ErrInvalidOperation
	}
	b.itemAppends = append(b.itemAppends, AccountItemAppend{AccountID: accountID, ItemID: itemID})
	return nil
}

// AddEntry 台帳エントリレコードを追加
func (b *Batch) AddEntry(entry *Entry) {
	b.entries = append(b.entries, entry)
}

// AddGiftEvent ギフトイベントレコードを追加
func (b *Batch) AddGiftEvent(event *gift.Event) {
	b.giftEvents = append(b.giftEvents, event)
}

// AddOutboxMessage 送信待ちメッセージを追加
func (b *Batch) AddOutboxMessage(topic, key, payload string) error {
	if topic == "" || payload == "" {
		return ErrInvalidOperation
	}
	b.outbox = append(b.outbox, OutboxMessage{Topic: topic, MessageKey: key, Payload: payload})
	return nil
}

// Empty ミューテーションを一つも含まないかどうかを返す
func (b *Batch) Empty() bool {
	return len(b.accountIncs) == 0 && len(b.agencyIncs) == 0 &&
		len(b.fieldSets) == 0 && len(b.itemAppends) == 0
}

// AccountIncrements アカウントインクリメント一覧を返す
func (b *Batch) AccountIncrements() []AccountIncrement {
	return b.accountIncs
}

// AgencyIncrements エージェンシーインクリメント一覧を返す
func (b *Batch) AgencyIncrements() []AgencyIncrement {
	return b.agencyIncs
}

// FieldSets フィールド書き込み一覧を返す
func (b *Batch) FieldSets() []AccountFieldSet {
	return b.fieldSets
}

// ItemAppends アイテム追加一覧を返す
func (b *Batch) ItemAppends() []AccountItemAppend {
	return b.itemAppends
}

// Entries 台帳エントリ一覧を返す
func (b *Batch) Entries() []*Entry {
	return b.entries
}

// GiftEvents ギフトイベント一覧を返す
func (b *Batch) GiftEvents() []*gift.Event {
	return b.giftEvents
}

// Outbox 送信待ちメッセージ一覧を返す
func (b *Batch) Outbox() []OutboxMessage {
	return b.outbox
}

// TouchedAccountIDs バッチが変更する全アカウントIDを返す（重複なし、順序は出現順）
func (b *Batch) TouchedAccountIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, inc := range b.accountIncs {
		add(inc.AccountID)
	}
	for _, fs := range b.fieldSets {
		add(fs.AccountID)
	}
	for _, ap := range b.itemAppends {
		add(ap.AccountID)
	}
	return ids
}

// DeltaFor 指定アカウントに対するバッチの正味差分を返す
// 楽観的プロジェクションへそのまま適用できる。
func (b *Batch) DeltaFor(accountID string) AccountDelta {
	d := AccountDelta{AccountID: accountID}
	for _, inc := range b.accountIncs {
		if inc.AccountID != accountID {
			continue
		}
		switch inc.Field {
		case FieldBalanceCents:
			d.BalanceCents += inc.Delta
		case FieldCoins:
			d.Coins += inc.Delta
		case FieldDiamonds:
			d.Diamonds += inc.Delta
		case FieldWealth:
			d.Wealth += inc.Delta
		case FieldCharm:
			d.Charm += inc.Delta
		case FieldAgencyBalance:
			d.AgencyBalance += inc.Delta
		case FieldRechargePoints:
			d.RechargePoints += inc.Delta
		case FieldHostProduction:
			d.HostProduction += inc.Delta
		}
	}
	for _, fs := range b.fieldSets {
		if fs.AccountID == accountID {
			level := fs.VipLevel
			frame := fs.Frame
			d.VipLevel = &level
			d.Frame = &frame
		}
	}
	return d
}

// MustNewBatch テスト用ヘルパー: NewBatchを呼び出し、エラーが発生した場合はpanicする
func MustNewBatch(idempotencyKey string) *Batch {
	b, err := NewBatch(idempotencyKey)
	if err != nil {
		panic(err)
	}
	return b
}
