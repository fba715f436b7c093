package ledger

import (
	"errors"
	"regexp"
	"time"
)

var (
	// ErrInvalidEntryID エントリIDが無効
	ErrInvalidEntryID = errors.New("invalid entry id")
	// ErrInvalidAccountID アカウントIDが無効
	ErrInvalidAccountID = errors.New("invalid account id")
	// ErrInvalidAmount 金額が無効
	ErrInvalidAmount = errors.New("invalid amount")
)

var entryIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,255}$`)

// Entry 台帳エントリ
// 価値移動ごとに1件、バッチと同時に書き込まれる不変のレコード。
// 作成後の変更は一切行わない。
type Entry struct {
	entryID   string
	accountID string // 起点アカウント
	kind      EntryKind
	amount    int64 // 移動した総額（操作の主通貨単位）
	metadata  map[string]interface{}
	createdAt time.Time
}

// NewEntry 新しいEntryを作成
func NewEntry(entryID, accountID string, kind EntryKind, amount int64, metadata map[string]interface{}) (*Entry, error) {
	if !entryIDRegex.MatchString(entryID) {
		return nil, ErrInvalidEntryID
	}
	if !entryIDRegex.MatchString(accountID) {
		return nil, ErrInvalidAccountID
	}
	if !kind.Valid() {
		return nil, ErrInvalidEntryKind
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return &Entry{
		entryID:   entryID,
		accountID: accountID,
		kind:      kind,
		amount:    amount,
		metadata:  metadata,
		createdAt: time.Now(),
	}, nil
}

// ReconstructEntry 永続化層からEntryを復元
func ReconstructEntry(entryID, accountID string, kind EntryKind, amount int64, metadata map[string]interface{}, createdAt time.Time) *Entry {
	return &Entry{
		entryID:   entryID,
		accountID: accountID,
		kind:      kind,
		amount:    amount,
		metadata:  metadata,
		createdAt: createdAt,
	}
}

// EntryID エントリIDを返す
func (e *Entry) EntryID() string {
	return e.entryID
}

// AccountID 起点アカウントIDを返す
func (e *Entry) AccountID() string {
	return e.accountID
}

// Kind エントリ種別を返す
func (e *Entry) Kind() EntryKind {
	return e.kind
}

// Amount 金額を返す
func (e *Entry) Amount() int64 {
	return e.amount
}

// Metadata メタデータを返す
func (e *Entry) Metadata() map[string]interface{} {
	return e.metadata
}

// CreatedAt 作成日時を返す
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

// MustNewEntry テスト用ヘルパー: NewEntryを呼び出し、エラーが発生した場合はpanicする
func MustNewEntry(entryID, accountID string, kind EntryKind, amount int64, metadata map[string]interface{}) *Entry {
	e, err := NewEntry(entryID, accountID, kind, amount, metadata)
	if err != nil {
		panic(err)
	}
	return e
}
