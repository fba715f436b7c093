package order

import (
	"regexp"
	"time"
)

var orderIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,255}$`)

// MaxValueCents 注文金額の上限（USDセント）
const MaxValueCents = 10_000_000_000

// Order 注文エンティティ
// ステータス遷移は pending -> completed | rejected の一度きり。
// 残高の変更は遷移（および商品注文の作成時デビット）に紐づき、それ以外では発生しない。
type Order struct {
	orderID         string
	accountID       string
	kind            Kind
	valueCents      int64 // 請求額（USDセント）
	resultingCredit int64 // 履行時に付与されるコイン数（商品注文のみ）
	productName     string
	playerID        string // 入金先のゲーム内ID（商品注文のみ、任意）
	screenshot      string // 入金証明のURL（入金注文のみ、任意）
	status          Status
	adminNote       string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewOrder 新しいOrderエンティティをpending状態で作成
func NewOrder(orderID, accountID string, kind Kind, valueCents, resultingCredit int64, productName, playerID, screenshot string) (*Order, error) {
	if !orderIDRegex.MatchString(orderID) {
		return nil, ErrInvalidOrderID
	}
	if !orderIDRegex.MatchString(accountID) {
		return nil, ErrInvalidAccountID
	}
	if !kind.Valid() {
		return nil, ErrInvalidOrderKind
	}
	if valueCents <= 0 || valueCents > MaxValueCents {
		return nil, ErrInvalidOrderValue
	}
	if kind == KindProduct && resultingCredit <= 0 {
		return nil, ErrInvalidOrderValue
	}
	now := time.Now()
	return &Order{
		orderID:         orderID,
		accountID:       accountID,
		kind:            kind,
		valueCents:      valueCents,
		resultingCredit: resultingCredit,
		productName:     productName,
		playerID:        playerID,
		screenshot:      screenshot,
		status:          StatusPending,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructOrder 永続化層からOrderを復元
func ReconstructOrder(
	orderID, accountID string,
	kind Kind,
	valueCents, resultingCredit int64,
	productName, playerID, screenshot string,
	status Status,
	adminNote string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		orderID:         orderID,
		accountID:       accountID,
		kind:            kind,
		valueCents:      valueCents,
		resultingCredit: resultingCredit,
		productName:     productName,
		playerID:        playerID,
		screenshot:      screenshot,
		status:          status,
		adminNote:       adminNote,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// OrderID 注文IDを返す
func (o *Order) OrderID() string {
	return o.orderID
}

// AccountID 依頼者のアカウントIDを返す
func (o *Order) AccountID() string {
	return o.accountID
}

// Kind 注文種別を返す
func (o *Order) Kind() Kind {
	return o.kind
}

// ValueCents 請求額（USDセント）を返す
func (o *Order) ValueCents() int64 {
	return o.valueCents
}

// ResultingCredit 履行時に付与されるコイン数を返す
func (o *Order) ResultingCredit() int64 {
	return o.resultingCredit
}

// ProductName 商品名を返す
func (o *Order) ProductName() string {
	return o.productName
}

// PlayerID 入金先のゲーム内IDを返す
func (o *Order) PlayerID() string {
	return o.playerID
}

// Screenshot 入金証明URLを返す
func (o *Order) Screenshot() string {
	return o.screenshot
}

// Status ステータスを返す
func (o *Order) Status() Status {
	return o.status
}

// AdminNote 管理者メモを返す
func (o *Order) AdminNote() string {
	return o.adminNote
}

// CreatedAt 作成日時を返す
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt 更新日時を返す
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Approve 注文を完了状態に遷移させる
// 終端状態からの再遷移はErrOrderAlreadyTerminal。
func (o *Order) Approve(note string) error {
	if o.status.Terminal() {
		return ErrOrderAlreadyTerminal
	}
	o.status = StatusCompleted
	o.adminNote = note
	o.updatedAt = time.Now()
	return nil
}

// Reject 注文を却下状態に遷移させる。理由のメモは必須。
func (o *Order) Reject(note string) error {
	if o.status.Terminal() {
		return ErrOrderAlreadyTerminal
	}
	if note == "" {
		return ErrNoteRequired
	}
	o.status = StatusRejected
	o.adminNote = note
	o.updatedAt = time.Now()
	return nil
}

// DebitsAtCreation 作成時にウォレット残高をデビットする注文かどうかを返す
func (o *Order) DebitsAtCreation() bool {
	return o.kind == KindProduct
}

// CreditsOnApproval 承認時にウォレット残高をクレジットする注文かどうかを返す
func (o *Order) CreditsOnApproval() bool {
	return o.kind == KindDeposit
}

// MustNewOrder テスト用ヘルパー: NewOrderを呼び出し、エラーが発生した場合はpanicする
func MustNewOrder(orderID, accountID string, kind Kind, valueCents, resultingCredit int64, productName, playerID, screenshot string) *Order {
	o, err := NewOrder(orderID, accountID, kind, valueCents, resultingCredit, productName, playerID, screenshot)
	if err != nil {
		panic(err)
	}
	return o
}
