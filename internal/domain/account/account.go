package account

import (
	"errors"
	"regexp"
)

var (
	// ErrInvalidAccountID アカウントIDが無効
	ErrInvalidAccountID = errors.New("invalid account id")
	// ErrBalanceOutOfRange 残高が範囲外
	ErrBalanceOutOfRange = errors.New("balance out of range")
	// ErrAmountTooLarge 金額が大きすぎる
	ErrAmountTooLarge = errors.New("amount too large")
)

const (
	// MaxAmount 最大金額 (10兆)
	MaxAmount = 10_000_000_000_000
	// MinBalance 最小残高 (-10兆: 同時デビット競合による一時的なマイナス許容のため)
	MinBalance = -10_000_000_000_000
)

var accountIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)

// Account アカウントエンティティ
// 残高フィールドの永続的な変更は必ずLedger Engineのバッチ経由で行う。
// エンティティ自身のミューテーションはローカルプロジェクション用。
type Account struct {
	accountID      string
	balanceCents   int64 // ウォレット残高（USDセント、整数値）
	coins          int64 // ソフト通貨（コイン）
	diamonds       int64 // ハード通貨（ダイヤ）
	wealth         int64 // 富ポイント（送信側プレステージ、単調非減少）
	charm          int64 // チャームポイント（受信側プレステージ、単調非減少）
	agencyBalance  int64 // エージェンシー残高（エージェントロールのみ）
	rechargePoints int64 // チャージポイント（単調非減少）
	vipLevel       int   // VIPレベル（0 = 非VIP）
	frame          string
	agencyID       string // 所属エージェンシーID（弱参照、空可）
	roles          RoleSet
	customRates    map[string]int64 // 商品ID -> コイン換算レートの上書き
	version        int              // 楽観的ロック用
}

// NewAccount 新しいAccountエンティティを作成
func NewAccount(accountID string, roles RoleSet) (*Account, error) {
	if !accountIDRegex.MatchString(accountID) {
		return nil, ErrInvalidAccountID
	}
	if roles == nil {
		roles = NewRoleSet()
	}
	return &Account{
		accountID:   accountID,
		roles:       roles,
		customRates: make(map[string]int64),
	}, nil
}

// Reconstruct 永続化層からAccountエンティティを復元
func Reconstruct(
	accountID string,
	balanceCents, coins, diamonds, wealth, charm, agencyBalance, rechargePoints int64,
	vipLevel int,
	frame string,
	agencyID string,
	roles RoleSet,
	customRates map[string]int64,
	version int,
) (*Account, error) {
	if !accountIDRegex.MatchString(accountID) {
		return nil, ErrInvalidAccountID
	}
	for _, b := range []int64{balanceCents, coins, diamonds, wealth, charm, agencyBalance, rechargePoints} {
		if b < MinBalance || b > MaxAmount {
			return nil, ErrBalanceOutOfRange
		}
	}
	if roles == nil {
		roles = NewRoleSet()
	}
	if customRates == nil {
		customRates = make(map[string]int64)
	}
	return &Account{
		accountID:      accountID,
		balanceCents:   balanceCents,
		coins:          coins,
		diamonds:       diamonds,
		wealth:         wealth,
		charm:          charm,
		agencyBalance:  agencyBalance,
		rechargePoints: rechargePoints,
		vipLevel:       vipLevel,
		frame:          frame,
		agencyID:       agencyID,
		roles:          roles,
		customRates:    customRates,
		version:        version,
	}, nil
}

// AccountID アカウントIDを返す
func (a *Account) AccountID() string {
	return a.accountID
}

// BalanceCents ウォレット残高（USDセント）を返す
func (a *Account) BalanceCents() int64 {
	return a.balanceCents
}

// Coins コイン残高を返す
func (a *Account) Coins() int64 {
	return a.coins
}

// Diamonds ダイヤ残高を返す
func (a *Account) Diamonds() int64 {
	return a.diamonds
}

// Wealth 富ポイントを返す
func (a *Account) Wealth() int64 {
	return a.wealth
}

// Charm チャームポイントを返す
func (a *Account) Charm() int64 {
	return a.charm
}

// AgencyBalance エージェンシー残高を返す
func (a *Account) AgencyBalance() int64 {
	return a.agencyBalance
}

// RechargePoints チャージポイントを返す
func (a *Account) RechargePoints() int64 {
	return a.rechargePoints
}

// VipLevel VIPレベルを返す
func (a *Account) VipLevel() int {
	return a.vipLevel
}

// IsVip VIPかどうかを返す
func (a *Account) IsVip() bool {
	return a.vipLevel > 0
}

// Frame フレームURLを返す
func (a *Account) Frame() string {
	return a.frame
}

// AgencyID 所属エージェンシーIDを返す
func (a *Account) AgencyID() string {
	return a.agencyID
}

// Roles ロール集合を返す
func (a *Account) Roles() RoleSet {
	return a.roles
}

// CustomRates 商品個別のコイン換算レート上書きを返す
func (a *Account) CustomRates() map[string]int64 {
	return a.customRates
}

// Version バージョンを返す（楽観的ロック用）
func (a *Account) Version() int {
	return a.version
}

// IsBlocked ブロック済みかどうかを返す
func (a *Account) IsBlocked() bool {
	return a.roles.Has(RoleBlocked)
}

// IsAdmin 管理者かどうかを返す
func (a *Account) IsAdmin() bool {
	return a.roles.Has(RoleAdmin)
}

// CoinRateFor 商品に適用するUSD->コイン換算レートを返す
// 管理者が個別レートを設定している場合はそちらを優先する。
func (a *Account) CoinRateFor(productID string, globalRate int64) int64 {
	if rate, ok := a.customRates[productID]; ok {
		return rate
	}
	return globalRate
}

// CanSpendCoins コインを消費できるかを返す（クライアント観測の事前チェック）
func (a *Account) CanSpendCoins(amount int64) bool {
	return amount > 0 && a.coins >= amount
}

// CanSpendDiamonds ダイヤを消費できるかを返す
func (a *Account) CanSpendDiamonds(amount int64) bool {
	return amount > 0 && a.diamonds >= amount
}

// CanSpendBalance ウォレット残高を消費できるかを返す
func (a *Account) CanSpendBalance(amountCents int64) bool {
	return amountCents > 0 && a.balanceCents >= amountCents
}

// CanSpendAgencyBalance エージェンシー残高を消費できるかを返す
func (a *Account) CanSpendAgencyBalance(amount int64) bool {
	return amount > 0 && a.agencyBalance >= amount
}

// SetVip VIPレベルとフレームを設定する（ローカルプロジェクション用）
func (a *Account) SetVip(level int, frame string) {
	a.vipLevel = level
	a.frame = frame
	a.version++
}

// MustNewAccount テスト用ヘルパー: NewAccountを呼び出し、エラーが発生した場合はpanicする
func MustNewAccount(accountID string, roles RoleSet) *Account {
	a, err := NewAccount(accountID, roles)
	if err != nil {
		panic(err)
	}
	return a
}

// MustReconstruct テスト用ヘルパー: Reconstructを呼び出し、エラーが発生した場合はpanicする
func MustReconstruct(
	accountID string,
	balanceCents, coins, diamonds, wealth, charm, agencyBalance, rechargePoints int64,
	vipLevel int,
	frame string,
	agencyID string,
	roles RoleSet,
	customRates map[string]int64,
	version int,
) *Account {
	a, err := Reconstruct(accountID, balanceCents, coins, diamonds, wealth, charm, agencyBalance, rechargePoints, vipLevel, frame, agencyID, roles, customRates, version)
	if err != nil {
		panic(err)
	}
	return a
}
