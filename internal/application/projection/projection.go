package projection

import (
	"sync"

	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/ledger"
)

// BalanceView プロジェクションが保持する残高ビュー
type BalanceView struct {
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

// AccountProjection セッションが保持する楽観的ローカルプロジェクション
// 変更経路は二つだけ: 書き込み前の楽観的差分適用と、リモートスナップショットの
// 全置換（到着順のlast-write-wins）。ロールバック経路は持たない。書き込みが
// 失敗した場合は次のスナップショット到着まで先行した状態のままになる。
type AccountProjection struct {
	mu   sync.RWMutex
	view BalanceView
}

// NewAccountProjection 新しいAccountProjectionを作成
func NewAccountProjection(accountID string) *AccountProjection {
	return &AccountProjection{
		view: BalanceView{AccountID: accountID},
	}
}

// AccountID 対象アカウントIDを返す
func (p *AccountProjection) AccountID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view.AccountID
}

// ApplyOptimisticDelta 書き込み前にローカルビューへ差分を適用する
// 対象アカウント以外の差分は無視する。
func (p *AccountProjection) ApplyOptimisticDelta(delta ledger.AccountDelta) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if delta.AccountID != p.view.AccountID {
		return
	}

	p.view.BalanceCents += delta.BalanceCents
	p.view.Coins += delta.Coins
	p.view.Diamonds += delta.Diamonds
	p.view.Wealth += delta.Wealth
	p.view.Charm += delta.Charm
	p.view.AgencyBalance += delta.AgencyBalance
	p.view.RechargePoints += delta.RechargePoints
	if delta.VipLevel != nil {
		p.view.VipLevel = *delta.VipLevel
	}
	if delta.Frame != nil {
		p.view.Frame = *delta.Frame
	}
}

// ApplyRemoteSnapshot リモートスナップショットでビューを全置換する
// 楽観的差分との調停は行わない。後から到着したものが勝つ。
func (p *AccountProjection) ApplyRemoteSnapshot(acct *account.Account) {
	if acct == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if acct.AccountID() != p.view.AccountID {
		return
	}

	p.view = BalanceView{
		AccountID:      acct.AccountID(),
		BalanceCents:   acct.BalanceCents(),
		Coins:          acct.Coins(),
		Diamonds:       acct.Diamonds(),
		Wealth:         acct.Wealth(),
		Charm:          acct.Charm(),
		AgencyBalance:  acct.AgencyBalance(),
		RechargePoints: acct.RechargePoints(),
		VipLevel:       acct.VipLevel(),
		Frame:          acct.Frame(),
	}
}

// View 現在のビューのコピーを返す
func (p *AccountProjection) View() BalanceView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}
