package ledger

// AccountDelta 単一アカウントに対するバッチの正味差分
// リモート書き込みの前にローカルプロジェクションへ同期的に適用される。
type AccountDelta struct {
	AccountID      string
	BalanceCents   int64
	Coins          int64
	Diamonds       int64
	Wealth         int64
	Charm          int64
	AgencyBalance  int64
	RechargePoints int64
	HostProduction int64
	VipLevel       *int    // nilなら変更なし
	Frame          *string // nilなら変更なし
}

// Zero 差分が空かどうかを返す
func (d AccountDelta) Zero() bool {
	return d.BalanceCents == 0 && d.Coins == 0 && d.Diamonds == 0 &&
		d.Wealth == 0 && d.Charm == 0 && d.AgencyBalance == 0 &&
		d.RechargePoints == 0 && d.HostProduction == 0 &&
		d.VipLevel == nil && d.Frame == nil
}
