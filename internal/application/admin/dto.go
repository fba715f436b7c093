package admin

// SettingsView 経済設定ビュー
type SettingsView struct {
	ProductionRatioPercent int
	DiamondToCoinNum       int64
	DiamondToCoinDen       int64
	SalaryUnitDiamonds     int64
	SalaryUnitPayout       int64
	AnnouncementThreshold  int64
	UsdToCoinRate          int64
}

// UpdateSettingsRequest 経済設定更新リクエスト
type UpdateSettingsRequest struct {
	ProductionRatioPercent int
	DiamondToCoinNum       int64
	DiamondToCoinDen       int64
	SalaryUnitDiamonds     int64
	SalaryUnitPayout       int64
	AnnouncementThreshold  int64
	UsdToCoinRate          int64
}

// CreateAccountRequest アカウント作成リクエスト
type CreateAccountRequest struct {
	AccountID string
	Roles     []string
}

// CreateAgencyRequest エージェンシー作成リクエスト
type CreateAgencyRequest struct {
	AgencyID       string
	Name           string
	AgentAccountID string
}

// UpdateRolesRequest ロール更新リクエスト
type UpdateRolesRequest struct {
	AccountID string
	Roles     []string
}

// SetCustomRateRequest 商品個別コイン換算レート設定リクエスト
type SetCustomRateRequest struct {
	AccountID string
	ProductID string
	Rate      int64
}
