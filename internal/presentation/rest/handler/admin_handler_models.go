package handler

// SettingsResponse 経済設定レスポンス
// @Description 経済設定レスポンス
type SettingsResponse struct {
	ProductionRatioPercent int    `json:"production_ratio_percent" example:"70"`
	DiamondToCoinNum       string `json:"diamond_to_coin_num" example:"1"`
	DiamondToCoinDen       string `json:"diamond_to_coin_den" example:"2"`
	SalaryUnitDiamonds     string `json:"salary_unit_diamonds" example:"70000"`
	SalaryUnitPayout       string `json:"salary_unit_payout" example:"80000"`
	AnnouncementThreshold  string `json:"announcement_threshold" example:"10000"`
	UsdToCoinRate          string `json:"usd_to_coin_rate" example:"100"`
}

// UpdateSettingsRequest 経済設定更新リクエスト
// @Description 経済設定更新リクエスト
type UpdateSettingsRequest struct {
	ProductionRatioPercent int    `json:"production_ratio_percent" example:"70"`
	DiamondToCoinNum       string `json:"diamond_to_coin_num" example:"1"`
	DiamondToCoinDen       string `json:"diamond_to_coin_den" example:"2"`
	SalaryUnitDiamonds     string `json:"salary_unit_diamonds" example:"70000"`
	SalaryUnitPayout       string `json:"salary_unit_payout" example:"80000"`
	AnnouncementThreshold  string `json:"announcement_threshold" example:"10000"`
	UsdToCoinRate          string `json:"usd_to_coin_rate" example:"100"`
}

// CreateAccountRequest アカウント作成リクエスト
// @Description アカウント作成リクエスト
type CreateAccountRequest struct {
	AccountID string   `json:"account_id" example:"user123"`
	Roles     []string `json:"roles" example:"host"`
}

// CreateAgencyRequest エージェンシー作成リクエスト
// @Description エージェンシー作成リクエスト
type CreateAgencyRequest struct {
	AgencyID       string `json:"agency_id" example:"agency1"`
	Name           string `json:"name" example:"Stellar"`
	AgentAccountID string `json:"agent_account_id" example:"agent1"`
}

// UpdateRolesRequest ロール更新リクエスト
// @Description ロール更新リクエスト
type UpdateRolesRequest struct {
	Roles []string `json:"roles" example:"host,agency_agent"`
}

// SetCustomRateRequest 商品個別コイン換算レート設定リクエスト
// @Description 商品個別コイン換算レート設定リクエスト
type SetCustomRateRequest struct {
	ProductID string `json:"product_id" example:"1000 Coins"`
	Rate      string `json:"rate" example:"120"`
}

// StatusResponse 処理結果レスポンス
// @Description 処理結果レスポンス
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
