package handler

import (
	"net/http"
	"strconv"

	adminapp "ledger-server/internal/application/admin"

	"github.com/labstack/echo/v4"
)

// AdminHandler 管理関連ハンドラー
type AdminHandler struct {
	adminService *adminapp.AdminApplicationService
}

// NewAdminHandler 新しいAdminHandlerを作成
func NewAdminHandler(adminService *adminapp.AdminApplicationService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GetSettings 経済設定取得ハンドラー（管理API用）
// @Summary 経済設定を取得（管理API）
// @Description 現在の経済設定を取得します
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Success 200 {object} SettingsResponse "取得成功"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/settings [get]
func (h *AdminHandler) GetSettings(c echo.Context) error {
	view, err := h.adminService.GetSettings(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSettingsResponse(view))
}

// UpdateSettings 経済設定更新ハンドラー（管理API用）
// @Summary 経済設定を更新（管理API）
// @Description 経済設定を更新します。以後の精算はこの設定で行われます
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body UpdateSettingsRequest true "経済設定更新リクエスト"
// @Success 200 {object} SettingsResponse "更新成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/settings [put]
func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	var reqBody UpdateSettingsRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	num, err := parseAmount(reqBody.DiamondToCoinNum, "diamond_to_coin_num")
	if err != nil {
		return err
	}
	den, err := parseAmount(reqBody.DiamondToCoinDen, "diamond_to_coin_den")
	if err != nil {
		return err
	}
	unitDiamonds, err := parseAmount(reqBody.SalaryUnitDiamonds, "salary_unit_diamonds")
	if err != nil {
		return err
	}
	unitPayout, err := parseAmount(reqBody.SalaryUnitPayout, "salary_unit_payout")
	if err != nil {
		return err
	}
	threshold, err := parseAmount(reqBody.AnnouncementThreshold, "announcement_threshold")
	if err != nil {
		return err
	}
	usdRate, err := parseAmount(reqBody.UsdToCoinRate, "usd_to_coin_rate")
	if err != nil {
		return err
	}

	view, err := h.adminService.UpdateSettings(c.Request().Context(), &adminapp.UpdateSettingsRequest{
		ProductionRatioPercent: reqBody.ProductionRatioPercent,
		DiamondToCoinNum:       num,
		DiamondToCoinDen:       den,
		SalaryUnitDiamonds:     unitDiamonds,
		SalaryUnitPayout:       unitPayout,
		AnnouncementThreshold:  threshold,
		UsdToCoinRate:          usdRate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toSettingsResponse(view))
}

// CreateAccount アカウント作成ハンドラー（管理API用）
// @Summary アカウントを作成（管理API）
// @Description 残高ゼロの新しいアカウントを作成します
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body CreateAccountRequest true "アカウント作成リクエスト"
// @Success 200 {object} StatusResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "既に存在する"
// @Router /admin/accounts [post]
func (h *AdminHandler) CreateAccount(c echo.Context) error {
	var reqBody CreateAccountRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.AccountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	if err := h.adminService.CreateAccount(c.Request().Context(), &adminapp.CreateAccountRequest{
		AccountID: reqBody.AccountID,
		Roles:     reqBody.Roles,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatusResponse{Status: "created"})
}

// CreateAgency エージェンシー作成ハンドラー（管理API用）
// @Summary エージェンシーを作成（管理API）
// @Description 新しいエージェンシーを作成します
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body CreateAgencyRequest true "エージェンシー作成リクエスト"
// @Success 200 {object} StatusResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "既に存在する"
// @Router /admin/agencies [post]
func (h *AdminHandler) CreateAgency(c echo.Context) error {
	var reqBody CreateAgencyRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.adminService.CreateAgency(c.Request().Context(), &adminapp.CreateAgencyRequest{
		AgencyID:       reqBody.AgencyID,
		Name:           reqBody.Name,
		AgentAccountID: reqBody.AgentAccountID,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatusResponse{Status: "created"})
}

// UpdateRoles ロール更新ハンドラー（管理API用）
// @Summary アカウントのロールを更新（管理API）
// @Description 指定されたアカウントのロール集合を置き換えます
// @Tags admin
// @Accept json
// @Produce json
// @Param account_id path string true "アカウントID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Param request body UpdateRolesRequest true "ロール更新リクエスト"
// @Success 200 {object} StatusResponse "更新成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 404 {object} ErrorResponse "アカウントが存在しない"
// @Router /admin/accounts/{account_id}/roles [put]
func (h *AdminHandler) UpdateRoles(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	var reqBody UpdateRolesRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.adminService.UpdateRoles(c.Request().Context(), &adminapp.UpdateRolesRequest{
		AccountID: accountID,
		Roles:     reqBody.Roles,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

// SetCustomRate 商品個別レート設定ハンドラー（管理API用）
// @Summary 商品個別のコイン換算レートを設定（管理API）
// @Description 指定されたアカウントに商品個別のコイン換算レートを設定します
// @Tags admin
// @Accept json
// @Produce json
// @Param account_id path string true "アカウントID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Param request body SetCustomRateRequest true "レート設定リクエスト"
// @Success 200 {object} StatusResponse "設定成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Router /admin/accounts/{account_id}/custom_rates [put]
func (h *AdminHandler) SetCustomRate(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	var reqBody SetCustomRateRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	rate, err := parseAmount(reqBody.Rate, "rate")
	if err != nil {
		return err
	}

	if err := h.adminService.SetCustomRate(c.Request().Context(), &adminapp.SetCustomRateRequest{
		AccountID: accountID,
		ProductID: reqBody.ProductID,
		Rate:      rate,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, StatusResponse{Status: "updated"})
}

func toSettingsResponse(view *adminapp.SettingsView) SettingsResponse {
	return SettingsResponse{
		ProductionRatioPercent: view.ProductionRatioPercent,
		DiamondToCoinNum:       strconv.FormatInt(view.DiamondToCoinNum, 10),
		DiamondToCoinDen:       strconv.FormatInt(view.DiamondToCoinDen, 10),
		SalaryUnitDiamonds:     strconv.FormatInt(view.SalaryUnitDiamonds, 10),
		SalaryUnitPayout:       strconv.FormatInt(view.SalaryUnitPayout, 10),
		AnnouncementThreshold:  strconv.FormatInt(view.AnnouncementThreshold, 10),
		UsdToCoinRate:          strconv.FormatInt(view.UsdToCoinRate, 10),
	}
}
