package handler

import (
	"net/http"

	historyapp "ledger-server/internal/application/history"

	"github.com/labstack/echo/v4"
)

// HistoryHandler 履歴関連ハンドラー
type HistoryHandler struct {
	historyService *historyapp.HistoryApplicationService
}

// NewHistoryHandler 新しいHistoryHandlerを作成
func NewHistoryHandler(historyService *historyapp.HistoryApplicationService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// GetEntryHistory 台帳エントリ履歴取得ハンドラー（ユーザーAPI用）
// @Summary 台帳エントリ履歴を取得
// @Description 自分のアカウントの台帳エントリ履歴を取得します。ページネーションと種別フィルタに対応しています
// @Tags history
// @Accept json
// @Produce json
// @Security Bearer
// @Param account_id path string true "アカウントID" example(user123)
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 100)" default(50) example(50)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0) example(0)
// @Param kind query string false "エントリ種別でフィルタ（gift/exchange/salary/...）" example(gift)
// @Success 200 {object} EntryHistoryResponse "履歴取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "他アカウントの履歴は取得不可"
// @Router /accounts/{account_id}/entries [get]
func (h *HistoryHandler) GetEntryHistory(c echo.Context) error {
	tokenID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}
	if accountID != tokenID {
		return echo.NewHTTPError(http.StatusForbidden, "cannot read another account's history")
	}

	return h.getEntryHistoryInternal(c, accountID)
}

// GetEntryHistoryAdmin 台帳エントリ履歴取得ハンドラー（管理API用）
// @Summary 台帳エントリ履歴を取得（管理API）
// @Description 指定されたアカウントの台帳エントリ履歴を取得します
// @Tags admin
// @Accept json
// @Produce json
// @Param account_id path string true "アカウントID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 100)" default(50) example(50)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0) example(0)
// @Param kind query string false "エントリ種別でフィルタ" example(gift)
// @Success 200 {object} EntryHistoryResponse "履歴取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/accounts/{account_id}/entries [get]
func (h *HistoryHandler) GetEntryHistoryAdmin(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	return h.getEntryHistoryInternal(c, accountID)
}

// getEntryHistoryInternal 台帳エントリ履歴取得の内部実装
func (h *HistoryHandler) getEntryHistoryInternal(c echo.Context, accountID string) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	resp, err := h.historyService.GetEntryHistory(c.Request().Context(), &historyapp.GetEntryHistoryRequest{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
		Kind:      c.QueryParam("kind"),
	})
	if err != nil {
		return err
	}

	entries := make([]EntryItem, len(resp.Entries))
	for i, e := range resp.Entries {
		entries[i] = toEntryItem(e)
	}

	return c.JSON(http.StatusOK, EntryHistoryResponse{
		Entries: entries,
		Limit:   resp.Limit,
		Offset:  resp.Offset,
	})
}

// GetGiftHistory ギフトイベント履歴取得ハンドラー（ユーザーAPI用）
// @Summary ギフトイベント履歴を取得
// @Description 自分が送信者または受信者として関わったギフトイベントを取得します
// @Tags history
// @Accept json
// @Produce json
// @Security Bearer
// @Param account_id path string true "アカウントID" example(user123)
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 100)" default(50) example(50)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0) example(0)
// @Success 200 {object} GiftHistoryResponse "履歴取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "他アカウントの履歴は取得不可"
// @Router /accounts/{account_id}/gifts [get]
func (h *HistoryHandler) GetGiftHistory(c echo.Context) error {
	tokenID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}
	if accountID != tokenID {
		return echo.NewHTTPError(http.StatusForbidden, "cannot read another account's history")
	}

	return h.getGiftHistoryInternal(c, accountID)
}

// GetGiftHistoryAdmin ギフトイベント履歴取得ハンドラー（管理API用）
// @Summary ギフトイベント履歴を取得（管理API）
// @Description 指定されたアカウントのギフトイベント履歴を取得します
// @Tags admin
// @Accept json
// @Produce json
// @Param account_id path string true "アカウントID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 100)" default(50) example(50)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0) example(0)
// @Success 200 {object} GiftHistoryResponse "履歴取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/accounts/{account_id}/gifts [get]
func (h *HistoryHandler) GetGiftHistoryAdmin(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	return h.getGiftHistoryInternal(c, accountID)
}

// getGiftHistoryInternal ギフトイベント履歴取得の内部実装
func (h *HistoryHandler) getGiftHistoryInternal(c echo.Context, accountID string) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	resp, err := h.historyService.GetGiftHistory(c.Request().Context(), &historyapp.GetGiftHistoryRequest{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return err
	}

	events := make([]GiftEventItem, len(resp.Events))
	for i, e := range resp.Events {
		events[i] = toGiftEventItem(e)
	}

	return c.JSON(http.StatusOK, GiftHistoryResponse{
		Events: events,
		Limit:  resp.Limit,
		Offset: resp.Offset,
	})
}
