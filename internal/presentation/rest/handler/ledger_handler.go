package handler

import (
	"net/http"
	"strconv"

	ledgerapp "ledger-server/internal/application/ledger"

	"github.com/labstack/echo/v4"
)

// LedgerHandler 台帳関連ハンドラー
type LedgerHandler struct {
	ledgerService *ledgerapp.LedgerApplicationService
}

// NewLedgerHandler 新しいLedgerHandlerを作成
func NewLedgerHandler(ledgerService *ledgerapp.LedgerApplicationService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// tokenAccountID トークンのアカウントIDを取得
func tokenAccountID(c echo.Context) (string, error) {
	accountID, ok := c.Get("account_id").(string)
	if !ok || accountID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "account_id not found in token")
	}
	return accountID, nil
}

// parseAmount 文字列の金額をint64に変換
func parseAmount(s, field string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+field+" format")
	}
	return v, nil
}

// TransferGift ギフト送信ハンドラー
// @Summary ギフトを送信
// @Description 受信者ごとにギフトを送信し、双方の残高を同一バッチで更新します
// @Tags ledger
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body TransferGiftRequest true "ギフト送信リクエスト"
// @Success 200 {object} TransferGiftResponse "送信成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "残高不足または重複リクエスト"
// @Router /gifts/transfer [post]
func (h *LedgerHandler) TransferGift(c echo.Context) error {
	senderID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	var reqBody TransferGiftRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	winAmount, err := parseAmount(reqBody.WinAmount, "win_amount")
	if err != nil {
		return err
	}

	resp, err := h.ledgerService.TransferGift(c.Request().Context(), &ledgerapp.TransferGiftRequest{
		IdempotencyKey: reqBody.IdempotencyKey,
		SenderID:       senderID,
		GiftID:         reqBody.GiftID,
		Quantity:       reqBody.Quantity,
		RecipientIDs:   reqBody.RecipientIDs,
		WinAmount:      winAmount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TransferGiftResponse{
		EventID:     resp.EventID,
		GrossValue:  strconv.FormatInt(resp.GrossValue, 10),
		EarnedShare: strconv.FormatInt(resp.EarnedShare, 10),
		Announced:   resp.Announced,
		SenderDelta: toDeltaView(resp.SenderDelta),
	})
}

// ExchangeDiamonds ダイヤ->コイン交換ハンドラー
// @Summary ダイヤをコインへ交換
// @Description 公開レートでダイヤをコインへ交換します
// @Tags ledger
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ExchangeDiamondsRequest true "交換リクエスト"
// @Success 200 {object} ExchangeDiamondsResponse "交換成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "残高不足または重複リクエスト"
// @Router /exchange/diamonds [post]
func (h *LedgerHandler) ExchangeDiamonds(c echo.Context) error {
	accountID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	var reqBody ExchangeDiamondsRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	amount, err := parseAmount(reqBody.Amount, "amount")
	if err != nil {
		return err
	}

	resp, err := h.ledgerService.ExchangeDiamonds(c.Request().Context(), &ledgerapp.ExchangeDiamondsRequest{
		IdempotencyKey: reqBody.IdempotencyKey,
		AccountID:      accountID,
		Amount:         amount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ExchangeDiamondsResponse{
		CoinsGained: strconv.FormatInt(resp.CoinsGained, 10),
		Delta:       toDeltaView(resp.Delta),
	})
}

// ExchangeSalary 給与変換ハンドラー
// @Summary ダイヤを給与としてエージェンシー残高へ変換
// @Description ホストのダイヤをエージェントのエージェンシー残高へ変換します
// @Tags ledger
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ExchangeSalaryRequest true "給与変換リクエスト"
// @Success 200 {object} ExchangeSalaryResponse "変換成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "残高不足または重複リクエスト"
// @Router /exchange/salary [post]
func (h *LedgerHandler) ExchangeSalary(c echo.Context) error {
	hostID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	var reqBody ExchangeSalaryRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	amount, err := parseAmount(reqBody.Amount, "amount")
	if err != nil {
		return err
	}

	resp, err := h.ledgerService.ExchangeSalary(c.Request().Context(), &ledgerapp.ExchangeSalaryRequest{
		IdempotencyKey: reqBody.IdempotencyKey,
		HostID:         hostID,
		Amount:         amount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ExchangeSalaryResponse{
		AgencyID:       resp.AgencyID,
		AgentAccountID: resp.AgentAccountID,
		Payout:         strconv.FormatInt(resp.Payout, 10),
		HostDelta:      toDeltaView(resp.HostDelta),
	})
}

// AgencyTransfer エージェンシー送金ハンドラー
// @Summary エージェンシー残高からメンバーへ送金
// @Description エージェントのエージェンシー残高をメンバーのコインへ振り替えます
// @Tags ledger
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body AgencyTransferRequest true "送金リクエスト"
// @Success 200 {object} AgencyTransferResponse "送金成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "残高不足または重複リクエスト"
// @Router /agency/transfer [post]
func (h *LedgerHandler) AgencyTransfer(c echo.Context) error {
	agentID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	var reqBody AgencyTransferRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.TargetID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "target_id is required")
	}

	amount, err := parseAmount(reqBody.Amount, "amount")
	if err != nil {
		return err
	}

	resp, err := h.ledgerService.AgencyTransfer(c.Request().Context(), &ledgerapp.AgencyTransferRequest{
		IdempotencyKey: reqBody.IdempotencyKey,
		AgentID:        agentID,
		TargetID:       reqBody.TargetID,
		Amount:         amount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AgencyTransferResponse{
		AgentDelta:  toDeltaView(resp.AgentDelta),
		TargetDelta: toDeltaView(resp.TargetDelta),
	})
}

// PurchaseVipTier VIPティア購入ハンドラー
// @Summary VIPティアを購入
// @Description コインでVIPティアを購入し、レベルとフレームを更新します
// @Tags ledger
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body PurchaseVipTierRequest true "購入リクエスト"
// @Success 200 {object} PurchaseVipTierResponse "購入成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 404 {object} ErrorResponse "ティアが存在しない"
// @Failure 409 {object} ErrorResponse "残高不足・保有済み・重複リクエスト"
// @Router /vip/purchase [post]
func (h *LedgerHandler) PurchaseVipTier(c echo.Context) error {
	accountID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	var reqBody PurchaseVipTierRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.TierID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tier_id is required")
	}

	resp, err := h.ledgerService.PurchaseVipTier(c.Request().Context(), &ledgerapp.PurchaseVipTierRequest{
		IdempotencyKey: reqBody.IdempotencyKey,
		AccountID:      accountID,
		TierID:         reqBody.TierID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PurchaseVipTierResponse{
		Level: resp.Level,
		Frame: resp.Frame,
		Cost:  strconv.FormatInt(resp.Cost, 10),
		Delta: toDeltaView(resp.Delta),
	})
}

// PurchaseStoreItem ストアアイテム購入ハンドラー
// @Summary ストアアイテムを購入
// @Description コインでストアアイテムを購入し、所持品へ追加します
// @Tags ledger
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body PurchaseStoreItemRequest true "購入リクエスト"
// @Success 200 {object} PurchaseStoreItemResponse "購入成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 404 {object} ErrorResponse "アイテムがカタログに存在しない"
// @Failure 409 {object} ErrorResponse "残高不足または重複リクエスト"
// @Router /store/purchase [post]
func (h *LedgerHandler) PurchaseStoreItem(c echo.Context) error {
	accountID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	var reqBody PurchaseStoreItemRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.ItemID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "item_id is required")
	}

	resp, err := h.ledgerService.PurchaseStoreItem(c.Request().Context(), &ledgerapp.PurchaseStoreItemRequest{
		IdempotencyKey: reqBody.IdempotencyKey,
		AccountID:      accountID,
		ItemID:         reqBody.ItemID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PurchaseStoreItemResponse{
		ItemID: resp.ItemID,
		Delta:  toDeltaView(resp.Delta),
	})
}

// GetBalance 残高取得ハンドラー（ユーザーAPI用）
// @Summary 残高を取得
// @Description 自分のアカウントの残高を取得します
// @Tags ledger
// @Accept json
// @Produce json
// @Security Bearer
// @Param account_id path string true "アカウントID" example(user123)
// @Success 200 {object} BalanceResponse "残高取得成功"
// @Failure 403 {object} ErrorResponse "他アカウントの残高は取得不可"
// @Failure 404 {object} ErrorResponse "アカウントが存在しない"
// @Router /accounts/{account_id}/balance [get]
func (h *LedgerHandler) GetBalance(c echo.Context) error {
	tokenID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}
	if accountID != tokenID {
		return echo.NewHTTPError(http.StatusForbidden, "cannot read another account's balance")
	}

	return h.getBalanceInternal(c, accountID)
}

// GetBalanceAdmin 残高取得ハンドラー（管理API用）
// @Summary 残高を取得（管理API）
// @Description 指定されたアカウントの残高を取得します
// @Tags admin
// @Accept json
// @Produce json
// @Param account_id path string true "アカウントID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Success 200 {object} BalanceResponse "残高取得成功"
// @Failure 404 {object} ErrorResponse "アカウントが存在しない"
// @Router /admin/accounts/{account_id}/balance [get]
func (h *LedgerHandler) GetBalanceAdmin(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	return h.getBalanceInternal(c, accountID)
}

// getBalanceInternal 残高取得の内部実装
func (h *LedgerHandler) getBalanceInternal(c echo.Context, accountID string) error {
	resp, err := h.ledgerService.GetBalance(c.Request().Context(), &ledgerapp.GetBalanceRequest{
		AccountID: accountID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, BalanceResponse{
		AccountID:      resp.AccountID,
		BalanceCents:   strconv.FormatInt(resp.BalanceCents, 10),
		Coins:          strconv.FormatInt(resp.Coins, 10),
		Diamonds:       strconv.FormatInt(resp.Diamonds, 10),
		Wealth:         strconv.FormatInt(resp.Wealth, 10),
		Charm:          strconv.FormatInt(resp.Charm, 10),
		AgencyBalance:  strconv.FormatInt(resp.AgencyBalance, 10),
		RechargePoints: strconv.FormatInt(resp.RechargePoints, 10),
		VipLevel:       resp.VipLevel,
		Frame:          resp.Frame,
	})
}

// GrantBalance 残高調整ハンドラー（管理API用）
// @Summary 残高を調整（管理API）
// @Description 指定されたアカウントの任意フィールドを加減算します
// @Tags admin
// @Accept json
// @Produce json
// @Param account_id path string true "アカウントID" example(user123)
// @Param X-API-Key header string true "APIキー"
// @Param request body GrantBalanceRequest true "残高調整リクエスト"
// @Success 200 {object} GrantBalanceResponse "調整成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 404 {object} ErrorResponse "アカウントが存在しない"
// @Failure 409 {object} ErrorResponse "重複リクエスト"
// @Router /admin/accounts/{account_id}/grant [post]
func (h *LedgerHandler) GrantBalance(c echo.Context) error {
	accountID := c.Param("account_id")
	if accountID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "account_id is required")
	}

	var reqBody GrantBalanceRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	delta, err := strconv.ParseInt(reqBody.Delta, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid delta format")
	}

	resp, err := h.ledgerService.GrantBalance(c.Request().Context(), &ledgerapp.GrantBalanceRequest{
		IdempotencyKey: reqBody.IdempotencyKey,
		AccountID:      accountID,
		Field:          reqBody.Field,
		Delta:          delta,
		Reason:         reqBody.Reason,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, GrantBalanceResponse{
		Delta: toDeltaView(resp.Delta),
	})
}
