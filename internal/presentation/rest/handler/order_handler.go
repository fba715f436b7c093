package handler

import (
	"net/http"
	"strconv"

	orderapp "ledger-server/internal/application/order"

	"github.com/labstack/echo/v4"
)

// OrderHandler 注文関連ハンドラー
type OrderHandler struct {
	orderService *orderapp.OrderApplicationService
}

// NewOrderHandler 新しいOrderHandlerを作成
func NewOrderHandler(orderService *orderapp.OrderApplicationService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// pageParams limit/offsetクエリパラメータを取得
func pageParams(c echo.Context) (int, int, error) {
	limit := 50 // デフォルト値
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 100 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid limit parameter")
		}
	}

	offset := 0 // デフォルト値
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid offset parameter")
		}
	}

	return limit, offset, nil
}

// CreateOrder 注文作成ハンドラー
// @Summary 注文を作成
// @Description 商品注文または入金注文を作成します。商品注文は作成と同時にウォレット残高をデビットします
// @Tags order
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateOrderRequest true "注文作成リクエスト"
// @Success 200 {object} CreateOrderResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "残高不足または重複リクエスト"
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	accountID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	var reqBody CreateOrderRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	valueCents, err := parseAmount(reqBody.ValueCents, "value_cents")
	if err != nil {
		return err
	}

	resp, err := h.orderService.Create(c.Request().Context(), &orderapp.CreateOrderRequest{
		IdempotencyKey: reqBody.IdempotencyKey,
		AccountID:      accountID,
		Kind:           reqBody.Kind,
		ValueCents:     valueCents,
		ProductName:    reqBody.ProductName,
		PlayerID:       reqBody.PlayerID,
		Screenshot:     reqBody.Screenshot,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CreateOrderResponse{
		OrderID:         resp.OrderID,
		Status:          resp.Status,
		ResultingCredit: strconv.FormatInt(resp.ResultingCredit, 10),
		AccountDelta:    toDeltaView(resp.AccountDelta),
	})
}

// ListOrders 注文一覧ハンドラー（ユーザーAPI用）
// @Summary 自分の注文一覧を取得
// @Description 自分が作成した注文を新しい順で取得します
// @Tags order
// @Accept json
// @Produce json
// @Security Bearer
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 100)" default(50) example(50)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0) example(0)
// @Success 200 {object} ListOrdersResponse "取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	accountID, err := tokenAccountID(c)
	if err != nil {
		return err
	}

	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	resp, err := h.orderService.List(c.Request().Context(), &orderapp.ListOrdersRequest{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return err
	}

	return h.listResponse(c, resp, limit, offset)
}

// ListOrdersAdmin 注文一覧ハンドラー（管理API用）
// @Summary 注文一覧を取得（管理API）
// @Description 指定ステータスの注文を古い順で取得します（承認キュー）
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param status query string false "ステータスでフィルタ（デフォルト: pending）" example(pending)
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 100)" default(50) example(50)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0) example(0)
// @Success 200 {object} ListOrdersResponse "取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrdersAdmin(c echo.Context) error {
	limit, offset, err := pageParams(c)
	if err != nil {
		return err
	}

	status := c.QueryParam("status")
	if status == "" {
		status = "pending"
	}

	resp, err := h.orderService.List(c.Request().Context(), &orderapp.ListOrdersRequest{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}

	return h.listResponse(c, resp, limit, offset)
}

// listResponse 注文一覧をレスポンス形式に変換
func (h *OrderHandler) listResponse(c echo.Context, resp *orderapp.ListOrdersResponse, limit, offset int) error {
	orders := make([]OrderItem, len(resp.Orders))
	for i, o := range resp.Orders {
		orders[i] = toOrderItem(o)
	}

	return c.JSON(http.StatusOK, ListOrdersResponse{
		Orders: orders,
		Limit:  limit,
		Offset: offset,
	})
}

// ApproveOrder 注文承認ハンドラー（管理API用）
// @Summary 注文を承認（管理API）
// @Description pending状態の注文を承認します。入金注文はウォレット残高をクレジットします
// @Tags admin
// @Accept json
// @Produce json
// @Param order_id path string true "注文ID" example(7234981234567890)
// @Param X-API-Key header string true "APIキー"
// @Param request body TransitionOrderRequest false "承認リクエスト"
// @Success 200 {object} TransitionOrderResponse "承認成功"
// @Failure 404 {object} ErrorResponse "注文が存在しない"
// @Failure 409 {object} ErrorResponse "既に終端状態"
// @Router /admin/orders/{order_id}/approve [post]
func (h *OrderHandler) ApproveOrder(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id is required")
	}

	var reqBody TransitionOrderRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.orderService.Approve(c.Request().Context(), &orderapp.TransitionOrderRequest{
		OrderID:   orderID,
		AdminNote: reqBody.AdminNote,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TransitionOrderResponse{
		OrderID: resp.OrderID,
		Status:  resp.Status,
	})
}

// RejectOrder 注文却下ハンドラー（管理API用）
// @Summary 注文を却下（管理API）
// @Description pending状態の注文を却下します。理由のメモが必須です。商品注文のデビットは自動では返金されません
// @Tags admin
// @Accept json
// @Produce json
// @Param order_id path string true "注文ID" example(7234981234567890)
// @Param X-API-Key header string true "APIキー"
// @Param request body TransitionOrderRequest true "却下リクエスト（admin_note必須）"
// @Success 200 {object} TransitionOrderResponse "却下成功"
// @Failure 400 {object} ErrorResponse "メモなし"
// @Failure 404 {object} ErrorResponse "注文が存在しない"
// @Failure 409 {object} ErrorResponse "既に終端状態"
// @Router /admin/orders/{order_id}/reject [post]
func (h *OrderHandler) RejectOrder(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id is required")
	}

	var reqBody TransitionOrderRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.orderService.Reject(c.Request().Context(), &orderapp.TransitionOrderRequest{
		OrderID:   orderID,
		AdminNote: reqBody.AdminNote,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TransitionOrderResponse{
		OrderID: resp.OrderID,
		Status:  resp.Status,
	})
}
