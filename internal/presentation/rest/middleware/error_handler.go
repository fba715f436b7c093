package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"

	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/agency"
	"ledger-server/internal/domain/gift"
	"ledger-server/internal/domain/ledger"
	"ledger-server/internal/domain/order"
	"ledger-server/internal/domain/reward"
	"ledger-server/internal/domain/settings"
	"ledger-server/internal/domain/store"
	"ledger-server/internal/domain/vip"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// domainError ドメインエラーとHTTPステータスの対応
type domainError struct {
	err    error
	status int
	code   string
	log    string
}

// domainErrors ドメインエラーの対応表
// バッチが一切適用されない種別（重複キー・終端済み注文）は409で返す。
var domainErrors = []domainError{
	{account.ErrInsufficientBalance, http.StatusConflict, "insufficient_balance", "Insufficient balance"},
	{ledger.ErrDuplicateEntry, http.StatusConflict, "duplicate_request", "Duplicate idempotency key"},
	{order.ErrOrderAlreadyTerminal, http.StatusConflict, "order_already_terminal", "Order already terminal"},
	{order.ErrOrderAlreadyExists, http.StatusConflict, "order_already_exists", "Order already exists"},
	{account.ErrAccountAlreadyExists, http.StatusConflict, "account_already_exists", "Account already exists"},
	{agency.ErrAgencyAlreadyExists, http.StatusConflict, "agency_already_exists", "Agency already exists"},
	{vip.ErrTierAlreadyOwned, http.StatusConflict, "tier_already_owned", "Tier already owned"},
	{account.ErrAccountBlocked, http.StatusForbidden, "account_blocked", "Account is blocked"},
	{account.ErrAccountNotFound, http.StatusNotFound, "account_not_found", "Account not found"},
	{agency.ErrAgencyNotFound, http.StatusNotFound, "agency_not_found", "Agency not found"},
	{gift.ErrGiftNotFound, http.StatusNotFound, "gift_not_found", "Gift not found"},
	{vip.ErrTierNotFound, http.StatusNotFound, "tier_not_found", "VIP tier not found"},
	{order.ErrOrderNotFound, http.StatusNotFound, "order_not_found", "Order not found"},
	{ledger.ErrEntryNotFound, http.StatusNotFound, "entry_not_found", "Ledger entry not found"},
	{store.ErrItemNotFound, http.StatusNotFound, "store_item_not_found", "Store item not found"},
	{account.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount", "Invalid amount"},
	{ledger.ErrInvalidIdempotencyKey, http.StatusBadRequest, "invalid_idempotency_key", "Invalid idempotency key"},
	{ledger.ErrMonotoneViolation, http.StatusBadRequest, "monotone_violation", "Negative delta on monotone field"},
	{ledger.ErrInvalidOperation, http.StatusBadRequest, "invalid_operation", "Invalid operation"},
	{ledger.ErrInvalidEntryKind, http.StatusBadRequest, "invalid_entry_kind", "Invalid entry kind"},
	{ledger.ErrEmptyBatch, http.StatusBadRequest, "empty_batch", "Empty batch"},
	{gift.ErrNoRecipients, http.StatusBadRequest, "no_recipients", "No recipients"},
	{order.ErrInvalidOrderKind, http.StatusBadRequest, "invalid_order_kind", "Invalid order kind"},
	{order.ErrInvalidOrderValue, http.StatusBadRequest, "invalid_order_value", "Invalid order value"},
	{order.ErrNoteRequired, http.StatusBadRequest, "note_required", "Admin note is required"},
	{reward.ErrInvalidReward, http.StatusBadRequest, "invalid_reward", "Invalid reward"},
	{reward.ErrUnknownRewardKind, http.StatusBadRequest, "unknown_reward_kind", "Unknown reward kind"},
	{order.ErrInvalidStatus, http.StatusBadRequest, "invalid_status", "Invalid status"},
	{settings.ErrInvalidRatio, http.StatusBadRequest, "invalid_ratio", "Invalid ratio"},
	{settings.ErrInvalidRate, http.StatusBadRequest, "invalid_rate", "Invalid rate"},
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// エラーハンドリング
			return handleError(c, err, logger)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	// ドメインエラーの判定と処理
	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			logger.Warn(ctx, de.log, map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(de.status, ErrorResponse{
				Error:   de.code,
				Message: err.Error(),
			})
		}
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
