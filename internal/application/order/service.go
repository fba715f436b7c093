package order

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/ledger"
	"ledger-server/internal/domain/order"
	"ledger-server/internal/domain/service"
	"ledger-server/internal/domain/settings"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
)

// IDGenerator 注文ID生成ポート
type IDGenerator interface {
	NextID() string
}

// SnapshotPublisher 更新済みアカウントのスナップショット配信ポート
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, acct *account.Account) error
}

// OrderApplicationService 注文アプリケーションサービス
// 注文レコードと残高変更を同一トランザクションで書き込む。残高が動くのは
// 商品注文の作成時デビットと入金注文の承認時クレジットの二箇所のみ。
type OrderApplicationService struct {
	orderRepo    order.OrderRepository
	accountRepo  account.AccountRepository
	settingsRepo settings.SettingsRepository
	txManager    ledger.TransactionManager
	txStore      ledger.TxStore
	settlement   *service.SettlementService
	idGen        IDGenerator
	publisher    SnapshotPublisher
	logger       *otelinfra.Logger
	metrics      *otelinfra.Metrics
	tracer       trace.Tracer
}

// NewOrderApplicationService 新しいOrderApplicationServiceを作成
func NewOrderApplicationService(
	orderRepo order.OrderRepository,
	accountRepo account.AccountRepository,
	settingsRepo settings.SettingsRepository,
	txManager ledger.TransactionManager,
	txStore ledger.TxStore,
	settlement *service.SettlementService,
	idGen IDGenerator,
	publisher SnapshotPublisher,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *OrderApplicationService {
	return &OrderApplicationService{
		orderRepo:    orderRepo,
		accountRepo:  accountRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		txStore:      txStore,
		settlement:   settlement,
		idGen:        idGen,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		tracer:       otel.Tracer("order-service"),
	}
}

// Create 注文を作成
// 商品注文はウォレット残高を作成と同一トランザクションでデビットする。
// 残高不足の場合は注文レコード自体が作成されない。
func (s *OrderApplicationService) Create(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "OrderApplicationService.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
		attribute.String("kind", req.Kind),
		attribute.Int64("value_cents", req.ValueCents),
	)

	s.logger.Info(ctx, "Creating order", map[string]interface{}{
		"account_id":  req.AccountID,
		"kind":        req.Kind,
		"value_cents": req.ValueCents,
	})

	kind, err := order.NewKind(req.Kind)
	if err != nil {
		return nil, s.fail(ctx, span, "order_create_failed", "invalid order kind", err)
	}

	acct, err := s.accountRepo.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, s.fail(ctx, span, "order_create_failed", "failed to find account", err)
	}

	var resultingCredit int64
	if kind == order.KindProduct {
		econ, err := s.settingsRepo.Load(ctx)
		if err != nil {
			return nil, s.fail(ctx, span, "order_create_failed", "failed to load economy settings", err)
		}
		rate := acct.CoinRateFor(req.ProductName, econ.UsdToCoinRate())
		resultingCredit = req.ValueCents * rate / 100
	}

	orderID := s.idGen.NextID()
	o, err := order.NewOrder(orderID, req.AccountID, kind, req.ValueCents, resultingCredit, req.ProductName, req.PlayerID, req.Screenshot)
	if err != nil {
		return nil, s.fail(ctx, span, "order_create_failed", "invalid order", err)
	}

	var delta ledger.AccountDelta
	if o.DebitsAtCreation() {
		batch, err := s.settlement.SettleOrderDebit(s.debitKey(req.IdempotencyKey, orderID), acct, o)
		if err != nil {
			return nil, s.fail(ctx, span, "order_create_failed", "failed to settle order debit", err)
		}

		err = s.txManager.WithTransaction(ctx, func(tx *sql.Tx) error {
			if err := s.orderRepo.CreateTx(ctx, tx, o); err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
			if err := s.txStore.ApplyTx(ctx, tx, batch); err != nil {
				return fmt.Errorf("failed to apply debit batch: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, s.fail(ctx, span, "order_create_failed", "failed to create product order", err)
		}
		delta = batch.DeltaFor(req.AccountID)
		s.publishSnapshot(ctx, req.AccountID)
	} else {
		if err := s.orderRepo.Create(ctx, o); err != nil {
			return nil, s.fail(ctx, span, "order_create_failed", "failed to create deposit order", err)
		}
	}

	s.metrics.RecordOrderTransition(ctx, kind.String(), order.StatusPending.String())
	s.logger.Info(ctx, "Order created", map[string]interface{}{
		"order_id":   orderID,
		"account_id": req.AccountID,
		"kind":       kind.String(),
	})

	return &CreateOrderResponse{
		OrderID:         orderID,
		Status:          order.StatusPending.String(),
		ResultingCredit: resultingCredit,
		AccountDelta:    delta,
	}, nil
}

// Approve 注文を承認
// 入金注文はステータス遷移とウォレットへのクレジットを同一トランザクションで
// 行う。遷移はpending条件付きなので二重承認が二重クレジットになることはない。
func (s *OrderApplicationService) Approve(ctx context.Context, req *TransitionOrderRequest) (*TransitionOrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "OrderApplicationService.Approve")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", req.OrderID),
	)

	s.logger.Info(ctx, "Approving order", map[string]interface{}{
		"order_id": req.OrderID,
	})

	o, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, s.fail(ctx, span, "order_approve_failed", "failed to find order", err)
	}
	if o.Status().Terminal() {
		return nil, s.fail(ctx, span, "order_approve_failed", "order is terminal", order.ErrOrderAlreadyTerminal)
	}

	err = s.txManager.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.orderRepo.Transition(ctx, tx, req.OrderID, order.StatusCompleted, req.AdminNote); err != nil {
			return err
		}
		if o.CreditsOnApproval() {
			batch, err := s.settlement.SettleDepositCredit(s.creditKey(req.OrderID), o)
			if err != nil {
				return fmt.Errorf("failed to settle deposit credit: %w", err)
			}
			if err := s.txStore.ApplyTx(ctx, tx, batch); err != nil {
				return fmt.Errorf("failed to apply credit batch: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, span, "order_approve_failed", "failed to approve order", err)
	}

	if o.CreditsOnApproval() {
		s.publishSnapshot(ctx, o.AccountID())
	}

	s.metrics.RecordOrderTransition(ctx, o.Kind().String(), order.StatusCompleted.String())
	s.logger.Info(ctx, "Order approved", map[string]interface{}{
		"order_id": req.OrderID,
	})

	return &TransitionOrderResponse{
		OrderID: req.OrderID,
		Status:  order.StatusCompleted.String(),
	}, nil
}

// Reject 注文を却下。理由のメモは必須。
// 商品注文の作成時デビットは返金しない（運用上の手動対応）。
func (s *OrderApplicationService) Reject(ctx context.Context, req *TransitionOrderRequest) (*TransitionOrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "OrderApplicationService.Reject")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", req.OrderID),
	)

	s.logger.Info(ctx, "Rejecting order", map[string]interface{}{
		"order_id": req.OrderID,
	})

	if req.AdminNote == "" {
		return nil, s.fail(ctx, span, "order_reject_failed", "note is required", order.ErrNoteRequired)
	}

	o, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, s.fail(ctx, span, "order_reject_failed", "failed to find order", err)
	}
	if o.Status().Terminal() {
		return nil, s.fail(ctx, span, "order_reject_failed", "order is terminal", order.ErrOrderAlreadyTerminal)
	}

	err = s.txManager.WithTransaction(ctx, func(tx *sql.Tx) error {
		return s.orderRepo.Transition(ctx, tx, req.OrderID, order.StatusRejected, req.AdminNote)
	})
	if err != nil {
		return nil, s.fail(ctx, span, "order_reject_failed", "failed to reject order", err)
	}

	s.metrics.RecordOrderTransition(ctx, o.Kind().String(), order.StatusRejected.String())
	s.logger.Info(ctx, "Order rejected", map[string]interface{}{
		"order_id": req.OrderID,
		"note":     req.AdminNote,
	})

	return &TransitionOrderResponse{
		OrderID: req.OrderID,
		Status:  order.StatusRejected.String(),
	}, nil
}

// List 注文一覧を取得
func (s *OrderApplicationService) List(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error) {
	ctx, span := s.tracer.Start(ctx, "OrderApplicationService.List")
	defer span.End()

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var (
		orders []*order.Order
		err    error
	)
	switch {
	case req.AccountID != "":
		orders, err = s.orderRepo.FindByAccountID(ctx, req.AccountID, limit, req.Offset)
	case req.Status != "":
		var status order.Status
		status, err = order.NewStatus(req.Status)
		if err == nil {
			orders, err = s.orderRepo.FindByStatus(ctx, status, limit, req.Offset)
		}
	default:
		orders, err = s.orderRepo.FindByStatus(ctx, order.StatusPending, limit, req.Offset)
	}
	if err != nil {
		return nil, s.fail(ctx, span, "order_list_failed", "failed to list orders", err)
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}

	return &ListOrdersResponse{Orders: views}, nil
}

// debitKey 作成時デビットの冪等性キーを導出
func (s *OrderApplicationService) debitKey(requestKey, orderID string) string {
	if requestKey != "" {
		return requestKey
	}
	return fmt.Sprintf("order-%s-debit", orderID)
}

// creditKey 承認時クレジットの冪等性キーを導出
// 注文IDに対して決定的なので、リトライはストアの重複拒否に吸収される。
func (s *OrderApplicationService) creditKey(orderID string) string {
	return fmt.Sprintf("order-%s-credit", orderID)
}

// publishSnapshot 残高が動いたアカウントのスナップショットを配信
func (s *OrderApplicationService) publishSnapshot(ctx context.Context, accountID string) {
	if s.publisher == nil {
		return
	}
	acct, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		s.metrics.RecordSnapshotPublish(ctx, "failed")
		s.logger.Warn(ctx, "Failed to reload account for snapshot", map[string]interface{}{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return
	}
	if err := s.publisher.PublishSnapshot(ctx, acct); err != nil {
		s.metrics.RecordSnapshotPublish(ctx, "failed")
		s.logger.Warn(ctx, "Failed to publish account snapshot", map[string]interface{}{
			"account_id": accountID,
			"error":      err.Error(),
		})
		return
	}
	s.metrics.RecordSnapshotPublish(ctx, "ok")
}

// fail スパン・ログ・メトリクスへエラーを記録して返す
func (s *OrderApplicationService) fail(ctx context.Context, span trace.Span, errorType, message string, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	s.logger.Error(ctx, message, err, nil)
	s.metrics.RecordError(ctx, errorType)
	return fmt.Errorf("%s: %w", message, err)
}
