package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/account"
	"ledger-server/internal/domain/agency"
	"ledger-server/internal/domain/gift"
	"ledger-server/internal/domain/ledger"
	"ledger-server/internal/domain/service"
	"ledger-server/internal/domain/settings"
	storeitem "ledger-server/internal/domain/store"
	"ledger-server/internal/domain/vip"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
)

// SnapshotPublisher 更新済みアカウントのスナップショット配信ポート
// 配信はat-least-once・結果整合。失敗してもバッチ適用は巻き戻さない。
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, acct *account.Account) error
}

// LedgerApplicationService 台帳アプリケーションサービス
type LedgerApplicationService struct {
	accountRepo  account.AccountRepository
	giftRepo     gift.GiftRepository
	agencyRepo   agency.AgencyRepository
	tierRepo     vip.TierRepository
	itemRepo     storeitem.ItemRepository
	settingsRepo settings.SettingsRepository
	store        ledger.Store
	settlement   *service.SettlementService
	publisher    SnapshotPublisher
	logger       *otelinfra.Logger
	metrics      *otelinfra.Metrics
	tracer       trace.Tracer
}

// NewLedgerApplicationService 新しいLedgerApplicationServiceを作成
func NewLedgerApplicationService(
	accountRepo account.AccountRepository,
	giftRepo gift.GiftRepository,
	agencyRepo agency.AgencyRepository,
	tierRepo vip.TierRepository,
	itemRepo storeitem.ItemRepository,
	settingsRepo settings.SettingsRepository,
	store ledger.Store,
	settlement *service.SettlementService,
	publisher SnapshotPublisher,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *LedgerApplicationService {
	return &LedgerApplicationService{
		accountRepo:  accountRepo,
		giftRepo:     giftRepo,
		agencyRepo:   agencyRepo,
		tierRepo:     tierRepo,
		itemRepo:     itemRepo,
		settingsRepo: settingsRepo,
		store:        store,
		settlement:   settlement,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		tracer:       otel.Tracer("ledger-service"),
	}
}

// TransferGift ギフトを送信
func (s *LedgerApplicationService) TransferGift(ctx context.Context, req *TransferGiftRequest) (*TransferGiftResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.TransferGift")
	defer span.End()

	span.SetAttributes(
		attribute.String("sender_id", req.SenderID),
		attribute.String("gift_id", req.GiftID),
		attribute.Int64("quantity", req.Quantity),
		attribute.Int("recipient_count", len(req.RecipientIDs)),
	)

	s.logger.Info(ctx, "Transferring gift", map[string]interface{}{
		"sender_id": req.SenderID,
		"gift_id":   req.GiftID,
		"quantity":  req.Quantity,
	})

	sender, err := s.accountRepo.FindByID(ctx, req.SenderID)
	if err != nil {
		return nil, s.fail(ctx, span, "transfer_gift_failed", "Failed to find sender", err)
	}

	g, err := s.giftRepo.FindByID(ctx, req.GiftID)
	if err != nil {
		return nil, s.fail(ctx, span, "transfer_gift_failed", "Failed to find gift", err)
	}

	recipients := make([]*account.Account, 0, len(req.RecipientIDs))
	for _, id := range req.RecipientIDs {
		rec, err := s.accountRepo.FindByID(ctx, id)
		if err != nil {
			return nil, s.fail(ctx, span, "transfer_gift_failed", "Failed to find recipient", err)
		}
		recipients = append(recipients, rec)
	}

	econ, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "transfer_gift_failed", "Failed to load economy settings", err)
	}

	eventID := uuid.NewString()
	batch, err := s.settlement.SettleGift(service.GiftInput{
		IdempotencyKey: s.keyOrNew(req.IdempotencyKey),
		EventID:        eventID,
		Sender:         sender,
		Gift:           g,
		Quantity:       req.Quantity,
		Recipients:     recipients,
		WinAmount:      req.WinAmount,
		Settings:       econ,
	})
	if err != nil {
		return nil, s.fail(ctx, span, "transfer_gift_failed", "Failed to settle gift", err)
	}

	if err := s.store.Apply(ctx, batch); err != nil {
		return nil, s.fail(ctx, span, "transfer_gift_failed", "Failed to apply gift batch", err)
	}

	s.metrics.RecordTransfer(ctx, string(ledger.EntryKindGift))
	s.publishTouched(ctx, batch)

	event := batch.GiftEvents()[0]
	s.logger.Info(ctx, "Gift transferred", map[string]interface{}{
		"sender_id":   req.SenderID,
		"event_id":    eventID,
		"gross_value": event.GrossValue(),
	})

	return &TransferGiftResponse{
		EventID:     eventID,
		GrossValue:  event.GrossValue(),
		EarnedShare: event.EarnedShare(),
		Announced:   len(batch.Outbox()) > 0,
		SenderDelta: batch.DeltaFor(req.SenderID),
	}, nil
}

// ExchangeDiamonds ダイヤをコインへ交換
func (s *LedgerApplicationService) ExchangeDiamonds(ctx context.Context, req *ExchangeDiamondsRequest) (*ExchangeDiamondsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.ExchangeDiamonds")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
		attribute.Int64("amount", req.Amount),
	)

	s.logger.Info(ctx, "Exchanging diamonds", map[string]interface{}{
		"account_id": req.AccountID,
		"amount":     req.Amount,
	})

	acct, err := s.accountRepo.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, s.fail(ctx, span, "exchange_failed", "Failed to find account", err)
	}

	econ, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "exchange_failed", "Failed to load economy settings", err)
	}

	batch, err := s.settlement.SettleExchange(s.keyOrNew(req.IdempotencyKey), acct, req.Amount, econ)
	if err != nil {
		return nil, s.fail(ctx, span, "exchange_failed", "Failed to settle exchange", err)
	}

	if err := s.store.Apply(ctx, batch); err != nil {
		return nil, s.fail(ctx, span, "exchange_failed", "Failed to apply exchange batch", err)
	}

	s.metrics.RecordTransfer(ctx, string(ledger.EntryKindExchange))
	s.publishTouched(ctx, batch)

	delta := batch.DeltaFor(req.AccountID)
	return &ExchangeDiamondsResponse{
		CoinsGained: delta.Coins,
		Delta:       delta,
	}, nil
}

// ExchangeSalary 給与ダイヤを所属エージェンシーの残高へ変換
func (s *LedgerApplicationService) ExchangeSalary(ctx context.Context, req *ExchangeSalaryRequest) (*ExchangeSalaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.ExchangeSalary")
	defer span.End()

	span.SetAttributes(
		attribute.String("host_id", req.HostID),
		attribute.Int64("amount", req.Amount),
	)

	s.logger.Info(ctx, "Exchanging salary", map[string]interface{}{
		"host_id": req.HostID,
		"amount":  req.Amount,
	})

	host, err := s.accountRepo.FindByID(ctx, req.HostID)
	if err != nil {
		return nil, s.fail(ctx, span, "salary_exchange_failed", "Failed to find host", err)
	}
	if host.AgencyID() == "" {
		err := agency.ErrAgencyNotFound
		return nil, s.fail(ctx, span, "salary_exchange_failed", "Host has no agency", err)
	}

	ag, err := s.agencyRepo.FindByID(ctx, host.AgencyID())
	if err != nil {
		return nil, s.fail(ctx, span, "salary_exchange_failed", "Failed to find agency", err)
	}

	econ, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "salary_exchange_failed", "Failed to load economy settings", err)
	}

	batch, err := s.settlement.SettleSalaryExchange(s.keyOrNew(req.IdempotencyKey), host, ag, req.Amount, econ)
	if err != nil {
		return nil, s.fail(ctx, span, "salary_exchange_failed", "Failed to settle salary exchange", err)
	}

	if err := s.store.Apply(ctx, batch); err != nil {
		return nil, s.fail(ctx, span, "salary_exchange_failed", "Failed to apply salary batch", err)
	}

	s.metrics.RecordTransfer(ctx, string(ledger.EntryKindSalaryExchange))
	s.publishTouched(ctx, batch)

	return &ExchangeSalaryResponse{
		AgencyID:       ag.AgencyID(),
		AgentAccountID: ag.AgentAccountID(),
		Payout:         batch.DeltaFor(ag.AgentAccountID()).AgencyBalance,
		HostDelta:      batch.DeltaFor(req.HostID),
	}, nil
}

// AgencyTransfer エージェンシー残高からメンバーへ送金
func (s *LedgerApplicationService) AgencyTransfer(ctx context.Context, req *AgencyTransferRequest) (*AgencyTransferResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.AgencyTransfer")
	defer span.End()

	span.SetAttributes(
		attribute.String("agent_id", req.AgentID),
		attribute.String("target_id", req.TargetID),
		attribute.Int64("amount", req.Amount),
	)

	s.logger.Info(ctx, "Transferring agency balance", map[string]interface{}{
		"agent_id":  req.AgentID,
		"target_id": req.TargetID,
		"amount":    req.Amount,
	})

	agent, err := s.accountRepo.FindByID(ctx, req.AgentID)
	if err != nil {
		return nil, s.fail(ctx, span, "agency_transfer_failed", "Failed to find agent", err)
	}

	// 対象アカウントの存在確認
	if _, err := s.accountRepo.FindByID(ctx, req.TargetID); err != nil {
		return nil, s.fail(ctx, span, "agency_transfer_failed", "Failed to find target", err)
	}

	batch, err := s.settlement.SettleAgencyTransfer(s.keyOrNew(req.IdempotencyKey), agent, req.TargetID, req.Amount)
	if err != nil {
		return nil, s.fail(ctx, span, "agency_transfer_failed", "Failed to settle agency transfer", err)
	}

	if err := s.store.Apply(ctx, batch); err != nil {
		return nil, s.fail(ctx, span, "agency_transfer_failed", "Failed to apply agency transfer batch", err)
	}

	s.metrics.RecordTransfer(ctx, string(ledger.EntryKindAgencyTransfer))
	s.publishTouched(ctx, batch)

	return &AgencyTransferResponse{
		AgentDelta:  batch.DeltaFor(req.AgentID),
		TargetDelta: batch.DeltaFor(req.TargetID),
	}, nil
}

// PurchaseVipTier VIPティアを購入
func (s *LedgerApplicationService) PurchaseVipTier(ctx context.Context, req *PurchaseVipTierRequest) (*PurchaseVipTierResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.PurchaseVipTier")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
		attribute.String("tier_id", req.TierID),
	)

	s.logger.Info(ctx, "Purchasing VIP tier", map[string]interface{}{
		"account_id": req.AccountID,
		"tier_id":    req.TierID,
	})

	acct, err := s.accountRepo.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, s.fail(ctx, span, "vip_purchase_failed", "Failed to find account", err)
	}

	tier, err := s.tierRepo.FindByID(ctx, req.TierID)
	if err != nil {
		return nil, s.fail(ctx, span, "vip_purchase_failed", "Failed to find tier", err)
	}

	batch, err := s.settlement.SettleVipPurchase(s.keyOrNew(req.IdempotencyKey), acct, tier)
	if err != nil {
		return nil, s.fail(ctx, span, "vip_purchase_failed", "Failed to settle VIP purchase", err)
	}

	if err := s.store.Apply(ctx, batch); err != nil {
		return nil, s.fail(ctx, span, "vip_purchase_failed", "Failed to apply VIP purchase batch", err)
	}

	s.metrics.RecordTransfer(ctx, string(ledger.EntryKindVipPurchase))
	s.publishTouched(ctx, batch)

	return &PurchaseVipTierResponse{
		Level: tier.Level(),
		Frame: tier.FrameURL(),
		Cost:  tier.Cost(),
		Delta: batch.DeltaFor(req.AccountID),
	}, nil
}

// PurchaseStoreItem ストアアイテムを購入
// 価格と報酬はサーバー側のカタログから解決する。
func (s *LedgerApplicationService) PurchaseStoreItem(ctx context.Context, req *PurchaseStoreItemRequest) (*PurchaseStoreItemResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.PurchaseStoreItem")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
		attribute.String("item_id", req.ItemID),
	)

	s.logger.Info(ctx, "Purchasing store item", map[string]interface{}{
		"account_id": req.AccountID,
		"item_id":    req.ItemID,
	})

	acct, err := s.accountRepo.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, s.fail(ctx, span, "store_purchase_failed", "Failed to find account", err)
	}

	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, s.fail(ctx, span, "store_purchase_failed", "Failed to find store item", err)
	}

	batch, err := s.settlement.SettleStorePurchase(s.keyOrNew(req.IdempotencyKey), acct, item)
	if err != nil {
		return nil, s.fail(ctx, span, "store_purchase_failed", "Failed to settle store purchase", err)
	}

	if err := s.store.Apply(ctx, batch); err != nil {
		return nil, s.fail(ctx, span, "store_purchase_failed", "Failed to apply store purchase batch", err)
	}

	s.metrics.RecordTransfer(ctx, string(ledger.EntryKindStorePurchase))
	s.publishTouched(ctx, batch)

	return &PurchaseStoreItemResponse{
		ItemID: req.ItemID,
		Delta:  batch.DeltaFor(req.AccountID),
	}, nil
}

// GrantBalance 管理者による残高調整
func (s *LedgerApplicationService) GrantBalance(ctx context.Context, req *GrantBalanceRequest) (*GrantBalanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.GrantBalance")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
		attribute.String("field", req.Field),
		attribute.Int64("delta", req.Delta),
	)

	s.logger.Info(ctx, "Granting balance adjustment", map[string]interface{}{
		"account_id": req.AccountID,
		"field":      req.Field,
		"delta":      req.Delta,
		"reason":     req.Reason,
	})

	field, err := ledger.NewBalanceField(req.Field)
	if err != nil {
		return nil, s.fail(ctx, span, "grant_failed", "Invalid balance field", err)
	}

	// 対象アカウントの存在確認
	if _, err := s.accountRepo.FindByID(ctx, req.AccountID); err != nil {
		return nil, s.fail(ctx, span, "grant_failed", "Failed to find account", err)
	}

	batch, err := s.settlement.SettleAdminGrant(s.keyOrNew(req.IdempotencyKey), req.AccountID, field, req.Delta, req.Reason)
	if err != nil {
		return nil, s.fail(ctx, span, "grant_failed", "Failed to settle admin grant", err)
	}

	if err := s.store.Apply(ctx, batch); err != nil {
		return nil, s.fail(ctx, span, "grant_failed", "Failed to apply grant batch", err)
	}

	s.metrics.RecordTransfer(ctx, string(ledger.EntryKindAdminGrant))
	s.publishTouched(ctx, batch)

	return &GrantBalanceResponse{
		Delta: batch.DeltaFor(req.AccountID),
	}, nil
}

// GetBalance アカウントの残高スナップショットを取得
func (s *LedgerApplicationService) GetBalance(ctx context.Context, req *GetBalanceRequest) (*GetBalanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "LedgerApplicationService.GetBalance")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
	)

	acct, err := s.accountRepo.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, s.fail(ctx, span, "get_balance_failed", "Failed to find account", err)
	}

	s.metrics.RecordAccountBalance(ctx, acct.AccountID(), "coins", acct.Coins())
	s.metrics.RecordAccountBalance(ctx, acct.AccountID(), "diamonds", acct.Diamonds())

	return &GetBalanceResponse{
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
	}, nil
}

// publishTouched バッチが変更した全アカウントの最新スナップショットを配信
// 配信失敗はログとメトリクスにのみ残す。次回の配信が追いつかせる。
func (s *LedgerApplicationService) publishTouched(ctx context.Context, batch *ledger.Batch) {
	if s.publisher == nil {
		return
	}
	for _, accountID := range batch.TouchedAccountIDs() {
		acct, err := s.accountRepo.FindByID(ctx, accountID)
		if err != nil {
			s.metrics.RecordSnapshotPublish(ctx, "failed")
			s.logger.Warn(ctx, "Failed to reload account for snapshot", map[string]interface{}{
				"account_id": accountID,
				"error":      err.Error(),
			})
			continue
		}
		if err := s.publisher.PublishSnapshot(ctx, acct); err != nil {
			s.metrics.RecordSnapshotPublish(ctx, "failed")
			s.logger.Warn(ctx, "Failed to publish account snapshot", map[string]interface{}{
				"account_id": accountID,
				"error":      err.Error(),
			})
			continue
		}
		s.metrics.RecordSnapshotPublish(ctx, "ok")
		s.observeNegative(ctx, acct)
	}
}

// observeNegative 同時デビット競合で発生したマイナス残高を計測
func (s *LedgerApplicationService) observeNegative(ctx context.Context, acct *account.Account) {
	if acct.Coins() < 0 {
		s.metrics.RecordNegativeBalance(ctx, acct.AccountID(), "coins")
	}
	if acct.Diamonds() < 0 {
		s.metrics.RecordNegativeBalance(ctx, acct.AccountID(), "diamonds")
	}
	if acct.BalanceCents() < 0 {
		s.metrics.RecordNegativeBalance(ctx, acct.AccountID(), "balance_cents")
	}
	if acct.AgencyBalance() < 0 {
		s.metrics.RecordNegativeBalance(ctx, acct.AccountID(), "agency_balance")
	}
}

// keyOrNew 冪等性キーが未指定なら新規生成する
func (s *LedgerApplicationService) keyOrNew(key string) string {
	if key == "" {
		return uuid.NewString()
	}
	return key
}

// fail スパン・ログ・メトリクスへエラーを記録して返す
func (s *LedgerApplicationService) fail(ctx context.Context, span trace.Span, errorType, message string, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	s.logger.Error(ctx, message, err, nil)
	s.metrics.RecordError(ctx, errorType)
	return fmt.Errorf("%s: %w", lowerFirst(message), err)
}

// lowerFirst エラーラップ用にメッセージの先頭を小文字化
func lowerFirst(message string) string {
	if message == "" {
		return message
	}
	b := []byte(message)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
