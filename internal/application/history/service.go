package history

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/gift"
	"ledger-server/internal/domain/ledger"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
)

// HistoryApplicationService 履歴アプリケーションサービス
// 台帳エントリとギフトイベントの読み取り専用ビューを提供する。
type HistoryApplicationService struct {
	entryRepo ledger.EntryRepository
	eventRepo gift.EventRepository
	logger    *otelinfra.Logger
	metrics   *otelinfra.Metrics
	tracer    trace.Tracer
}

// NewHistoryApplicationService 新しいHistoryApplicationServiceを作成
func NewHistoryApplicationService(
	entryRepo ledger.EntryRepository,
	eventRepo gift.EventRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *HistoryApplicationService {
	return &HistoryApplicationService{
		entryRepo: entryRepo,
		eventRepo: eventRepo,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer("history-service"),
	}
}

// GetEntryHistory 台帳エントリ履歴を取得
func (s *HistoryApplicationService) GetEntryHistory(ctx context.Context, req *GetEntryHistoryRequest) (*GetEntryHistoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HistoryApplicationService.GetEntryHistory")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
		attribute.Int("limit", req.Limit),
		attribute.Int("offset", req.Offset),
	)

	s.logger.Info(ctx, "Getting entry history", map[string]interface{}{
		"account_id": req.AccountID,
		"limit":      req.Limit,
		"offset":     req.Offset,
		"kind":       req.Kind,
	})

	limit, offset := clampPage(req.Limit, req.Offset)

	entries, err := s.entryRepo.FindByAccountID(ctx, req.AccountID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to get entry history", err, map[string]interface{}{
			"account_id": req.AccountID,
		})
		return nil, fmt.Errorf("failed to get entry history: %w", err)
	}

	// 種別フィルタはストア側に持たせずアプリ側で絞り込む
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		if req.Kind != "" {
			kind, kerr := ledger.NewEntryKind(req.Kind)
			if kerr == nil && e.Kind() != kind {
				continue
			}
		}
		views = append(views, toEntryView(e))
	}

	return &GetEntryHistoryResponse{
		Entries: views,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// GetGiftHistory ギフトイベント履歴を取得
// 送信者・受信者どちらとして関わったイベントも含まれる。
func (s *HistoryApplicationService) GetGiftHistory(ctx context.Context, req *GetGiftHistoryRequest) (*GetGiftHistoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HistoryApplicationService.GetGiftHistory")
	defer span.End()

	span.SetAttributes(
		attribute.String("account_id", req.AccountID),
		attribute.Int("limit", req.Limit),
		attribute.Int("offset", req.Offset),
	)

	s.logger.Info(ctx, "Getting gift history", map[string]interface{}{
		"account_id": req.AccountID,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})

	limit, offset := clampPage(req.Limit, req.Offset)

	events, err := s.eventRepo.FindByAccountID(ctx, req.AccountID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to get gift history", err, map[string]interface{}{
			"account_id": req.AccountID,
		})
		return nil, fmt.Errorf("failed to get gift history: %w", err)
	}

	views := make([]GiftEventView, 0, len(events))
	for _, e := range events {
		views = append(views, toGiftEventView(e))
	}

	return &GetGiftHistoryResponse{
		Events: views,
		Limit:  limit,
		Offset: offset,
	}, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
