package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ledger-server/internal/domain/account"
)

// SnapshotPublisher Redis Pub/Sub実装のスナップショット配信
// バッチ適用後の残高全体をアカウント別チャンネルへpushする。購読側は
// 差分ではなくスナップショット全体で上書きするため、取りこぼしがあっても
// 次の受信で収束する（at-least-once）。
type SnapshotPublisher struct {
	client        *redis.Client
	channelPrefix string
	tracer        trace.Tracer
}

// NewSnapshotPublisher 新しいSnapshotPublisherを作成
func NewSnapshotPublisher(client *redis.Client, channelPrefix string) *SnapshotPublisher {
	return &SnapshotPublisher{
		client:        client,
		channelPrefix: channelPrefix,
		tracer:        otel.Tracer("snapshot-publisher"),
	}
}

// PublishSnapshot アカウントのスナップショットを配信
func (p *SnapshotPublisher) PublishSnapshot(ctx context.Context, acct *account.Account) error {
	ctx, span := p.tracer.Start(ctx, "SnapshotPublisher.PublishSnapshot")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "redis"),
		attribute.String("account_id", acct.AccountID()),
	)

	payload := snapshotPayload{
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
		AgencyID:       acct.AgencyID(),
		Roles:          acct.Roles().String(),
		CustomRates:    acct.CustomRates(),
		Version:        acct.Version(),
		PublishedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	channel := p.channelName(acct.AccountID())
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "snapshot published")
	return nil
}

func (p *SnapshotPublisher) channelName(accountID string) string {
	return p.channelPrefix + ":" + accountID
}
