package notify

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"ledger-server/internal/domain/account"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
)

// SnapshotSubscriber アカウント別チャンネルの購読
// projection.SnapshotStreamとして使用する。デコードできないメッセージは
// 記録して読み飛ばす（次のスナップショットで上書きされるため）。
type SnapshotSubscriber struct {
	pubsub *redis.PubSub
	out    chan *account.Account
	logger *otelinfra.Logger
}

// NewSnapshotSubscriber 指定アカウントのスナップショット購読を開始
func NewSnapshotSubscriber(ctx context.Context, client *redis.Client, channelPrefix, accountID string, logger *otelinfra.Logger) *SnapshotSubscriber {
	pubsub := client.Subscribe(ctx, channelPrefix+":"+accountID)

	s := &SnapshotSubscriber{
		pubsub: pubsub,
		out:    make(chan *account.Account, 16),
		logger: logger,
	}
	go s.pump(ctx)
	return s
}

// Snapshots 受信したスナップショットのチャンネルを返す
func (s *SnapshotSubscriber) Snapshots() <-chan *account.Account {
	return s.out
}

// Close 購読を終了する
func (s *SnapshotSubscriber) Close() error {
	return s.pubsub.Close()
}

func (s *SnapshotSubscriber) pump(ctx context.Context) {
	defer close(s.out)

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			acct, err := decodeSnapshot([]byte(msg.Payload))
			if err != nil {
				s.logger.Warn(ctx, "Dropping undecodable snapshot", map[string]interface{}{
					"channel": msg.Channel,
					"error":   err.Error(),
				})
				continue
			}
			select {
			case s.out <- acct:
			case <-ctx.Done():
				return
			}
		}
	}
}

// decodeSnapshot ワイヤ表現からアカウントを復元する
func decodeSnapshot(data []byte) (*account.Account, error) {
	var payload snapshotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	roles, err := account.ParseRoleSet(payload.Roles)
	if err != nil {
		return nil, err
	}

	return account.Reconstruct(
		payload.AccountID,
		payload.BalanceCents,
		payload.Coins,
		payload.Diamonds,
		payload.Wealth,
		payload.Charm,
		payload.AgencyBalance,
		payload.RechargePoints,
		payload.VipLevel,
		payload.Frame,
		payload.AgencyID,
		roles,
		payload.CustomRates,
		payload.Version,
	)
}
