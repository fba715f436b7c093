package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	t.Run("正常系: ワイヤ表現から復元", func(t *testing.T) {
		payload := snapshotPayload{
			AccountID:      "user1",
			BalanceCents:   2000,
			Coins:          1500,
			Diamonds:       300,
			Wealth:         5000,
			Charm:          100,
			AgencyBalance:  0,
			RechargePoints: 50,
			VipLevel:       2,
			Frame:          "silver.png",
			AgencyID:       "agency1",
			Roles:          "host",
			CustomRates:    map[string]int64{"1000 Coins": 120},
			Version:        3,
			PublishedAt:    time.Now().UTC(),
		}
		data, err := json.Marshal(payload)
		require.NoError(t, err)

		acct, err := decodeSnapshot(data)

		require.NoError(t, err)
		assert.Equal(t, "user1", acct.AccountID())
		assert.Equal(t, int64(1500), acct.Coins())
		assert.Equal(t, int64(300), acct.Diamonds())
		assert.Equal(t, 2, acct.VipLevel())
		assert.Equal(t, "agency1", acct.AgencyID())
		assert.Equal(t, int64(120), acct.CoinRateFor("1000 Coins", 100))
	})

	t.Run("異常系: 不正なJSON", func(t *testing.T) {
		_, err := decodeSnapshot([]byte(`{not json`))
		assert.Error(t, err)
	})

	t.Run("異常系: 未知のロール", func(t *testing.T) {
		data, err := json.Marshal(snapshotPayload{AccountID: "user1", Roles: "overlord"})
		require.NoError(t, err)

		_, err = decodeSnapshot(data)
		assert.Error(t, err)
	})
}

func TestSnapshotPublisher_ChannelName(t *testing.T) {
	p := &SnapshotPublisher{channelPrefix: "account"}
	assert.Equal(t, "account:user1", p.channelName("user1"))
}
