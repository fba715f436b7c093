package reward

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidReward 報酬定義が無効
	ErrInvalidReward = errors.New("invalid reward")
	// ErrUnknownRewardKind 未知の報酬種別エラー
	ErrUnknownRewardKind = errors.New("unknown reward kind")
)

// Kind 報酬種別を表す値オブジェクト
type Kind string

const (
	KindCoins   Kind = "coins"    // コイン付与
	KindFrame   Kind = "frame"    // コスメティックフレーム
	KindEntry   Kind = "entry"    // 入室エフェクト（期限付き）
	KindBubble  Kind = "bubble"   // チャットバブル（期限付き）
	KindVipTier Kind = "vip_tier" // VIPティア
)

// Valid 有効な報酬種別かどうかを返す
func (k Kind) Valid() bool {
	switch k {
	case KindCoins, KindFrame, KindEntry, KindBubble, KindVipTier:
		return true
	default:
		return false
	}
}

// String 文字列表現を返す
func (k Kind) String() string {
	return string(k)
}

// Reward 報酬のクローズドなタグ付きユニオン
// 既知の報酬種別のみが実装する。動的な報酬ペイロードは持たない。
type Reward interface {
	// Kind 報酬種別を返す
	Kind() Kind
	// String 表示用の文字列表現を返す
	String() string
}

// Coins コイン付与報酬
type Coins struct {
	Amount int64
}

// Kind 報酬種別を返す
func (c Coins) Kind() Kind { return KindCoins }

// String 表示用の文字列表現を返す
func (c Coins) String() string { return fmt.Sprintf("coins:%d", c.Amount) }

// Frame コスメティックフレーム報酬
type Frame struct {
	FrameURL string
}

// Kind 報酬種別を返す
func (f Frame) Kind() Kind { return KindFrame }

// String 表示用の文字列表現を返す
func (f Frame) String() string { return "frame:" + f.FrameURL }

// Entry 入室エフェクト報酬（日数限定）
type Entry struct {
	ItemID string
	Days   int
}

// Kind 報酬種別を返す
func (e Entry) Kind() Kind { return KindEntry }

// String 表示用の文字列表現を返す
func (e Entry) String() string { return fmt.Sprintf("entry:%s:%dd", e.ItemID, e.Days) }

// Bubble チャットバブル報酬（日数限定）
type Bubble struct {
	ItemID string
	Days   int
}

// Kind 報酬種別を返す
func (b Bubble) Kind() Kind { return KindBubble }

// String 表示用の文字列表現を返す
func (b Bubble) String() string { return fmt.Sprintf("bubble:%s:%dd", b.ItemID, b.Days) }

// VipTier VIPティア報酬
type VipTier struct {
	TierID string
}

// Kind 報酬種別を返す
func (v VipTier) Kind() Kind { return KindVipTier }

// String 表示用の文字列表現を返す
func (v VipTier) String() string { return "vip_tier:" + v.TierID }

// Parse ワイヤ表現（種別と値）から報酬を構築する
// coinsの値は付与額、entry/bubbleの値は日数、frameの値はURL、
// vip_tierの値はティアID。entry/bubbleのアイテムIDはitemIDを使う。
func Parse(kind Kind, itemID, value string) (Reward, error) {
	var r Reward
	switch kind {
	case KindCoins:
		amount, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: coins amount %q", ErrInvalidReward, value)
		}
		r = Coins{Amount: amount}
	case KindFrame:
		r = Frame{FrameURL: value}
	case KindEntry:
		days, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: entry days %q", ErrInvalidReward, value)
		}
		r = Entry{ItemID: itemID, Days: days}
	case KindBubble:
		days, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: bubble days %q", ErrInvalidReward, value)
		}
		r = Bubble{ItemID: itemID, Days: days}
	case KindVipTier:
		r = VipTier{TierID: value}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRewardKind, kind)
	}
	if err := Validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate 報酬の内容を検証する
func Validate(r Reward) error {
	switch v := r.(type) {
	case Coins:
		if v.Amount <= 0 {
			return ErrInvalidReward
		}
	case Frame:
		if v.FrameURL == "" {
			return ErrInvalidReward
		}
	case Entry:
		if v.ItemID == "" || v.Days <= 0 {
			return ErrInvalidReward
		}
	case Bubble:
		if v.ItemID == "" || v.Days <= 0 {
			return ErrInvalidReward
		}
	case VipTier:
		if v.TierID == "" {
			return ErrInvalidReward
		}
	default:
		return ErrUnknownRewardKind
	}
	return nil
}
