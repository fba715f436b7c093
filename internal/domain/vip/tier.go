package vip

import (
	"errors"
	"regexp"
)

var (
	// ErrTierNotFound VIPティアが見つからないエラー
	ErrTierNotFound = errors.New("vip tier not found")
	// ErrInvalidTierID ティアIDが無効
	ErrInvalidTierID = errors.New("invalid tier id")
	// ErrInvalidTier ティア定義が無効
	ErrInvalidTier = errors.New("invalid tier")
	// ErrTierAlreadyOwned 同等以上のティアを既に保有しているエラー
	ErrTierAlreadyOwned = errors.New("tier already owned")
)

var tierIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,255}$`)

// Tier VIPティアエンティティ
type Tier struct {
	tierID   string
	level    int
	cost     int64 // コイン建て価格
	frameURL string
}

// NewTier 新しいTierエンティティを作成
func NewTier(tierID string, level int, cost int64, frameURL string) (*Tier, error) {
	if !tierIDRegex.MatchString(tierID) {
		return nil, ErrInvalidTierID
	}
	if level <= 0 || cost <= 0 {
		return nil, ErrInvalidTier
	}
	return &Tier{
		tierID:   tierID,
		level:    level,
		cost:     cost,
		frameURL: frameURL,
	}, nil
}

// TierID ティアIDを返す
func (t *Tier) TierID() string {
	return t.tierID
}

// Level ティアレベルを返す
func (t *Tier) Level() int {
	return t.level
}

// Cost 価格を返す
func (t *Tier) Cost() int64 {
	return t.cost
}

// FrameURL フレームURLを返す
func (t *Tier) FrameURL() string {
	return t.frameURL
}

// MustNewTier テスト用ヘルパー: NewTierを呼び出し、エラーが発生した場合はpanicする
func MustNewTier(tierID string, level int, cost int64, frameURL string) *Tier {
	t, err := NewTier(tierID, level, cost, frameURL)
	if err != nil {
		panic(err)
	}
	return t
}
