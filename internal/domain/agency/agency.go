package agency

import (
	"regexp"
)

var agencyIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,255}$`)

// Agency ホストエージェンシーエンティティ
// totalProductionは所属ホストの獲得分の合計で、単調増加のみ。
// アカウントからは弱参照されるため、エージェンシー削除はアカウントに波及しない。
type Agency struct {
	agencyID        string
	name            string
	agentAccountID  string // エージェンシーを運営するエージェントのアカウントID
	totalProduction int64
}

// NewAgency 新しいAgencyエンティティを作成
func NewAgency(agencyID, name, agentAccountID string) (*Agency, error) {
	if !agencyIDRegex.MatchString(agencyID) {
		return nil, ErrInvalidAgencyID
	}
	if name == "" {
		return nil, ErrInvalidAgency
	}
	return &Agency{
		agencyID:       agencyID,
		name:           name,
		agentAccountID: agentAccountID,
	}, nil
}

// ReconstructAgency 永続化層からAgencyを復元
func ReconstructAgency(agencyID, name, agentAccountID string, totalProduction int64) *Agency {
	return &Agency{
		agencyID:        agencyID,
		name:            name,
		agentAccountID:  agentAccountID,
		totalProduction: totalProduction,
	}
}

// AgencyID エージェンシーIDを返す
func (a *Agency) AgencyID() string {
	return a.agencyID
}

// Name エージェンシー名を返す
func (a *Agency) Name() string {
	return a.name
}

// AgentAccountID エージェントのアカウントIDを返す
func (a *Agency) AgentAccountID() string {
	return a.agentAccountID
}

// TotalProduction 累計生産を返す
func (a *Agency) TotalProduction() int64 {
	return a.totalProduction
}

// MustNewAgency テスト用ヘルパー: NewAgencyを呼び出し、エラーが発生した場合はpanicする
func MustNewAgency(agencyID, name, agentAccountID string) *Agency {
	a, err := NewAgency(agencyID, name, agentAccountID)
	if err != nil {
		panic(err)
	}
	return a
}
