package account

import (
	"fmt"
	"sort"
	"strings"
)

// Role アカウントロールを表す値オブジェクト
type Role string

const (
	RoleAdmin       Role = "admin"        // 管理者
	RoleAgencyAgent Role = "agency_agent" // チャージエージェント
	RoleHost        Role = "host"         // ホスト
	RoleHostAgent   Role = "host_agent"   // ホストエージェント
	RoleBlocked     Role = "blocked"      // ブロック済み
)

// NewRole 新しいRoleを作成
func NewRole(s string) (Role, error) {
	switch s {
	case "admin", "agency_agent", "host", "host_agent", "blocked":
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role: %s", s)
	}
}

// String 文字列表現を返す
func (r Role) String() string {
	return string(r)
}

// Valid 有効なロールかどうかを返す
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgencyAgent, RoleHost, RoleHostAgent, RoleBlocked:
		return true
	default:
		return false
	}
}

// RoleSet ロールの集合
type RoleSet map[Role]struct{}

// NewRoleSet 新しいRoleSetを作成
func NewRoleSet(roles ...Role) RoleSet {
	rs := make(RoleSet, len(roles))
	for _, r := range roles {
		rs[r] = struct{}{}
	}
	return rs
}

// ParseRoleSet カンマ区切り文字列からRoleSetを復元
func ParseRoleSet(s string) (RoleSet, error) {
	rs := NewRoleSet()
	if s == "" {
		return rs, nil
	}
	for _, part := range strings.Split(s, ",") {
		r, err := NewRole(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		rs[r] = struct{}{}
	}
	return rs, nil
}

// Has 指定ロールを持つかどうかを返す
func (rs RoleSet) Has(r Role) bool {
	_, ok := rs[r]
	return ok
}

// Add ロールを追加する
func (rs RoleSet) Add(r Role) {
	rs[r] = struct{}{}
}

// String カンマ区切りの文字列表現を返す（順序は安定）
func (rs RoleSet) String() string {
	parts := make([]string, 0, len(rs))
	for r := range rs {
		parts = append(parts, string(r))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
