package agency

import "errors"

var (
	// ErrAgencyNotFound エージェンシーが見つからないエラー
	ErrAgencyNotFound = errors.New("agency not found")
	// ErrAgencyAlreadyExists エージェンシーが既に存在するエラー
	ErrAgencyAlreadyExists = errors.New("agency already exists")
	// ErrInvalidAgencyID エージェンシーIDが無効
	ErrInvalidAgencyID = errors.New("invalid agency id")
	// ErrInvalidAgency エージェンシー定義が無効
	ErrInvalidAgency = errors.New("invalid agency")
)
