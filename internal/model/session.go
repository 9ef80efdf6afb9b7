package model

import "time"

// Session はブラウザセッションとバックエンド資格情報の対応を表す。
// アクセストークン・リフレッシュトークンと会員属性を1レコードとして保持し、
// ログアウト・退会・リフレッシュ失敗時には全フィールドをまとめて破棄する。
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	MemberID     int64
	Email        string
	Role         string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
