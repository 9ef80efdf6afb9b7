package model

// Gender は会員の性別を表す。
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// MemberRole は会員の権限ロールを表す。
// クライアント側はバックエンドが返したロールを表示に反映するのみで、
// 権限の強制はバックエンドが行う。
type MemberRole string

const (
	// RoleUser は一般会員。
	RoleUser MemberRole = "USER"
	// RoleAdmin は管理者。お知らせの作成・編集が許可される。
	RoleAdmin MemberRole = "ADMIN"
)

// SocialType はソーシャルログインのプロバイダー種別を表す。
type SocialType string

const (
	SocialNone   SocialType = "NONE"
	SocialGoogle SocialType = "GOOGLE"
	SocialNaver  SocialType = "NAVER"
	SocialKakao  SocialType = "KAKAO"
)

// Member は会員情報を表す。バックエンドの /member 系エンドポイントのレコード。
type Member struct {
	MemberID   int64      `json:"memberId"`
	Email      string     `json:"email"`
	Nickname   string     `json:"nickname"`
	Gender     Gender     `json:"gender,omitempty"`
	Birth      Date       `json:"birth,omitzero"`
	MemberRole MemberRole `json:"memberRole"`
	SocialType SocialType `json:"socialType,omitempty"`
}
