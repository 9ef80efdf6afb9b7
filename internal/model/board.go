package model

import "time"

// Notice はお知らせ掲示板のレコードを表す。
// 一覧・詳細の閲覧は未認証でも可能。作成・編集は管理者のみ（バックエンドが強制）。
type Notice struct {
	NoticeID       int64     `json:"noticeId"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	MemberID       int64     `json:"memberId,omitempty"`
	AuthorName     string    `json:"authorName,omitempty"`
	LastModifiedBy int64     `json:"lastModifiedBy,omitempty"`
	ModifierName   string    `json:"modifierName,omitempty"`
	ImagePath      string    `json:"imagePath,omitempty"`
	AttachmentPath string    `json:"attachmentPath,omitempty"`
	AttachmentName string    `json:"attachmentName,omitempty"`
	Views          int       `json:"views"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
}

// Review は製品レビュー掲示板のレコードを表す。
// 1〜5の星評価と作成者情報を持つ。作成者情報は編集・削除ボタンの
// 表示判定にのみ使用し、権限の強制はバックエンドが行う。
type Review struct {
	ReviewID     int64     `json:"reviewId"`
	MemberID     int64     `json:"memberId,omitempty"`
	AuthorEmail  string    `json:"authorEmail,omitempty"`
	PrdID        int64     `json:"prdId,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ProductName  string    `json:"productName,omitempty"`
	Views        int       `json:"views"`
	Rating       int       `json:"rating"`
	LikeCount    int       `json:"likeCount"`
	DislikeCount int       `json:"dislikeCount"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}
