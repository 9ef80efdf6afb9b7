// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/suppleit/supplefront/internal/model"
)

// SessionRepository はセッションデータの永続化インターフェース。
// セッションはこのサービスが唯一保持する永続状態であり、
// バックエンドのトークンと会員属性を1レコードとして持つ。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// UpdateTokens はセッションのトークンを更新する。
	// リフレッシュフローでアクセストークンを差し替える際に使用する。
	// 書き込みはlast-writer-winsとし、追加のロックは行わない。
	UpdateTokens(ctx context.Context, session *model.Session) error
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れの全セッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
