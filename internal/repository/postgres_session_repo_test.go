package repository

import (
	"testing"
	"time"

	"github.com/suppleit/supplefront/internal/model"
)

// PostgresSessionRepoはSessionRepositoryインターフェースを満たすことを検証
func TestPostgresSessionRepo_ImplementsInterface(t *testing.T) {
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
}

// NewPostgresSessionRepoが正しく初期化されることを検証
func TestNewPostgresSessionRepo_Initializes(t *testing.T) {
	repo := NewPostgresSessionRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// セッションレコードの期限判定のコンセプトを検証する。
// FindByIDはexpires_at > now()のレコードのみ返すため、
// 期限切れセッションは読み取り時点で無効となる。
func TestSession_ExpiryConcept(t *testing.T) {
	expired := &model.Session{
		ID:        "sess-expired",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	active := &model.Session{
		ID:        "sess-active",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	if !expired.ExpiresAt.Before(time.Now()) {
		t.Error("expired session should have a past expires_at")
	}
	if !active.ExpiresAt.After(time.Now()) {
		t.Error("active session should have a future expires_at")
	}
}
