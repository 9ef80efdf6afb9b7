// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Status   int    // 対応するHTTPステータス
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, backend, network, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeLoginRequired      = "LOGIN_REQUIRED"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeBackendRejected    = "BACKEND_REJECTED"
	ErrCodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	ErrCodeScheduleNotFound   = "SCHEDULE_NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewSessionExpiredError はセッション失効エラーを生成する。
// リフレッシュトークンが存在しない、またはリフレッシュに失敗した場合に返す。
func NewSessionExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionExpired,
		Status:   401,
		Message:  "セッションの有効期限が切れました。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewLoginRequiredError はログイン必須エラーを生成する。
// 保護されたルートにセッションなしでアクセスした場合に返す。
func NewLoginRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginRequired,
		Status:   401,
		Message:  "ログインが必要なページです。",
		Category: "auth",
		Action:   "ログインページからログインしてください。",
	}
}

// NewValidationError は入力検証エラーを生成する。
// ネットワーク呼び出しの前に検出され、バックエンドには送信されない。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Status:   400,
		Message:  reason,
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewBackendError はバックエンドに拒否された操作のエラーを生成する。
// メッセージはバックエンドレスポンスのmessageフィールドをそのまま表示する。
func NewBackendError(status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("バックエンドがステータス %d を返しました。", status)
	}
	return &APIError{
		Code:     ErrCodeBackendRejected,
		Status:   status,
		Message:  message,
		Category: "backend",
		Action:   "内容を確認して再度お試しください。",
	}
}

// NewNetworkError はネットワーク障害エラーを生成する。
// 呼び出しは中断され、自動リトライは行わない。
func NewNetworkError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeBackendUnavailable,
		Status:   502,
		Message:  "サーバーとの通信に失敗しました。",
		Category: "network",
		Action:   fmt.Sprintf("しばらく待ってから再度お試しください。(%s)", reason),
	}
}

// NewScheduleNotFoundError はスケジュール未検出エラーを生成する。
func NewScheduleNotFoundError(scheduleID int64) *APIError {
	return &APIError{
		Code:     ErrCodeScheduleNotFound,
		Status:   404,
		Message:  fmt.Sprintf("指定された服用スケジュールが見つかりません: %d", scheduleID),
		Category: "backend",
		Action:   "スケジュール一覧を再読み込みしてください。",
	}
}
