package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/suppleit/supplefront/internal/gateway"
	"github.com/suppleit/supplefront/internal/middleware"
	"github.com/suppleit/supplefront/internal/model"
	"github.com/suppleit/supplefront/internal/validate"
)

const sessionCookieName = "session_id"

// AuthGateway は認証ハンドラーが必要とするバックエンド操作のインターフェース。
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*gateway.LoginResult, error)
	Logout(ctx context.Context, sess *model.Session) error
	SocialLogin(ctx context.Context, provider, code, state string) (*gateway.LoginResult, error)
	MemberInfo(ctx context.Context, sess *model.Session) (*model.Member, error)
	ChangePassword(ctx context.Context, sess *model.Session, currentPassword, newPassword string) error
	FindPassword(ctx context.Context, email, nickname string) error
}

// SessionStore は認証ハンドラーが必要とするセッション永続化のインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	DeleteByID(ctx context.Context, id string) error
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	SessionMaxAge time.Duration // セッションの有効期間
	CookieSecure  bool
	CookieDomain  string
	BaseURL       string // ソーシャルログイン成功後のリダイレクト先
}

// AuthHandler はログイン・ログアウト・パスワード管理のHTTPハンドラー。
// ログイン成功時にバックエンドのトークンをサーバー側セッションに格納し、
// ブラウザにはHTTP OnlyのセッションCookieのみを渡す。
type AuthHandler struct {
	gateway  AuthGateway
	sessions SessionStore
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(gw AuthGateway, sessions SessionStore, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		gateway:  gw,
		sessions: sessions,
		config:   config,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse はログイン成功時のレスポンス。
// トークンは含めない。セッションCookieが認証手段となる。
type loginResponse struct {
	Member model.Member `json:"member"`
}

// Login はメールアドレスとパスワードによるログインを処理する。
// POST /app/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	if ok, reason := validate.Email(req.Email); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}
	if req.Password == "" {
		middleware.WriteAPIError(w, model.NewValidationError("パスワードを入力してください。"))
		return
	}

	result, err := h.gateway.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.establishSession(w, r, result); err != nil {
		slog.Error("セッションの作成に失敗しました", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Member: result.Member})
}

// socialLoginRequest はソーシャルログインリクエストのボディ。
// stateはNaverのみ使用する。
type socialLoginRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// SocialLogin はOAuth認可コードによるソーシャルログインを処理する。
// SPAがプロバイダーから受け取った認可コードをバックエンドと交換する。
// POST /app/auth/social/{provider}
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	switch provider {
	case "google", "naver", "kakao":
	default:
		middleware.WriteAPIError(w, model.NewValidationError("サポートされていない認証プロバイダーです。"))
		return
	}

	var req socialLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}
	if req.Code == "" {
		middleware.WriteAPIError(w, model.NewValidationError("認可コードがありません。"))
		return
	}

	result, err := h.gateway.SocialLogin(r.Context(), provider, req.Code, req.State)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.establishSession(w, r, result); err != nil {
		slog.Error("セッションの作成に失敗しました", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Member: result.Member})
}

// SocialSuccess はバックエンドがリダイレクトで返すソーシャルログイン成功を処理する。
// クエリのトークンで会員情報を取得してセッションを確立し、ホームへリダイレクトする。
// GET /app/auth/social/success?accessToken=...&refreshToken=...
func (h *AuthHandler) SocialSuccess(w http.ResponseWriter, r *http.Request) {
	accessToken := r.URL.Query().Get("accessToken")
	refreshToken := r.URL.Query().Get("refreshToken")
	if accessToken == "" {
		middleware.WriteAPIError(w, model.NewValidationError("アクセストークンがありません。"))
		return
	}

	// トークンだけの仮セッションで会員情報を取得する
	tokenOnly := &model.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}
	member, err := h.gateway.MemberInfo(r.Context(), tokenOnly)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result := &gateway.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Member:       *member,
	}
	if err := h.establishSession(w, r, result); err != nil {
		slog.Error("セッションの作成に失敗しました", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	home := h.config.BaseURL
	if home == "" {
		home = "/"
	}
	http.Redirect(w, r, home, http.StatusFound)
}

// Logout はログアウトを処理する。
// バックエンドのトークン無効化が失敗してもローカルセッションは必ず破棄する。
// POST /app/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.gateway.Logout(r.Context(), session); err != nil {
		slog.Warn("バックエンドのログアウトに失敗しました",
			slog.Int64("member_id", session.MemberID),
			slog.String("error", err.Error()),
		)
	}

	if err := h.sessions.DeleteByID(r.Context(), session.ID); err != nil {
		slog.Error("セッションの削除に失敗しました", slog.String("error", err.Error()))
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "ログアウトしました。"})
}

// changePasswordRequest はパスワード変更リクエストのボディ。
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword はパスワード変更を処理する。
// POST /app/auth/password/change
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	if req.CurrentPassword == "" {
		middleware.WriteAPIError(w, model.NewValidationError("現在のパスワードを入力してください。"))
		return
	}
	if ok, reason := validate.Password(req.NewPassword); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	if err := h.gateway.ChangePassword(r.Context(), session, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "パスワードを変更しました。"})
}

// findPasswordRequest はパスワード再設定リクエストのボディ。
type findPasswordRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// FindPassword はパスワード再設定（仮パスワードのメール送信）を処理する。
// POST /app/auth/password/find
func (h *AuthHandler) FindPassword(w http.ResponseWriter, r *http.Request) {
	var req findPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	if ok, reason := validate.Email(req.Email); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}
	if ok, reason := validate.Nickname(req.Nickname); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	if err := h.gateway.FindPassword(r.Context(), req.Email, req.Nickname); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "仮パスワードをメールで送信しました。"})
}

// establishSession は認証結果からセッションを作成しCookieを設定する。
func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, result *gateway.LoginResult) error {
	now := time.Now()
	session := &model.Session{
		ID:           uuid.NewString(),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		MemberID:     result.Member.MemberID,
		Email:        result.Member.Email,
		Role:         string(result.Member.MemberRole),
		ExpiresAt:    now.Add(h.config.SessionMaxAge),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.sessions.Create(r.Context(), session); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   int(h.config.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clearSessionCookie はセッションCookieを失効させる。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
