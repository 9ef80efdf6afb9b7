package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suppleit/supplefront/internal/gateway"
	"github.com/suppleit/supplefront/internal/middleware"
	"github.com/suppleit/supplefront/internal/model"
	"github.com/suppleit/supplefront/internal/validate"
)

// MemberGateway は会員ハンドラーが必要とするバックエンド操作のインターフェース。
type MemberGateway interface {
	Join(ctx context.Context, req gateway.JoinRequest) error
	MemberInfo(ctx context.Context, sess *model.Session) (*model.Member, error)
	UpdateMember(ctx context.Context, sess *model.Session, req gateway.MemberUpdateRequest) error
	DeleteMember(ctx context.Context, sess *model.Session) error
	CheckEmail(ctx context.Context, email string) (bool, string, error)
	CheckNickname(ctx context.Context, nickname string) (bool, string, error)
	AccountType(ctx context.Context, sess *model.Session) (model.SocialType, error)
}

// MemberHandler は会員登録・会員情報管理のHTTPハンドラー。
type MemberHandler struct {
	gateway  MemberGateway
	sessions SessionStore
}

// NewMemberHandler はMemberHandlerを生成する。
func NewMemberHandler(gw MemberGateway, sessions SessionStore) *MemberHandler {
	return &MemberHandler{
		gateway:  gw,
		sessions: sessions,
	}
}

// joinRequest は会員登録リクエストのボディ。
type joinRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Nickname string       `json:"nickname"`
	Gender   model.Gender `json:"gender"`
	Birth    model.Date   `json:"birth"`
}

// Join は会員登録を処理する。
// 全フィールドをネットワーク呼び出しの前に検証する。
// POST /app/members
func (h *MemberHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	form := validate.SignupForm{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	}
	if ok, reason := validate.Signup(form, req.Birth); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	err := h.gateway.Join(r.Context(), gateway.JoinRequest{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
		Gender:   req.Gender,
		Birth:    req.Birth,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "会員登録が完了しました。"})
}

// Me はログイン中の会員情報を返す。
// GET /app/members/me
func (h *MemberHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	member, err := h.gateway.MemberInfo(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// updateRequest は会員情報更新リクエストのボディ。
type updateRequest struct {
	Nickname string       `json:"nickname"`
	Password string       `json:"password"`
	Gender   model.Gender `json:"gender"`
	Birth    model.Date   `json:"birth"`
}

// Update は会員情報の更新を処理する。
// 設定されたフィールドのみ検証して転送する。
// PUT /app/members/me
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}

	if req.Nickname != "" {
		if ok, reason := validate.Nickname(req.Nickname); !ok {
			middleware.WriteAPIError(w, model.NewValidationError(reason))
			return
		}
	}
	if req.Password != "" {
		if ok, reason := validate.Password(req.Password); !ok {
			middleware.WriteAPIError(w, model.NewValidationError(reason))
			return
		}
	}
	if !req.Birth.IsZero() {
		if ok, reason := validate.BirthDate(req.Birth); !ok {
			middleware.WriteAPIError(w, model.NewValidationError(reason))
			return
		}
	}

	err := h.gateway.UpdateMember(r.Context(), session, gateway.MemberUpdateRequest{
		Nickname: req.Nickname,
		Password: req.Password,
		Gender:   req.Gender,
		Birth:    req.Birth,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "会員情報を更新しました。"})
}

// Withdraw は退会を処理する。退会後はセッションも破棄する。
// DELETE /app/members/me
func (h *MemberHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := h.gateway.DeleteMember(r.Context(), session); err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.sessions.DeleteByID(r.Context(), session.ID); err != nil {
		slog.Error("退会後のセッション削除に失敗しました",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "退会が完了しました。"})
}

// availabilityResponse は重複チェックのレスポンス。
type availabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// CheckEmail はメールアドレスの形式検証と重複チェックを行う。
// 形式エラーはバックエンドに問い合わせずに返す。
// GET /app/members/validation/email/{email}
func (h *MemberHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if ok, reason := validate.Email(email); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	available, message, err := h.gateway.CheckEmail(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availabilityResponse{Available: available, Message: message})
}

// CheckNickname はニックネームの形式検証と重複チェックを行う。
// GET /app/members/validation/nickname/{nickname}
func (h *MemberHandler) CheckNickname(w http.ResponseWriter, r *http.Request) {
	nickname := chi.URLParam(r, "nickname")
	if ok, reason := validate.Nickname(nickname); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	available, message, err := h.gateway.CheckNickname(r.Context(), nickname)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availabilityResponse{Available: available, Message: message})
}

// AccountType はログイン中の会員の認証種別を返す。
// マイページでパスワード変更UIの表示可否の判定に使用する。
// GET /app/members/me/account-type
func (h *MemberHandler) AccountType(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	socialType, err := h.gateway.AccountType(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]model.SocialType{"socialType": socialType})
}
