// Package handler はSPA向けHTTP APIのハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/suppleit/supplefront/internal/middleware"
	"github.com/suppleit/supplefront/internal/model"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// handleServiceError はサービス層のエラーを統一フォーマットのレスポンスに変換する。
// セッション失効はSPA側で再ログイン誘導に使われるため、コードをそのまま透過する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteAPIError(w, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// writeInvalidBodyError はリクエストボディの解析失敗レスポンスを書き込む。
func writeInvalidBodyError(w http.ResponseWriter) {
	middleware.WriteAPIError(w, &model.APIError{
		Code:     "INVALID_REQUEST",
		Status:   http.StatusBadRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// idParam はURLパラメータから数値IDを取得する。
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.APIError{
			Code:     "INVALID_REQUEST",
			Status:   http.StatusBadRequest,
			Message:  "IDの形式が正しくありません。",
			Category: "validation",
			Action:   "正しいIDを指定してください。",
		}
	}
	return id, nil
}

// sessionFrom はコンテキストからセッションを取得する。
// ルートガードを通過したリクエストで取得できない場合は401を書き込みfalseを返す。
func sessionFrom(w http.ResponseWriter, r *http.Request) (*model.Session, bool) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, model.NewLoginRequiredError())
		return nil, false
	}
	return session, true
}

// optionalSession はコンテキストからセッションを取得する。
// 未認証で閲覧できるルート用で、セッションが無い場合はnilを返す。
func optionalSession(r *http.Request) *model.Session {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		return nil
	}
	return session
}
