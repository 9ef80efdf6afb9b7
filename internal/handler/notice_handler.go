package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/suppleit/supplefront/internal/gateway"
	"github.com/suppleit/supplefront/internal/middleware"
	"github.com/suppleit/supplefront/internal/model"
	"github.com/suppleit/supplefront/internal/noticeutil"
	"github.com/suppleit/supplefront/internal/security"
)

// maxNoticeFormSize はお知らせフォームの最大サイズ（添付・インライン画像込み）。
const maxNoticeFormSize = 32 << 20 // 32MB

// NoticeGateway はお知らせハンドラーが必要とするバックエンド操作のインターフェース。
type NoticeGateway interface {
	ListNotices(ctx context.Context) ([]model.Notice, error)
	GetNotice(ctx context.Context, noticeID int64) (*model.Notice, error)
	CreateNotice(ctx context.Context, sess *model.Session, draft gateway.NoticeDraft) error
	UpdateNotice(ctx context.Context, sess *model.Session, noticeID int64, draft gateway.NoticeDraft) error
	DeleteNotice(ctx context.Context, sess *model.Session, noticeID int64) error
}

// NoticeHandler はお知らせのHTTPハンドラー。
// 閲覧は未認証で許可し、作成・更新・削除は管理者のみに許可する。
// 本文はバックエンド転送前にインライン画像の抽出とサニタイズを行う。
type NoticeHandler struct {
	gateway   NoticeGateway
	sanitizer security.ContentSanitizerService
}

// NewNoticeHandler はNoticeHandlerを生成する。
func NewNoticeHandler(gw NoticeGateway, sanitizer security.ContentSanitizerService) *NoticeHandler {
	return &NoticeHandler{
		gateway:   gw,
		sanitizer: sanitizer,
	}
}

// List はお知らせ一覧を返す。
// GET /app/notices
func (h *NoticeHandler) List(w http.ResponseWriter, r *http.Request) {
	notices, err := h.gateway.ListNotices(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 表示前にも本文をサニタイズする（冪等なため二重適用は安全）
	for i := range notices {
		notices[i].Content = h.sanitizer.Sanitize(notices[i].Content)
	}
	writeJSON(w, http.StatusOK, notices)
}

// Get はお知らせ詳細を返す。
// GET /app/notices/{id}
func (h *NoticeHandler) Get(w http.ResponseWriter, r *http.Request) {
	noticeID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	notice, err := h.gateway.GetNotice(r.Context(), noticeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	notice.Content = h.sanitizer.Sanitize(notice.Content)
	writeJSON(w, http.StatusOK, notice)
}

// Create はお知らせの作成を処理する。管理者のみ。
// multipart/form-data: title, content, removeImage, removeAttachment, file
// POST /app/notices
func (h *NoticeHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	draft, ok := h.parseNoticeForm(w, r)
	if !ok {
		return
	}

	if err := h.gateway.CreateNotice(r.Context(), session, *draft); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "お知らせを作成しました。"})
}

// Update はお知らせの更新を処理する。管理者のみ。
// PUT /app/notices/{id}
func (h *NoticeHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	noticeID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	draft, ok := h.parseNoticeForm(w, r)
	if !ok {
		return
	}

	if err := h.gateway.UpdateNotice(r.Context(), session, noticeID, *draft); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "お知らせを更新しました。"})
}

// Delete はお知らせの削除を処理する。管理者のみ。
// DELETE /app/notices/{id}
func (h *NoticeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	noticeID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.gateway.DeleteNotice(r.Context(), session, noticeID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "お知らせを削除しました。"})
}

// parseNoticeForm はmultipartフォームからお知らせの下書きを組み立てる。
// 本文のインライン画像を抽出してプレースホルダーに置き換えた後、
// 本文をサニタイズする。失敗時はエラーレスポンスを書き込みfalseを返す。
func (h *NoticeHandler) parseNoticeForm(w http.ResponseWriter, r *http.Request) (*gateway.NoticeDraft, bool) {
	if err := r.ParseMultipartForm(maxNoticeFormSize); err != nil {
		middleware.WriteAPIError(w, &model.APIError{
			Code:     "INVALID_REQUEST",
			Status:   http.StatusBadRequest,
			Message:  "フォームの解析に失敗しました。",
			Category: "validation",
			Action:   "入力内容を確認して再度お試しください。",
		})
		return nil, false
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		middleware.WriteAPIError(w, model.NewValidationError("タイトルを入力してください。"))
		return nil, false
	}

	// インライン画像の抽出はサニタイズより先に行う。
	// サニタイズはdata URIを除去するため、順序を逆にすると画像が失われる。
	content, inlineImages, err := noticeutil.ExtractInlineImages(r.FormValue("content"))
	if err != nil {
		middleware.WriteAPIError(w, model.NewValidationError("本文の解析に失敗しました。"))
		return nil, false
	}
	content = h.sanitizer.Sanitize(content)
	// サニタイザはsrc属性のURLを正規化する際に波括弧をエスケープする。
	// バックエンドは {{IMAGE_PLACEHOLDER_N}} の表記でプレースホルダーを
	// 探すため、エスケープを元に戻す。
	content = strings.NewReplacer(
		"%7B%7BIMAGE_PLACEHOLDER_", "{{IMAGE_PLACEHOLDER_",
		"%7D%7D", "}}",
	).Replace(content)

	draft := &gateway.NoticeDraft{
		Title:            title,
		Content:          content,
		RemoveImage:      r.FormValue("removeImage") == "true",
		RemoveAttachment: r.FormValue("removeAttachment") == "true",
	}

	for _, img := range inlineImages {
		draft.ContentImages = append(draft.ContentImages, gateway.Upload{
			Name:        img.Name,
			ContentType: img.ContentType,
			Data:        img.Data,
		})
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			middleware.WriteAPIError(w, model.NewValidationError("添付ファイルの読み込みに失敗しました。"))
			return nil, false
		}
		draft.File = &gateway.Upload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	return draft, true
}
