package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/suppleit/supplefront/internal/gateway"
	"github.com/suppleit/supplefront/internal/middleware"
	"github.com/suppleit/supplefront/internal/model"
	"github.com/suppleit/supplefront/internal/security"
)

// ReviewGateway はレビューハンドラーが必要とするバックエンド操作のインターフェース。
type ReviewGateway interface {
	ListReviews(ctx context.Context, sess *model.Session) ([]model.Review, error)
	GetReview(ctx context.Context, sess *model.Session, reviewID int64) (*model.Review, error)
	CreateReview(ctx context.Context, sess *model.Session, draft gateway.ReviewDraft) error
	UpdateReview(ctx context.Context, sess *model.Session, reviewID int64, draft gateway.ReviewDraft) error
	DeleteReview(ctx context.Context, sess *model.Session, reviewID int64) error
	LikeReview(ctx context.Context, sess *model.Session, reviewID int64) error
	DislikeReview(ctx context.Context, sess *model.Session, reviewID int64) error
	IncrementReviewView(ctx context.Context, sess *model.Session, reviewID int64) error
}

// ReviewHandler は商品レビューのHTTPハンドラー。
type ReviewHandler struct {
	gateway   ReviewGateway
	sanitizer security.ContentSanitizerService
}

// NewReviewHandler はReviewHandlerを生成する。
func NewReviewHandler(gw ReviewGateway, sanitizer security.ContentSanitizerService) *ReviewHandler {
	return &ReviewHandler{
		gateway:   gw,
		sanitizer: sanitizer,
	}
}

// reviewRequest はレビュー作成・更新リクエストのボディ。
type reviewRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	ProductID int64  `json:"prdId"`
}

// validateReview はレビュー内容を検証し、問題があれば理由を返す。
// 評価は1〜5の整数の星評価。
func validateReview(req reviewRequest, requireProduct bool) (bool, string) {
	if strings.TrimSpace(req.Title) == "" {
		return false, "レビュータイトルを入力してください。"
	}
	if strings.TrimSpace(req.Content) == "" {
		return false, "レビュー内容を入力してください。"
	}
	if req.Rating < 1 || req.Rating > 5 {
		return false, "評価は1〜5の範囲で入力してください。"
	}
	if requireProduct && req.ProductID <= 0 {
		return false, "対象の商品が指定されていません。"
	}
	return true, ""
}

// List はレビュー掲示板の全レビュー一覧を返す。未認証でも閲覧できる。
// GET /app/reviews
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.gateway.ListReviews(r.Context(), optionalSession(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	for i := range reviews {
		reviews[i].Content = h.sanitizer.Sanitize(reviews[i].Content)
	}
	writeJSON(w, http.StatusOK, reviews)
}

// ListByProduct は商品に紐づくレビュー一覧を返す。
// バックエンドには商品別の一覧APIが無いため、全件取得後に絞り込む。
// GET /app/products/{id}/reviews
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	reviews, err := h.gateway.ListReviews(r.Context(), optionalSession(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	filtered := []model.Review{}
	for _, review := range reviews {
		if review.PrdID != productID {
			continue
		}
		review.Content = h.sanitizer.Sanitize(review.Content)
		filtered = append(filtered, review)
	}
	writeJSON(w, http.StatusOK, filtered)
}

// Get はレビュー詳細を返す。未認証でも閲覧できる。
// GET /app/reviews/{id}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := optionalSession(r)

	reviewID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	review, err := h.gateway.GetReview(r.Context(), session, reviewID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	review.Content = h.sanitizer.Sanitize(review.Content)
	writeJSON(w, http.StatusOK, review)
}

// Create はレビュー投稿を処理する。
// POST /app/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}
	if ok, reason := validateReview(req, true); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	err := h.gateway.CreateReview(r.Context(), session, gateway.ReviewDraft{
		Title:     req.Title,
		Content:   h.sanitizer.Sanitize(req.Content),
		Rating:    req.Rating,
		ProductID: req.ProductID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "レビューを投稿しました。"})
}

// Update は自分のレビューの更新を処理する。
// PUT /app/reviews/{id}
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	reviewID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}
	if ok, reason := validateReview(req, false); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	err = h.gateway.UpdateReview(r.Context(), session, reviewID, gateway.ReviewDraft{
		Title:     req.Title,
		Content:   h.sanitizer.Sanitize(req.Content),
		Rating:    req.Rating,
		ProductID: req.ProductID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "レビューを更新しました。"})
}

// Delete は自分のレビューの削除を処理する。
// DELETE /app/reviews/{id}
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.simpleAction(w, r, h.gateway.DeleteReview, "レビューを削除しました。")
}

// Like はレビューへの「いいね」のトグルを処理する。
// POST /app/reviews/{id}/like
func (h *ReviewHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.simpleAction(w, r, h.gateway.LikeReview, "")
}

// Dislike はレビューへの「よくないね」のトグルを処理する。
// POST /app/reviews/{id}/dislike
func (h *ReviewHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.simpleAction(w, r, h.gateway.DislikeReview, "")
}

// View はレビュー閲覧数の加算を処理する。
// 匿名ユーザーの閲覧でも加算するため、セッションは必須としない。
// POST /app/reviews/{id}/view
func (h *ReviewHandler) View(w http.ResponseWriter, r *http.Request) {
	reviewID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.gateway.IncrementReviewView(r.Context(), optionalSession(r), reviewID); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// simpleAction はレビューIDのみを引数に取る操作の共通処理。
func (h *ReviewHandler) simpleAction(w http.ResponseWriter, r *http.Request,
	action func(ctx context.Context, sess *model.Session, reviewID int64) error, message string) {

	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	reviewID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := action(r.Context(), session, reviewID); err != nil {
		handleServiceError(w, err)
		return
	}

	if message == "" {
		writeJSON(w, http.StatusNoContent, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
