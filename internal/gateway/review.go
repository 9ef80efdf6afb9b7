package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/suppleit/supplefront/internal/model"
)

// ReviewDraft はレビューの作成・更新内容。
type ReviewDraft struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	ProductID int64  `json:"prdId"`
}

// ListReviews はレビュー掲示板の全レビュー一覧を取得する。
// バックエンドは商品別の絞り込みを提供しないため、全件を返す。
func (c *Client) ListReviews(ctx context.Context, sess *model.Session) ([]model.Review, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/reviews",
	})
	if err != nil {
		return nil, err
	}

	reviews := []model.Review{}
	if err := decodeData(body, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetReview はレビュー詳細を取得する。
func (c *Client) GetReview(ctx context.Context, sess *model.Session, reviewID int64) (*model.Review, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/reviews/" + strconv.FormatInt(reviewID, 10),
	})
	if err != nil {
		return nil, err
	}

	var review model.Review
	if err := decodeData(body, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// CreateReview はレビューを投稿する。
func (c *Client) CreateReview(ctx context.Context, sess *model.Session, draft ReviewDraft) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/reviews",
		body:   draft,
	})
	return err
}

// UpdateReview は自分のレビューを更新する。
func (c *Client) UpdateReview(ctx context.Context, sess *model.Session, reviewID int64, draft ReviewDraft) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPut,
		path:   "/reviews/" + strconv.FormatInt(reviewID, 10),
		body:   draft,
	})
	return err
}

// DeleteReview は自分のレビューを削除する。
func (c *Client) DeleteReview(ctx context.Context, sess *model.Session, reviewID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   "/reviews/" + strconv.FormatInt(reviewID, 10),
	})
	return err
}

// LikeReview はレビューへの「いいね」をトグルする。
func (c *Client) LikeReview(ctx context.Context, sess *model.Session, reviewID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/reviews/" + strconv.FormatInt(reviewID, 10) + "/like",
	})
	return err
}

// DislikeReview はレビューへの「よくないね」をトグルする。
func (c *Client) DislikeReview(ctx context.Context, sess *model.Session, reviewID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/reviews/" + strconv.FormatInt(reviewID, 10) + "/dislike",
	})
	return err
}

// IncrementReviewView はレビューの閲覧数を加算する。
// バックエンドはレビューIDへのPOSTを閲覧数加算として扱う。
func (c *Client) IncrementReviewView(ctx context.Context, sess *model.Session, reviewID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/reviews/" + strconv.FormatInt(reviewID, 10),
	})
	return err
}
