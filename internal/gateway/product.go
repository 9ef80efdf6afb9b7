package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/suppleit/supplefront/internal/model"
)

// ListProducts は商品一覧を取得する。
func (c *Client) ListProducts(ctx context.Context, sess *model.Session) ([]model.Product, error) {
	return c.fetchProducts(ctx, sess, "/products", nil)
}

// SearchProducts は外部APIを含む商品検索を行う。
func (c *Client) SearchProducts(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	return c.fetchProducts(ctx, sess, "/products/search", query)
}

// DBSearchProducts はローカルDBのみを対象とした商品検索を行う。
func (c *Client) DBSearchProducts(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	return c.fetchProducts(ctx, sess, "/products/db-search", query)
}

// GetProduct は商品詳細を取得する。
func (c *Client) GetProduct(ctx context.Context, sess *model.Session, productID int64) (*model.Product, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/products/" + strconv.FormatInt(productID, 10),
	})
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := decodeData(body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) fetchProducts(ctx context.Context, sess *model.Session, path string, query url.Values) ([]model.Product, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   path,
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	products := []model.Product{}
	if err := decodeData(body, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListFavorites はログイン中の会員のお気に入り一覧を取得する。
func (c *Client) ListFavorites(ctx context.Context, sess *model.Session) ([]model.Favorite, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/favorites",
	})
	if err != nil {
		return nil, err
	}

	favorites := []model.Favorite{}
	if err := decodeData(body, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// AddFavorite は商品をお気に入りに追加する。
func (c *Client) AddFavorite(ctx context.Context, sess *model.Session, productID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/favorites",
		body:   map[string]int64{"prdId": productID},
	})
	return err
}

// RemoveFavorite はお気に入りを解除する。
func (c *Client) RemoveFavorite(ctx context.Context, sess *model.Session, productID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   "/favorites/" + strconv.FormatInt(productID, 10),
	})
	return err
}
