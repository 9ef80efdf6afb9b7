package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/suppleit/supplefront/internal/model"
)

// SearchHealthFoods は健康機能食品をページング付きで検索する。
func (c *Client) SearchHealthFoods(ctx context.Context, sess *model.Session, keyword string, page, limit int) (*model.HealthFoodPage, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/health-foods/search",
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	var result model.HealthFoodPage
	if err := decodeData(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthFoodDetail は届出番号で健康機能食品の詳細を取得する。
func (c *Client) HealthFoodDetail(ctx context.Context, sess *model.Session, reportNo string) (*model.HealthFood, error) {
	query := url.Values{}
	query.Set("reportNo", reportNo)

	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/health-foods/detail",
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	var food model.HealthFood
	if err := decodeData(body, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

// QuickSearchHealthFoods は製品名の前方一致による簡易検索を行う。
// スケジュール登録フォームのサジェストに使用する。
func (c *Client) QuickSearchHealthFoods(ctx context.Context, sess *model.Session, name string) ([]model.HealthFood, error) {
	query := url.Values{}
	query.Set("name", name)

	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/health-foods/quick-search",
		query:  query,
	})
	if err != nil {
		return nil, err
	}

	foods := []model.HealthFood{}
	if err := decodeData(body, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}
