package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/suppleit/supplefront/internal/middleware"
	"github.com/suppleit/supplefront/internal/model"
)

// ProductGateway は商品ハンドラーが必要とするバックエンド操作のインターフェース。
type ProductGateway interface {
	ListProducts(ctx context.Context, sess *model.Session) ([]model.Product, error)
	SearchProducts(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error)
	DBSearchProducts(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error)
	GetProduct(ctx context.Context, sess *model.Session, productID int64) (*model.Product, error)
	ListFavorites(ctx context.Context, sess *model.Session) ([]model.Favorite, error)
	AddFavorite(ctx context.Context, sess *model.Session, productID int64) error
	RemoveFavorite(ctx context.Context, sess *model.Session, productID int64) error
}

// HealthFoodGateway は健康機能食品検索のバックエンド操作のインターフェース。
type HealthFoodGateway interface {
	SearchHealthFoods(ctx context.Context, sess *model.Session, keyword string, page, limit int) (*model.HealthFoodPage, error)
	HealthFoodDetail(ctx context.Context, sess *model.Session, reportNo string) (*model.HealthFood, error)
	QuickSearchHealthFoods(ctx context.Context, sess *model.Session, name string) ([]model.HealthFood, error)
}

// ProductHandler は商品・お気に入り・健康機能食品検索のHTTPハンドラー。
type ProductHandler struct {
	gateway     ProductGateway
	healthFoods HealthFoodGateway
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(gw ProductGateway, healthFoods HealthFoodGateway) *ProductHandler {
	return &ProductHandler{
		gateway:     gw,
		healthFoods: healthFoods,
	}
}

// List は商品一覧を返す。未認証でも閲覧できる。
// GET /app/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.gateway.ListProducts(r.Context(), optionalSession(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Search は外部APIを含む商品検索を処理する。
// GET /app/products/search?keyword=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, h.gateway.SearchProducts)
}

// DBSearch はローカルDBのみを対象とした商品検索を処理する。
// GET /app/products/db-search?keyword=
func (h *ProductHandler) DBSearch(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, h.gateway.DBSearchProducts)
}

func (h *ProductHandler) search(w http.ResponseWriter, r *http.Request,
	searchFn func(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error)) {

	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		middleware.WriteAPIError(w, model.NewValidationError("検索キーワードを入力してください。"))
		return
	}

	products, err := searchFn(r.Context(), optionalSession(r), keyword)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get は商品詳細を返す。未認証でも閲覧できる。
// GET /app/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	product, err := h.gateway.GetProduct(r.Context(), optionalSession(r), productID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ListFavorites はお気に入り一覧を返す。
// GET /app/favorites
func (h *ProductHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	favorites, err := h.gateway.ListFavorites(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favorites)
}

// addFavoriteRequest はお気に入り追加リクエストのボディ。
type addFavoriteRequest struct {
	ProductID int64 `json:"prdId"`
}

// AddFavorite はお気に入り追加を処理する。
// POST /app/favorites
func (h *ProductHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}
	if req.ProductID <= 0 {
		middleware.WriteAPIError(w, model.NewValidationError("対象の商品が指定されていません。"))
		return
	}

	if err := h.gateway.AddFavorite(r.Context(), session, req.ProductID); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "お気に入りに追加しました。"})
}

// RemoveFavorite はお気に入り解除を処理する。
// DELETE /app/favorites/{id}
func (h *ProductHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	productID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.gateway.RemoveFavorite(r.Context(), session, productID); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "お気に入りを解除しました。"})
}

// SearchHealthFoods は健康機能食品のページング付き検索を処理する。
// GET /app/health-foods/search?keyword=&page=&limit=
func (h *ProductHandler) SearchHealthFoods(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		middleware.WriteAPIError(w, model.NewValidationError("検索キーワードを入力してください。"))
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	result, err := h.healthFoods.SearchHealthFoods(r.Context(), optionalSession(r), keyword, page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HealthFoodDetail は届出番号による健康機能食品の詳細取得を処理する。
// GET /app/health-foods/detail?reportNo=
func (h *ProductHandler) HealthFoodDetail(w http.ResponseWriter, r *http.Request) {
	reportNo := strings.TrimSpace(r.URL.Query().Get("reportNo"))
	if reportNo == "" {
		middleware.WriteAPIError(w, model.NewValidationError("届出番号を指定してください。"))
		return
	}

	food, err := h.healthFoods.HealthFoodDetail(r.Context(), optionalSession(r), reportNo)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

// QuickSearchHealthFoods は製品名による簡易検索を処理する。
// スケジュール登録フォームのサジェストで使用する。
// GET /app/health-foods/quick-search?name=
func (h *ProductHandler) QuickSearchHealthFoods(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeJSON(w, http.StatusOK, []model.HealthFood{})
		return
	}

	foods, err := h.healthFoods.QuickSearchHealthFoods(r.Context(), optionalSession(r), name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// queryInt はクエリパラメータから正の整数を取得する。不正な場合は既定値を返す。
func queryInt(r *http.Request, name string, defaultValue int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
