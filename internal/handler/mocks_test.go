package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suppleit/supplefront/internal/gateway"
	"github.com/suppleit/supplefront/internal/model"
)

// withChiParam はchiのURLパラメータをリクエストに注入する。
// ルーターを経由せずにハンドラーを直接呼ぶテストで使う。
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// stubGateway はGatewayDepsのテスト用スタブ。
// 差し替えたい操作のみ関数フィールドを設定する。未設定の操作はゼロ値を返す。
type stubGateway struct {
	loginFn          func(ctx context.Context, email, password string) (*gateway.LoginResult, error)
	logoutFn         func(ctx context.Context, sess *model.Session) error
	socialLoginFn    func(ctx context.Context, provider, code, state string) (*gateway.LoginResult, error)
	changePasswordFn func(ctx context.Context, sess *model.Session, current, next string) error
	findPasswordFn   func(ctx context.Context, email, nickname string) error

	joinFn          func(ctx context.Context, req gateway.JoinRequest) error
	memberInfoFn    func(ctx context.Context, sess *model.Session) (*model.Member, error)
	updateMemberFn  func(ctx context.Context, sess *model.Session, req gateway.MemberUpdateRequest) error
	deleteMemberFn  func(ctx context.Context, sess *model.Session) error
	checkEmailFn    func(ctx context.Context, email string) (bool, string, error)
	checkNicknameFn func(ctx context.Context, nickname string) (bool, string, error)
	accountTypeFn   func(ctx context.Context, sess *model.Session) (model.SocialType, error)

	listNoticesFn  func(ctx context.Context) ([]model.Notice, error)
	getNoticeFn    func(ctx context.Context, noticeID int64) (*model.Notice, error)
	createNoticeFn func(ctx context.Context, sess *model.Session, draft gateway.NoticeDraft) error
	updateNoticeFn func(ctx context.Context, sess *model.Session, noticeID int64, draft gateway.NoticeDraft) error
	deleteNoticeFn func(ctx context.Context, sess *model.Session, noticeID int64) error

	listReviewsFn   func(ctx context.Context, sess *model.Session) ([]model.Review, error)
	getReviewFn     func(ctx context.Context, sess *model.Session, reviewID int64) (*model.Review, error)
	createReviewFn  func(ctx context.Context, sess *model.Session, draft gateway.ReviewDraft) error
	updateReviewFn  func(ctx context.Context, sess *model.Session, reviewID int64, draft gateway.ReviewDraft) error
	deleteReviewFn  func(ctx context.Context, sess *model.Session, reviewID int64) error
	likeReviewFn    func(ctx context.Context, sess *model.Session, reviewID int64) error
	dislikeReviewFn func(ctx context.Context, sess *model.Session, reviewID int64) error
	viewReviewFn    func(ctx context.Context, sess *model.Session, reviewID int64) error

	listProductsFn    func(ctx context.Context, sess *model.Session) ([]model.Product, error)
	searchProductsFn  func(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error)
	dbSearchFn        func(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error)
	getProductFn      func(ctx context.Context, sess *model.Session, productID int64) (*model.Product, error)
	listFavoritesFn   func(ctx context.Context, sess *model.Session) ([]model.Favorite, error)
	addFavoriteFn     func(ctx context.Context, sess *model.Session, productID int64) error
	removeFavoriteFn  func(ctx context.Context, sess *model.Session, productID int64) error
	searchHealthFn    func(ctx context.Context, sess *model.Session, keyword string, page, limit int) (*model.HealthFoodPage, error)
	healthDetailFn    func(ctx context.Context, sess *model.Session, reportNo string) (*model.HealthFood, error)
	quickSearchHealth func(ctx context.Context, sess *model.Session, name string) ([]model.HealthFood, error)
}

func (s *stubGateway) Login(ctx context.Context, email, password string) (*gateway.LoginResult, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, email, password)
	}
	return &gateway.LoginResult{}, nil
}

func (s *stubGateway) Logout(ctx context.Context, sess *model.Session) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, sess)
	}
	return nil
}

func (s *stubGateway) SocialLogin(ctx context.Context, provider, code, state string) (*gateway.LoginResult, error) {
	if s.socialLoginFn != nil {
		return s.socialLoginFn(ctx, provider, code, state)
	}
	return &gateway.LoginResult{}, nil
}

func (s *stubGateway) ChangePassword(ctx context.Context, sess *model.Session, current, next string) error {
	if s.changePasswordFn != nil {
		return s.changePasswordFn(ctx, sess, current, next)
	}
	return nil
}

func (s *stubGateway) FindPassword(ctx context.Context, email, nickname string) error {
	if s.findPasswordFn != nil {
		return s.findPasswordFn(ctx, email, nickname)
	}
	return nil
}

func (s *stubGateway) Join(ctx context.Context, req gateway.JoinRequest) error {
	if s.joinFn != nil {
		return s.joinFn(ctx, req)
	}
	return nil
}

func (s *stubGateway) MemberInfo(ctx context.Context, sess *model.Session) (*model.Member, error) {
	if s.memberInfoFn != nil {
		return s.memberInfoFn(ctx, sess)
	}
	return &model.Member{}, nil
}

func (s *stubGateway) UpdateMember(ctx context.Context, sess *model.Session, req gateway.MemberUpdateRequest) error {
	if s.updateMemberFn != nil {
		return s.updateMemberFn(ctx, sess, req)
	}
	return nil
}

func (s *stubGateway) DeleteMember(ctx context.Context, sess *model.Session) error {
	if s.deleteMemberFn != nil {
		return s.deleteMemberFn(ctx, sess)
	}
	return nil
}

func (s *stubGateway) CheckEmail(ctx context.Context, email string) (bool, string, error) {
	if s.checkEmailFn != nil {
		return s.checkEmailFn(ctx, email)
	}
	return true, "", nil
}

func (s *stubGateway) CheckNickname(ctx context.Context, nickname string) (bool, string, error) {
	if s.checkNicknameFn != nil {
		return s.checkNicknameFn(ctx, nickname)
	}
	return true, "", nil
}

func (s *stubGateway) AccountType(ctx context.Context, sess *model.Session) (model.SocialType, error) {
	if s.accountTypeFn != nil {
		return s.accountTypeFn(ctx, sess)
	}
	return model.SocialNone, nil
}

func (s *stubGateway) ListNotices(ctx context.Context) ([]model.Notice, error) {
	if s.listNoticesFn != nil {
		return s.listNoticesFn(ctx)
	}
	return []model.Notice{}, nil
}

func (s *stubGateway) GetNotice(ctx context.Context, noticeID int64) (*model.Notice, error) {
	if s.getNoticeFn != nil {
		return s.getNoticeFn(ctx, noticeID)
	}
	return &model.Notice{}, nil
}

func (s *stubGateway) CreateNotice(ctx context.Context, sess *model.Session, draft gateway.NoticeDraft) error {
	if s.createNoticeFn != nil {
		return s.createNoticeFn(ctx, sess, draft)
	}
	return nil
}

func (s *stubGateway) UpdateNotice(ctx context.Context, sess *model.Session, noticeID int64, draft gateway.NoticeDraft) error {
	if s.updateNoticeFn != nil {
		return s.updateNoticeFn(ctx, sess, noticeID, draft)
	}
	return nil
}

func (s *stubGateway) DeleteNotice(ctx context.Context, sess *model.Session, noticeID int64) error {
	if s.deleteNoticeFn != nil {
		return s.deleteNoticeFn(ctx, sess, noticeID)
	}
	return nil
}

func (s *stubGateway) ListReviews(ctx context.Context, sess *model.Session) ([]model.Review, error) {
	if s.listReviewsFn != nil {
		return s.listReviewsFn(ctx, sess)
	}
	return []model.Review{}, nil
}

func (s *stubGateway) GetReview(ctx context.Context, sess *model.Session, reviewID int64) (*model.Review, error) {
	if s.getReviewFn != nil {
		return s.getReviewFn(ctx, sess, reviewID)
	}
	return &model.Review{}, nil
}

func (s *stubGateway) CreateReview(ctx context.Context, sess *model.Session, draft gateway.ReviewDraft) error {
	if s.createReviewFn != nil {
		return s.createReviewFn(ctx, sess, draft)
	}
	return nil
}

func (s *stubGateway) UpdateReview(ctx context.Context, sess *model.Session, reviewID int64, draft gateway.ReviewDraft) error {
	if s.updateReviewFn != nil {
		return s.updateReviewFn(ctx, sess, reviewID, draft)
	}
	return nil
}

func (s *stubGateway) DeleteReview(ctx context.Context, sess *model.Session, reviewID int64) error {
	if s.deleteReviewFn != nil {
		return s.deleteReviewFn(ctx, sess, reviewID)
	}
	return nil
}

func (s *stubGateway) LikeReview(ctx context.Context, sess *model.Session, reviewID int64) error {
	if s.likeReviewFn != nil {
		return s.likeReviewFn(ctx, sess, reviewID)
	}
	return nil
}

func (s *stubGateway) DislikeReview(ctx context.Context, sess *model.Session, reviewID int64) error {
	if s.dislikeReviewFn != nil {
		return s.dislikeReviewFn(ctx, sess, reviewID)
	}
	return nil
}

func (s *stubGateway) IncrementReviewView(ctx context.Context, sess *model.Session, reviewID int64) error {
	if s.viewReviewFn != nil {
		return s.viewReviewFn(ctx, sess, reviewID)
	}
	return nil
}

func (s *stubGateway) ListProducts(ctx context.Context, sess *model.Session) ([]model.Product, error) {
	if s.listProductsFn != nil {
		return s.listProductsFn(ctx, sess)
	}
	return []model.Product{}, nil
}

func (s *stubGateway) SearchProducts(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error) {
	if s.searchProductsFn != nil {
		return s.searchProductsFn(ctx, sess, keyword)
	}
	return []model.Product{}, nil
}

func (s *stubGateway) DBSearchProducts(ctx context.Context, sess *model.Session, keyword string) ([]model.Product, error) {
	if s.dbSearchFn != nil {
		return s.dbSearchFn(ctx, sess, keyword)
	}
	return []model.Product{}, nil
}

func (s *stubGateway) GetProduct(ctx context.Context, sess *model.Session, productID int64) (*model.Product, error) {
	if s.getProductFn != nil {
		return s.getProductFn(ctx, sess, productID)
	}
	return &model.Product{}, nil
}

func (s *stubGateway) ListFavorites(ctx context.Context, sess *model.Session) ([]model.Favorite, error) {
	if s.listFavoritesFn != nil {
		return s.listFavoritesFn(ctx, sess)
	}
	return []model.Favorite{}, nil
}

func (s *stubGateway) AddFavorite(ctx context.Context, sess *model.Session, productID int64) error {
	if s.addFavoriteFn != nil {
		return s.addFavoriteFn(ctx, sess, productID)
	}
	return nil
}

func (s *stubGateway) RemoveFavorite(ctx context.Context, sess *model.Session, productID int64) error {
	if s.removeFavoriteFn != nil {
		return s.removeFavoriteFn(ctx, sess, productID)
	}
	return nil
}

func (s *stubGateway) SearchHealthFoods(ctx context.Context, sess *model.Session, keyword string, page, limit int) (*model.HealthFoodPage, error) {
	if s.searchHealthFn != nil {
		return s.searchHealthFn(ctx, sess, keyword, page, limit)
	}
	return &model.HealthFoodPage{}, nil
}

func (s *stubGateway) HealthFoodDetail(ctx context.Context, sess *model.Session, reportNo string) (*model.HealthFood, error) {
	if s.healthDetailFn != nil {
		return s.healthDetailFn(ctx, sess, reportNo)
	}
	return &model.HealthFood{}, nil
}

func (s *stubGateway) QuickSearchHealthFoods(ctx context.Context, sess *model.Session, name string) ([]model.HealthFood, error) {
	if s.quickSearchHealth != nil {
		return s.quickSearchHealth(ctx, sess, name)
	}
	return []model.HealthFood{}, nil
}

// GatewayDepsを満たすことをコンパイル時に保証する
var _ GatewayDeps = (*stubGateway)(nil)

// mockSessionStore はSessionStoreのテスト用モック。
type mockSessionStore struct {
	mu      sync.Mutex
	created []*model.Session
	deleted []string
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, session)
	return nil
}

func (m *mockSessionStore) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

func testSession() *model.Session {
	return &model.Session{
		ID:           "sess-1",
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		MemberID:     42,
		Email:        "user@example.com",
		Role:         string(model.RoleUser),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}
