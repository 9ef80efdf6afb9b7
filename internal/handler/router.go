package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suppleit/supplefront/internal/middleware"
	"github.com/suppleit/supplefront/internal/schedule"
	"github.com/suppleit/supplefront/internal/security"
)

// GatewayDeps はハンドラーが利用するバックエンド操作のインターフェース群。
// gateway.Clientがこのすべてを満たす。
type GatewayDeps interface {
	AuthGateway
	MemberGateway
	NoticeGateway
	ReviewGateway
	ProductGateway
	HealthFoodGateway
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// バックエンドゲートウェイ
	Gateway GatewayDeps

	// セッション永続化
	Sessions SessionStore

	// スケジュールサービス
	ScheduleService *schedule.Service

	// コンテンツサニタイザー
	Sanitizer security.ContentSanitizerService

	// 認証設定
	AuthConfig AuthHandlerConfig

	// 監視用エンドポイント
	MetricsHandler http.Handler
	HealthHandler  http.Handler

	// リクエストログ出力用ロガー（nilの場合はログを出力しない）
	Logger *slog.Logger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → CORS → CSRF →
//	（保護ルートのみ）Session → RateLimit(General)
//
// お知らせの閲覧、ログイン、会員登録、重複チェックに加え、
// 商品・健康機能食品・レビューの閲覧もルートガードの外に配置する
// （ストアフロントは未認証で閲覧できる）。これらの閲覧ルートは
// セッションがあればトークンを転送するが、無くても401で拒否しない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.Gateway, deps.Sessions, deps.AuthConfig)
	memberHandler := NewMemberHandler(deps.Gateway, deps.Sessions)
	noticeHandler := NewNoticeHandler(deps.Gateway, deps.Sanitizer)
	reviewHandler := NewReviewHandler(deps.Gateway, deps.Sanitizer)
	productHandler := NewProductHandler(deps.Gateway, deps.Gateway)
	scheduleHandler := NewScheduleHandler(deps.ScheduleService)

	// --- 監視用エンドポイント ---
	if deps.HealthHandler != nil {
		r.Method(http.MethodGet, "/health", deps.HealthHandler)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/app", func(r chi.Router) {
		// --- 認証不要のルート ---

		r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/social/{provider}", authHandler.SocialLogin)
			r.Get("/social/success", authHandler.SocialSuccess)
			r.Post("/password/find", authHandler.FindPassword)
		})

		// 会員登録と重複チェック
		r.Post("/members", memberHandler.Join)
		r.Get("/members/validation/email/{email}", memberHandler.CheckEmail)
		r.Get("/members/validation/nickname/{nickname}", memberHandler.CheckNickname)

		// お知らせの閲覧は未認証で許可する
		r.Get("/notices", noticeHandler.List)
		r.Get("/notices/{id}", noticeHandler.Get)

		// --- 未認証で閲覧できるストアフロント ---
		// セッションがあればコンテキストに注入するが、無くても通過させる
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewOptionalSessionMiddleware(deps.SessionFinder))

			// 商品・健康機能食品の閲覧と検索
			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Get("/search", productHandler.Search)
				r.Get("/db-search", productHandler.DBSearch)
				r.Get("/{id}", productHandler.Get)
				r.Get("/{id}/reviews", reviewHandler.ListByProduct)
			})
			r.Route("/health-foods", func(r chi.Router) {
				r.Get("/search", productHandler.SearchHealthFoods)
				r.Get("/detail", productHandler.HealthFoodDetail)
				r.Get("/quick-search", productHandler.QuickSearchHealthFoods)
			})

			// レビュー掲示板の閲覧。閲覧数の加算は匿名の閲覧でも行う
			r.Get("/reviews", reviewHandler.List)
			r.Get("/reviews/{id}", reviewHandler.Get)
			r.Post("/reviews/{id}/view", reviewHandler.View)
		})

		// --- 認証が必要なルート ---
		// ミドルウェアスタック: Session → RateLimit(General)
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
			r.Use(deps.RateLimiter.GeneralMiddleware())

			writeLimited := deps.RateLimiter.WriteMiddleware()

			// 認証管理
			r.Post("/auth/logout", authHandler.Logout)
			r.Post("/auth/password/change", authHandler.ChangePassword)

			// 会員管理
			r.Route("/members/me", func(r chi.Router) {
				r.Get("/", memberHandler.Me)
				r.Put("/", memberHandler.Update)
				r.Delete("/", memberHandler.Withdraw)
				r.Get("/account-type", memberHandler.AccountType)
			})

			// お知らせの作成・更新・削除は管理者のみ
			r.Group(func(r chi.Router) {
				r.Use(middleware.NewAdminMiddleware())
				r.With(writeLimited).Post("/notices", noticeHandler.Create)
				r.With(writeLimited).Put("/notices/{id}", noticeHandler.Update)
				r.With(writeLimited).Delete("/notices/{id}", noticeHandler.Delete)
			})

			// お気に入り
			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", productHandler.ListFavorites)
				r.With(writeLimited).Post("/", productHandler.AddFavorite)
				r.With(writeLimited).Delete("/{id}", productHandler.RemoveFavorite)
			})

			// レビューの投稿・編集・評価
			r.With(writeLimited).Post("/reviews", reviewHandler.Create)
			r.With(writeLimited).Put("/reviews/{id}", reviewHandler.Update)
			r.With(writeLimited).Delete("/reviews/{id}", reviewHandler.Delete)
			r.Post("/reviews/{id}/like", reviewHandler.Like)
			r.Post("/reviews/{id}/dislike", reviewHandler.Dislike)

			// 服用スケジュール
			r.Route("/schedule", func(r chi.Router) {
				r.Get("/", scheduleHandler.List)
				r.Get("/calendar", scheduleHandler.Calendar)
				r.Get("/today", scheduleHandler.Today)
				r.Get("/week", scheduleHandler.Week)
				r.With(writeLimited).Post("/", scheduleHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", scheduleHandler.Get)
					r.With(writeLimited).Put("/", scheduleHandler.Update)
					r.With(writeLimited).Delete("/", scheduleHandler.Delete)
					r.With(writeLimited).Patch("/move", scheduleHandler.Move)
					r.Post("/complete", scheduleHandler.Complete)
				})
			})
		})
	})

	return r
}
