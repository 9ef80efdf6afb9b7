package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/suppleit/supplefront/internal/model"
)

// LoginResult はログイン・ソーシャルログイン成功時にバックエンドが返す認証情報。
type LoginResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	Member       model.Member `json:"member"`
}

// Login はメールアドレスとパスワードでログインする。
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := c.do(ctx, nil, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
		public: true,
	})
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := decodeData(body, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, model.NewBackendError(http.StatusBadGateway, "ログイン応答にトークンが含まれていません。")
	}
	return &result, nil
}

// Logout はバックエンド側のトークンを無効化する。
// 失敗してもローカルセッションの破棄は呼び出し元が行う。
func (c *Client) Logout(ctx context.Context, sess *model.Session) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/auth/logout",
	})
	return err
}

// socialLoginRequest はソーシャルログインリクエストのボディ。
// stateはNaverのみ必須のため省略可能とする。
type socialLoginRequest struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}

// SocialLogin はOAuth認可コードをバックエンドに渡し認証情報を得る。
// providerは"google"、"naver"、"kakao"のいずれか。
func (c *Client) SocialLogin(ctx context.Context, provider, code, state string) (*LoginResult, error) {
	body, err := c.do(ctx, nil, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/social/login/%s", provider),
		body:   socialLoginRequest{Code: code, State: state},
		public: true,
	})
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := decodeData(body, &result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, model.NewBackendError(http.StatusBadGateway, "ソーシャルログイン応答にトークンが含まれていません。")
	}
	return &result, nil
}

// ChangePassword は現在のパスワードを検証した上で新しいパスワードに変更する。
func (c *Client) ChangePassword(ctx context.Context, sess *model.Session, currentPassword, newPassword string) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/auth/change-password",
		body: map[string]string{
			"currentPassword": currentPassword,
			"newPassword":     newPassword,
		},
	})
	return err
}

// FindPassword はメールとニックネームの照合に成功した場合、
// 仮パスワードをメール送信する。未認証で呼び出せる。
func (c *Client) FindPassword(ctx context.Context, email, nickname string) error {
	_, err := c.do(ctx, nil, request{
		method: http.MethodPost,
		path:   "/auth/find/password",
		body:   map[string]string{"email": email, "nickname": nickname},
		public: true,
	})
	return err
}
