package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/suppleit/supplefront/internal/model"
)

// JoinRequest は会員登録のリクエストボディ。
type JoinRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Nickname string       `json:"nickname"`
	Gender   model.Gender `json:"gender,omitempty"`
	Birth    model.Date   `json:"birth,omitempty"`
}

// MemberUpdateRequest は会員情報更新のリクエストボディ。
// パスワードは変更する場合のみ設定する。
type MemberUpdateRequest struct {
	Nickname string       `json:"nickname,omitempty"`
	Password string       `json:"password,omitempty"`
	Gender   model.Gender `json:"gender,omitempty"`
	Birth    model.Date   `json:"birth,omitempty"`
}

// Join は新規会員を登録する。
func (c *Client) Join(ctx context.Context, req JoinRequest) error {
	_, err := c.do(ctx, nil, request{
		method: http.MethodPost,
		path:   "/member/join",
		body:   req,
		public: true,
	})
	return err
}

// MemberInfo はログイン中の会員情報を取得する。
func (c *Client) MemberInfo(ctx context.Context, sess *model.Session) (*model.Member, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/member/info",
	})
	if err != nil {
		return nil, err
	}

	var member model.Member
	if err := decodeData(body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember は会員情報を更新する。
func (c *Client) UpdateMember(ctx context.Context, sess *model.Session, req MemberUpdateRequest) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPut,
		path:   "/member/update",
		body:   req,
	})
	return err
}

// DeleteMember は会員を退会させる。関連データはバックエンド側で削除される。
func (c *Client) DeleteMember(ctx context.Context, sess *model.Session) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   "/member/delete",
	})
	return err
}

// CheckEmail はメールアドレスの利用可否を確認する。
// 使用済みの場合はavailable=falseとバックエンドのメッセージを返す。
func (c *Client) CheckEmail(ctx context.Context, email string) (available bool, message string, err error) {
	return c.checkAvailability(ctx, "/member/validation/email/"+url.PathEscape(email))
}

// CheckNickname はニックネームの利用可否を確認する。
func (c *Client) CheckNickname(ctx context.Context, nickname string) (available bool, message string, err error) {
	return c.checkAvailability(ctx, "/member/validation/nickname/"+url.PathEscape(nickname))
}

func (c *Client) checkAvailability(ctx context.Context, path string) (bool, string, error) {
	_, err := c.do(ctx, nil, request{
		method: http.MethodGet,
		path:   path,
		public: true,
	})
	if err != nil {
		var apiErr *model.APIError
		// 重複はバックエンドの拒否応答として返るため、エラーではなく利用不可として扱う
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeBackendRejected {
			return false, apiErr.Message, nil
		}
		return false, "", err
	}
	return true, "", nil
}

// AccountType はログイン中の会員の認証種別（通常／ソーシャル）を返す。
func (c *Client) AccountType(ctx context.Context, sess *model.Session) (model.SocialType, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/member/account-type",
	})
	if err != nil {
		return "", err
	}

	var result struct {
		SocialType model.SocialType `json:"socialType"`
	}
	if err := decodeData(body, &result); err != nil {
		return "", err
	}
	if result.SocialType == "" {
		return "", fmt.Errorf("account type missing in response")
	}
	return result.SocialType, nil
}
