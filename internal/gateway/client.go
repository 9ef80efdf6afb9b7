// Package gateway はSuppleIt RESTバックエンドのAPIゲートウェイクライアントを提供する。
// 全リクエストへのベアラートークン付与と、401応答時の1回限りの
// 透過的なトークンリフレッシュという2つの横断的振る舞いを持つ。
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suppleit/supplefront/internal/model"
)

// SessionWriter はリフレッシュフローがセッションを永続化するためのインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionWriter interface {
	// UpdateTokens はリフレッシュで得た新しいアクセストークンを永続化する。
	UpdateTokens(ctx context.Context, session *model.Session) error
	// DeleteByID はリフレッシュ失敗時にセッションを破棄する。
	DeleteByID(ctx context.Context, id string) error
}

// MetricsRecorder はバックエンド呼び出しのメトリクス収集インターフェース。
type MetricsRecorder interface {
	RecordBackendCall(pathClass string, statusCode int, duration time.Duration)
	RecordTokenRefresh(success bool)
}

// Client はバックエンドAPIのゲートウェイクライアント。
// バックエンド操作ごとに1メソッドを公開する。
type Client struct {
	httpClient *http.Client
	baseURL    string // 例: "https://api.suppleit.kr/api"（末尾スラッシュなし）
	sessions   SessionWriter
	logger     *slog.Logger
	metrics    MetricsRecorder // nilの場合は記録しない
}

// NewClient はClientの新しいインスタンスを生成する。
// metricsはnilでもよい。
func NewClient(httpClient *http.Client, baseURL string, sessions SessionWriter, logger *slog.Logger, metrics MetricsRecorder) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessions:   sessions,
		logger:     logger,
		metrics:    metrics,
	}
}

// apiEnvelope はバックエンドの統一レスポンスフォーマット。
// エンドポイントによってはエンベロープなしの生JSONを返すものもある。
type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// request はバックエンドへの1リクエストを表す。
type request struct {
	method string
	path   string // "/auth/login" のようなベースURL相対パス
	query  url.Values
	body   any // nil以外の場合JSONとして送信

	// multipart送信用。bodyと排他。
	multipartBody        []byte
	multipartContentType string

	// public は未認証エンドポイント（ログイン、お知らせ閲覧など）を示す。
	// トークンを付与せず、401でもリフレッシュ・セッション破棄を行わない。
	public bool
}

// do はリクエストを実行し、レスポンスボディを返す。
// 非公開エンドポイントが401を返した場合は1回だけリフレッシュして再送する。
// リフレッシュ不能な場合はセッションを破棄しSESSION_EXPIREDエラーを返す。
// リフレッシュ後の再送がさらに401を返した場合はそのまま呼び出し元へ返す
// （無限リトライの防止）。
func (c *Client) do(ctx context.Context, sess *model.Session, req request) ([]byte, error) {
	body, status, err := c.send(ctx, sess, req)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && !req.public {
		return c.refreshAndReplay(ctx, sess, req)
	}

	if status < 200 || status >= 300 {
		return nil, backendError(status, body)
	}
	return body, nil
}

// send はHTTPリクエストを1回実行する。
// トランスポート障害はネットワークエラーとして返す。
func (c *Client) send(ctx context.Context, sess *model.Session, req request) (body []byte, status int, err error) {
	httpReq, err := c.buildRequest(ctx, sess, req)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("バックエンド呼び出しに失敗しました",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.String("error", err.Error()),
		)
		c.record(req.path, 0, time.Since(start))
		return nil, 0, model.NewNetworkError(err.Error())
	}
	defer resp.Body.Close()

	c.record(req.path, resp.StatusCode, time.Since(start))

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, model.NewNetworkError(fmt.Sprintf("failed to read response body: %v", err))
	}
	return body, resp.StatusCode, nil
}

// buildRequest はhttp.Requestを構築し、必要に応じてベアラートークンを付与する。
func (c *Client) buildRequest(ctx context.Context, sess *model.Session, req request) (*http.Request, error) {
	reqURL := c.baseURL + req.path
	if len(req.query) > 0 {
		reqURL += "?" + req.query.Encode()
	}

	var reader io.Reader
	contentType := ""
	switch {
	case req.multipartBody != nil:
		reader = bytes.NewReader(req.multipartBody)
		contentType = req.multipartContentType
	case req.body != nil:
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// 公開エンドポイント（お知らせ閲覧）以外はトークンがあれば付与する
	if !req.public && sess != nil && sess.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	return httpReq, nil
}

// refreshAndReplay はアクセストークンをリフレッシュし、元のリクエストを1回だけ再送する。
func (c *Client) refreshAndReplay(ctx context.Context, sess *model.Session, req request) ([]byte, error) {
	if sess == nil || sess.RefreshToken == "" {
		c.destroySession(ctx, sess)
		return nil, model.NewSessionExpiredError()
	}

	newToken, err := c.refreshAccessToken(ctx, sess.RefreshToken)
	if err != nil {
		c.logger.Warn("トークンリフレッシュに失敗したためセッションを破棄します",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
		if c.metrics != nil {
			c.metrics.RecordTokenRefresh(false)
		}
		c.destroySession(ctx, sess)
		return nil, model.NewSessionExpiredError()
	}

	if c.metrics != nil {
		c.metrics.RecordTokenRefresh(true)
	}

	// 新しいアクセストークンを永続化する（last-writer-wins）
	sess.AccessToken = newToken
	if err := c.sessions.UpdateTokens(ctx, sess); err != nil {
		c.logger.Error("リフレッシュ後のセッション更新に失敗しました",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}

	// 元のリクエストを1回だけ再送する。再度の401はそのまま返す。
	body, status, err := c.send(ctx, sess, req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, backendError(status, body)
	}
	return body, nil
}

// refreshTokenResponse はリフレッシュエンドポイントのレスポンス。
// バックエンドはトップレベルまたはエンベロープのdata内にaccessTokenを返す。
type refreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
	Data        struct {
		AccessToken string `json:"accessToken"`
	} `json:"data"`
}

// refreshAccessToken はリフレッシュトークンを新しいアクセストークンに交換する。
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/refresh", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.record("/auth/refresh", 0, time.Since(start))
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()
	c.record("/auth/refresh", resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh returned status %d", resp.StatusCode)
	}

	var parsed refreshTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse refresh response: %w", err)
	}

	token := parsed.AccessToken
	if token == "" {
		token = parsed.Data.AccessToken
	}
	if token == "" {
		return "", fmt.Errorf("empty access token in refresh response")
	}
	return token, nil
}

// destroySession はセッションレコードを破棄する。
// トークンと会員属性は常にまとめて無効化される。
func (c *Client) destroySession(ctx context.Context, sess *model.Session) {
	if sess == nil || sess.ID == "" {
		return
	}
	if err := c.sessions.DeleteByID(ctx, sess.ID); err != nil {
		c.logger.Error("セッションの破棄に失敗しました",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}
}

// record はメトリクスコレクタへ呼び出し結果を記録する。
func (c *Client) record(path string, status int, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordBackendCall(pathClass(path), status, duration)
}

// pathClass はメトリクスのラベル用にパスの先頭セグメントを返す。
// IDなどの可変部分でラベルが無限に増えないようにする。
func pathClass(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	if trimmed == "" {
		return "unknown"
	}
	return trimmed
}

// backendError はバックエンドの非2xx応答を構造化エラーに変換する。
// エンベロープのmessageフィールドがあればそれをユーザー向けメッセージとする。
func backendError(status int, body []byte) *model.APIError {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return model.NewBackendError(status, env.Message)
	}
	return model.NewBackendError(status, "")
}

// decodeData はレスポンスボディを対象の型にデコードする。
// エンベロープ形式（dataフィールドあり）と生JSONの両方を受け付ける。
func decodeData(body []byte, v any) error {
	if len(body) == 0 {
		return nil
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
		return nil
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
