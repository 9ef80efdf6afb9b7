package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/suppleit/supplefront/internal/model"
)

// Upload はmultipartで送信する1ファイル。
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// NoticeDraft はお知らせの作成・更新内容。
// ContentImagesは本文から抽出されたインライン画像で、本文側には
// {{IMAGE_PLACEHOLDER_N}} プレースホルダーが残っている前提。
type NoticeDraft struct {
	Title            string
	Content          string
	RemoveImage      bool
	RemoveAttachment bool
	File             *Upload  // 代表画像または添付ファイル。MIMEタイプで振り分ける
	ContentImages    []Upload // 本文インライン画像（プレースホルダー順）
}

// ListNotices はお知らせ一覧を取得する。未認証で閲覧できる。
func (c *Client) ListNotices(ctx context.Context) ([]model.Notice, error) {
	body, err := c.do(ctx, nil, request{
		method: http.MethodGet,
		path:   "/notice",
		public: true,
	})
	if err != nil {
		return nil, err
	}

	notices := []model.Notice{}
	if err := decodeData(body, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

// GetNotice はお知らせ詳細を取得する。未認証で閲覧できる。
func (c *Client) GetNotice(ctx context.Context, noticeID int64) (*model.Notice, error) {
	body, err := c.do(ctx, nil, request{
		method: http.MethodGet,
		path:   "/notice/" + strconv.FormatInt(noticeID, 10),
		public: true,
	})
	if err != nil {
		return nil, err
	}

	var notice model.Notice
	if err := decodeData(body, &notice); err != nil {
		return nil, err
	}
	return &notice, nil
}

// CreateNotice はお知らせを作成する。管理者のみ。
func (c *Client) CreateNotice(ctx context.Context, sess *model.Session, draft NoticeDraft) error {
	mpBody, contentType, err := encodeNoticeMultipart(draft)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, sess, request{
		method:               http.MethodPost,
		path:                 "/notice",
		multipartBody:        mpBody,
		multipartContentType: contentType,
	})
	return err
}

// UpdateNotice はお知らせを更新する。管理者のみ。
func (c *Client) UpdateNotice(ctx context.Context, sess *model.Session, noticeID int64, draft NoticeDraft) error {
	mpBody, contentType, err := encodeNoticeMultipart(draft)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, sess, request{
		method:               http.MethodPut,
		path:                 "/notice/" + strconv.FormatInt(noticeID, 10),
		multipartBody:        mpBody,
		multipartContentType: contentType,
	})
	return err
}

// DeleteNotice はお知らせを削除する。管理者のみ。
func (c *Client) DeleteNotice(ctx context.Context, sess *model.Session, noticeID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   "/notice/" + strconv.FormatInt(noticeID, 10),
	})
	return err
}

// encodeNoticeMultipart はお知らせをバックエンドのmultipart契約に従って組み立てる。
// JSONメタデータは"notice"パート、ファイルはMIMEタイプにより"image"または
// "attachment"パート、本文インライン画像は"contentImages"パートで送信する。
func encodeNoticeMultipart(draft NoticeDraft) (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	meta := map[string]any{
		"title":            draft.Title,
		"content":          draft.Content,
		"removeImage":      draft.RemoveImage,
		"removeAttachment": draft.RemoveAttachment,
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal notice metadata: %w", err)
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="notice"`)
	header.Set("Content-Type", "application/json")
	metaPart, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create notice part: %w", err)
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return nil, "", fmt.Errorf("failed to write notice part: %w", err)
	}

	if draft.File != nil {
		fieldName := "attachment"
		if strings.HasPrefix(draft.File.ContentType, "image/") {
			fieldName = "image"
		}
		if err := writeFilePart(writer, fieldName, *draft.File); err != nil {
			return nil, "", err
		}
	}

	for _, img := range draft.ContentImages {
		if err := writeFilePart(writer, "contentImages", img); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, fieldName string, file Upload) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, file.Name))
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", fieldName, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("failed to write %s part: %w", fieldName, err)
	}
	return nil
}
