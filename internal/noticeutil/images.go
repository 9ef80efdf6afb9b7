// Package noticeutil はお知らせ本文の前処理を提供する。
// リッチテキストエディタが本文に埋め込むbase64インライン画像を
// ファイルパートとして抽出し、本文側をプレースホルダーに置き換える。
package noticeutil

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InlineImage は本文から抽出された1枚のインライン画像。
type InlineImage struct {
	Name        string // 例: "inline-image-0.png"
	ContentType string // 例: "image/png"
	Data        []byte
}

// ExtractInlineImages は本文HTML中のdata URI形式のimgタグを抽出し、
// src属性を出現順の {{IMAGE_PLACEHOLDER_N}} に置き換えた本文と
// 画像の一覧を返す。data URIでないimgタグはそのまま残す。
// 不正なdata URIは抽出せず本文に残す。
func ExtractInlineImages(content string) (string, []InlineImage, error) {
	if !strings.Contains(content, "data:") {
		return content, nil, nil
	}

	bodyNode := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(content), bodyNode)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse notice content: %w", err)
	}

	var images []InlineImage
	for _, node := range nodes {
		walkImages(node, &images)
	}

	var buf bytes.Buffer
	for _, node := range nodes {
		if err := html.Render(&buf, node); err != nil {
			return "", nil, fmt.Errorf("failed to render notice content: %w", err)
		}
	}
	return buf.String(), images, nil
}

func walkImages(node *html.Node, images *[]InlineImage) {
	if node.Type == html.ElementNode && node.DataAtom == atom.Img {
		for i := range node.Attr {
			attr := &node.Attr[i]
			if attr.Key != "src" || !strings.HasPrefix(attr.Val, "data:") {
				continue
			}
			img, ok := decodeDataURI(attr.Val, len(*images))
			if !ok {
				continue
			}
			attr.Val = fmt.Sprintf("{{IMAGE_PLACEHOLDER_%d}}", len(*images))
			*images = append(*images, img)
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		walkImages(child, images)
	}
}

// decodeDataURI は "data:image/png;base64,...." 形式のURIをデコードする。
func decodeDataURI(uri string, index int) (InlineImage, bool) {
	rest := strings.TrimPrefix(uri, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return InlineImage{}, false
	}

	contentType := strings.TrimSuffix(meta, ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return InlineImage{}, false
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return InlineImage{}, false
	}

	ext := strings.TrimPrefix(contentType, "image/")
	if i := strings.IndexByte(ext, '+'); i >= 0 { // image/svg+xml など
		ext = ext[:i]
	}
	return InlineImage{
		Name:        fmt.Sprintf("inline-image-%d.%s", index, ext),
		ContentType: contentType,
		Data:        data,
	}, true
}
