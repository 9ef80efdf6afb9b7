package security

import (
	"strings"
	"testing"
)

func TestSanitize_RemovesScriptTags(t *testing.T) {
	s := NewContentSanitizer()

	input := `<p>공지 내용</p><script>alert("xss")</script>`
	got := s.Sanitize(input)

	if strings.Contains(got, "<script") || strings.Contains(got, "alert") {
		t.Errorf("script content must be removed, got %q", got)
	}
	if !strings.Contains(got, "공지 내용") {
		t.Errorf("text content must be preserved, got %q", got)
	}
}

func TestSanitize_RemovesEventAttributes(t *testing.T) {
	s := NewContentSanitizer()

	input := `<p onclick="steal()">내용</p><img src="https://example.com/a.png" onerror="steal()">`
	got := s.Sanitize(input)

	if strings.Contains(got, "onclick") || strings.Contains(got, "onerror") {
		t.Errorf("event attributes must be removed, got %q", got)
	}
}

func TestSanitize_RemovesIframeAndStyle(t *testing.T) {
	s := NewContentSanitizer()

	input := `<iframe src="https://evil.example.com"></iframe><style>body{display:none}</style><p>본문</p>`
	got := s.Sanitize(input)

	if strings.Contains(got, "iframe") || strings.Contains(got, "<style") {
		t.Errorf("iframe and style must be removed, got %q", got)
	}
	if !strings.Contains(got, "본문") {
		t.Errorf("text content must be preserved, got %q", got)
	}
}

func TestSanitize_AllowsRichTextElements(t *testing.T) {
	s := NewContentSanitizer()

	input := `<h2>제목</h2><p><strong>중요</strong> <em>강조</em></p><ul><li>항목</li></ul>`
	got := s.Sanitize(input)

	for _, tag := range []string{"<h2>", "<strong>", "<em>", "<ul>", "<li>"} {
		if !strings.Contains(got, tag) {
			t.Errorf("expected %s to be preserved, got %q", tag, got)
		}
	}
}

func TestSanitize_ImageSrcSchemes(t *testing.T) {
	s := NewContentSanitizer()

	tests := []struct {
		name     string
		input    string
		wantKept bool
		marker   string
	}{
		{"HTTPSAllowed", `<img src="https://cdn.example.com/a.png">`, true, "https://cdn.example.com/a.png"},
		{"RelativePathAllowed", `<img src="/uploads/notice/3/banner.png">`, true, "/uploads/notice/3/banner.png"},
		{"PlaceholderAllowed", `<img src="{{IMAGE_PLACEHOLDER_0}}">`, true, "IMAGE_PLACEHOLDER_0"},
		{"JavascriptRejected", `<img src="javascript:alert(1)">`, false, "javascript"},
		{"DataURIRejected", `<img src="data:image/png;base64,AAAA">`, false, "base64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if tt.wantKept && !strings.Contains(got, tt.marker) {
				t.Errorf("expected %q to be kept, got %q", tt.marker, got)
			}
			if !tt.wantKept && strings.Contains(got, tt.marker) {
				t.Errorf("expected %q to be removed, got %q", tt.marker, got)
			}
		})
	}
}

func TestSanitize_AddsNoopenerToLinks(t *testing.T) {
	s := NewContentSanitizer()

	got := s.Sanitize(`<a href="https://example.com">링크</a>`)

	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("expected target=_blank on links, got %q", got)
	}
	if !strings.Contains(got, "noopener") || !strings.Contains(got, "noreferrer") {
		t.Errorf("expected noopener noreferrer on links, got %q", got)
	}
}

func TestSanitize_EmptyInput_ReturnsEmpty(t *testing.T) {
	s := NewContentSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("expected empty output for empty input, got %q", got)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewContentSanitizer()

	input := `<p>내용 <strong>중요</strong></p><script>x()</script>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("sanitize must be idempotent: first %q, second %q", once, twice)
	}
}
