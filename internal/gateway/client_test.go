package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/suppleit/supplefront/internal/model"
)

// mockSessionWriter はSessionWriterのテスト用モック。
type mockSessionWriter struct {
	mu            sync.Mutex
	updatedTokens []string
	deletedIDs    []string
	updateErr     error
}

func (m *mockSessionWriter) UpdateTokens(ctx context.Context, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updatedTokens = append(m.updatedTokens, session.AccessToken)
	return m.updateErr
}

func (m *mockSessionWriter) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testSession() *model.Session {
	return &model.Session{
		ID:           "sess-1",
		AccessToken:  "old-token",
		RefreshToken: "refresh-token",
		MemberID:     42,
		Email:        "user@example.com",
		Role:         "USER",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

func newTestClient(serverURL string, sessions *mockSessionWriter) *Client {
	return NewClient(&http.Client{Timeout: 5 * time.Second}, serverURL, sessions, testLogger(), nil)
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": status < 300,
		"message": "",
		"data":    data,
	})
}

func TestDo_Unauthorized_RefreshesOnceAndRetriesOriginal(t *testing.T) {
	var scheduleCalls, refreshCalls int
	var retriedToken string
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/schedule":
			scheduleCalls++
			if r.Header.Get("Authorization") == "Bearer new-token" {
				retriedToken = "new-token"
				writeEnvelope(w, http.StatusOK, []map[string]any{{"scheduleId": 1, "supplementName": "비타민C"}})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		case "/auth/refresh":
			refreshCalls++
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["refreshToken"] != "refresh-token" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "new-token"})
		default:
			t.Errorf("unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	sessions := &mockSessionWriter{}
	client := newTestClient(server.URL, sessions)
	sess := testSession()

	schedules, err := client.ListSchedules(context.Background(), sess)
	if err != nil {
		t.Fatalf("ListSchedules returned error: %v", err)
	}
	if len(schedules) != 1 {
		t.Errorf("expected 1 schedule, got %d", len(schedules))
	}
	if refreshCalls != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", refreshCalls)
	}
	if scheduleCalls != 2 {
		t.Errorf("expected original call + 1 retry, got %d calls", scheduleCalls)
	}
	if retriedToken != "new-token" {
		t.Error("retried request did not carry the refreshed token")
	}
	if len(sessions.updatedTokens) != 1 || sessions.updatedTokens[0] != "new-token" {
		t.Errorf("expected new token persisted once, got %v", sessions.updatedTokens)
	}
	if len(sessions.deletedIDs) != 0 {
		t.Errorf("session should not be destroyed on successful refresh, got deletions %v", sessions.deletedIDs)
	}
}

func TestDo_UnauthorizedAfterRefresh_SurfacedWithoutSecondRefresh(t *testing.T) {
	var scheduleCalls, refreshCalls int
	var mu sync.Mutex

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/schedule":
			scheduleCalls++
			w.WriteHeader(http.StatusUnauthorized)
		case "/auth/refresh":
			refreshCalls++
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "new-token"})
		}
	}))
	defer server.Close()

	sessions := &mockSessionWriter{}
	client := newTestClient(server.URL, sessions)

	_, err := client.ListSchedules(context.Background(), testSession())
	if err == nil {
		t.Fatal("expected error after second 401")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeBackendRejected {
		t.Errorf("expected code %s, got %s", model.ErrCodeBackendRejected, apiErr.Code)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.Status)
	}
	if refreshCalls != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", refreshCalls)
	}
	if scheduleCalls != 2 {
		t.Errorf("expected exactly 2 original calls, got %d", scheduleCalls)
	}
}

func TestDo_RefreshRejected_DestroysSessionAndReturnsSessionExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sessions := &mockSessionWriter{}
	client := newTestClient(server.URL, sessions)

	_, err := client.MemberInfo(context.Background(), testSession())
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeSessionExpired {
		t.Errorf("expected code %s, got %s", model.ErrCodeSessionExpired, apiErr.Code)
	}
	if len(sessions.deletedIDs) != 1 || sessions.deletedIDs[0] != "sess-1" {
		t.Errorf("expected session sess-1 destroyed, got %v", sessions.deletedIDs)
	}
}

func TestDo_MissingRefreshToken_ReturnsSessionExpiredWithoutRefreshCall(t *testing.T) {
	var refreshCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			refreshCalls++
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sessions := &mockSessionWriter{}
	client := newTestClient(server.URL, sessions)
	sess := testSession()
	sess.RefreshToken = ""

	_, err := client.MemberInfo(context.Background(), sess)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSessionExpired {
		t.Fatalf("expected session expired error, got %v", err)
	}
	if refreshCalls != 0 {
		t.Errorf("expected no refresh call without refresh token, got %d", refreshCalls)
	}
	if len(sessions.deletedIDs) != 1 {
		t.Errorf("expected session destroyed, got %v", sessions.deletedIDs)
	}
}

func TestDo_PublicNoticeRead_NoTokenAndNoRefreshOn401(t *testing.T) {
	var refreshCalls int
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/notice":
			authHeader = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusUnauthorized)
		case "/auth/refresh":
			refreshCalls++
		}
	}))
	defer server.Close()

	sessions := &mockSessionWriter{}
	client := newTestClient(server.URL, sessions)

	_, err := client.ListNotices(context.Background())
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeBackendRejected {
		t.Errorf("public endpoint 401 should surface as backend error, got code %s", apiErr.Code)
	}
	if authHeader != "" {
		t.Errorf("public endpoint must not carry a token, got %q", authHeader)
	}
	if refreshCalls != 0 {
		t.Errorf("public endpoint must not trigger refresh, got %d calls", refreshCalls)
	}
	if len(sessions.deletedIDs) != 0 {
		t.Errorf("public endpoint must not destroy sessions, got %v", sessions.deletedIDs)
	}
}

func TestDo_TransportFailure_ReturnsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 到達不能にする

	sessions := &mockSessionWriter{}
	client := newTestClient(server.URL, sessions)

	_, err := client.ListSchedules(context.Background(), testSession())
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeBackendUnavailable {
		t.Errorf("expected code %s, got %s", model.ErrCodeBackendUnavailable, apiErr.Code)
	}
}

func TestDo_BackendRejection_UsesEnvelopeMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "이미 사용 중인 이메일입니다.",
		})
	}))
	defer server.Close()

	sessions := &mockSessionWriter{}
	client := newTestClient(server.URL, sessions)

	err := client.CreateReview(context.Background(), testSession(), ReviewDraft{Title: "t", Content: "c", Rating: 4, ProductID: 1})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Message != "이미 사용 중인 이메일입니다." {
		t.Errorf("expected backend message passed through, got %q", apiErr.Message)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("expected status 409, got %d", apiErr.Status)
	}
}

func TestRefreshAccessToken_AcceptsEnvelopeResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/member/info":
			if r.Header.Get("Authorization") == "Bearer wrapped-token" {
				writeEnvelope(w, http.StatusOK, map[string]any{"memberId": 42, "email": "user@example.com"})
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		case "/auth/refresh":
			// dataフィールドに包まれたレスポンス
			writeEnvelope(w, http.StatusOK, map[string]string{"accessToken": "wrapped-token"})
		}
	}))
	defer server.Close()

	sessions := &mockSessionWriter{}
	client := newTestClient(server.URL, sessions)

	member, err := client.MemberInfo(context.Background(), testSession())
	if err != nil {
		t.Fatalf("MemberInfo returned error: %v", err)
	}
	if member.MemberID != 42 {
		t.Errorf("expected member 42, got %d", member.MemberID)
	}
}

func TestDecodeData_HandlesEnvelopeAndRawBody(t *testing.T) {
	var fromEnvelope []model.IntakeSchedule
	envelope := []byte(`{"success":true,"message":"","data":[{"scheduleId":7,"supplementName":"오메가3"}]}`)
	if err := decodeData(envelope, &fromEnvelope); err != nil {
		t.Fatalf("decodeData(envelope) returned error: %v", err)
	}
	if len(fromEnvelope) != 1 || fromEnvelope[0].ScheduleID != 7 {
		t.Errorf("unexpected envelope decode result: %+v", fromEnvelope)
	}

	var fromRaw []model.IntakeSchedule
	raw := []byte(`[{"scheduleId":8,"supplementName":"루테인"}]`)
	if err := decodeData(raw, &fromRaw); err != nil {
		t.Fatalf("decodeData(raw) returned error: %v", err)
	}
	if len(fromRaw) != 1 || fromRaw[0].ScheduleID != 8 {
		t.Errorf("unexpected raw decode result: %+v", fromRaw)
	}
}

func TestPathClass_StripsVariableSegments(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/schedule/123", "schedule"},
		{"/auth/refresh", "auth"},
		{"/notice", "notice"},
		{"/member/validation/email/a@b.co", "member"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := pathClass(tt.path); got != tt.want {
			t.Errorf("pathClass(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
