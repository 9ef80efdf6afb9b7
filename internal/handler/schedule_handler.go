package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/suppleit/supplefront/internal/middleware"
	"github.com/suppleit/supplefront/internal/model"
	"github.com/suppleit/supplefront/internal/schedule"
)

// ScheduleHandler は服用スケジュールのHTTPハンドラー。
// カレンダー・今日の計画・週間ステータスの3画面と、スケジュールの
// CRUD・ドラッグ移動を提供する。
type ScheduleHandler struct {
	service *schedule.Service
}

// NewScheduleHandler はScheduleHandlerを生成する。
func NewScheduleHandler(service *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Calendar はカレンダー表示用の展開済みイベント一覧を返す。
// GET /app/schedule/calendar
func (h *ScheduleHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	events, err := h.service.Calendar(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Today は今日の服用計画を時間帯ごとに返す。
// dateクエリパラメータで基準日を指定できる（未指定は今日）。
// GET /app/schedule/today?date=2025-06-11
func (h *ScheduleHandler) Today(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	day, ok := h.baseDate(w, r)
	if !ok {
		return
	}

	plans, err := h.service.Today(r.Context(), session, day)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// Week は今週7日分の服用ステータスを返す。
// GET /app/schedule/week?date=2025-06-11
func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	day, ok := h.baseDate(w, r)
	if !ok {
		return
	}

	week, err := h.service.Week(r.Context(), session, day)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// List はスケジュールレコード一覧を返す。
// GET /app/schedule
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	records, err := h.service.List(r.Context(), session)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Get はスケジュール1件を返す。
// GET /app/schedule/{id}
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	scheduleID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	record, err := h.service.Get(r.Context(), session, scheduleID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// scheduleRequest はスケジュール作成・更新リクエストのボディ。
type scheduleRequest struct {
	SupplementName string           `json:"supplementName"`
	IntakeTime     model.IntakeSlot `json:"intakeTime"`
	IntakeStart    model.Date       `json:"intakeStart"`
	IntakeEnd      model.Date       `json:"intakeEnd"`
	IntakeDistance int              `json:"intakeDistance"`
	Memo           string           `json:"memo"`
}

// validateSchedule はスケジュール内容を検証し、問題があれば理由を返す。
func validateSchedule(req scheduleRequest) (bool, string) {
	if strings.TrimSpace(req.SupplementName) == "" {
		return false, "サプリメント名を入力してください。"
	}
	if !req.IntakeTime.Valid() {
		return false, "服用時間帯は아침・점심・저녁のいずれかを指定してください。"
	}
	if req.IntakeStart.IsZero() {
		return false, "服用開始日を指定してください。"
	}
	if !req.IntakeEnd.IsZero() && req.IntakeEnd.Before(req.IntakeStart) {
		return false, "服用終了日は開始日以降を指定してください。"
	}
	if req.IntakeDistance < 0 {
		return false, "服用日数は0以上を指定してください。"
	}
	return true, ""
}

// Create はスケジュール登録を処理し、再取得した展開済みイベント一覧を返す。
// POST /app/schedule
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}
	if ok, reason := validateSchedule(req); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	events, err := h.service.Create(r.Context(), session, model.IntakeSchedule{
		SupplementName: req.SupplementName,
		IntakeTime:     req.IntakeTime,
		IntakeStart:    req.IntakeStart,
		IntakeEnd:      req.IntakeEnd,
		IntakeDistance: req.IntakeDistance,
		Memo:           req.Memo,
		MemberID:       session.MemberID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, events)
}

// Update はスケジュールの全体更新を処理し、再取得した展開済みイベント一覧を返す。
// PUT /app/schedule/{id}
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	scheduleID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}
	if ok, reason := validateSchedule(req); !ok {
		middleware.WriteAPIError(w, model.NewValidationError(reason))
		return
	}

	events, err := h.service.Update(r.Context(), session, model.IntakeSchedule{
		ScheduleID:     scheduleID,
		SupplementName: req.SupplementName,
		IntakeTime:     req.IntakeTime,
		IntakeStart:    req.IntakeStart,
		IntakeEnd:      req.IntakeEnd,
		IntakeDistance: req.IntakeDistance,
		Memo:           req.Memo,
		MemberID:       session.MemberID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Delete はスケジュール削除を処理し、再取得した展開済みイベント一覧を返す。
// DELETE /app/schedule/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	scheduleID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	events, err := h.service.Delete(r.Context(), session, scheduleID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// moveRequest はドラッグ移動リクエストのボディ。
type moveRequest struct {
	IntakeStart model.Date `json:"intakeStart"`
}

// Move はカレンダー上のドラッグ移動を処理する。
// 開始日のみを変更し、終了日と服用日数は保持する。
// PATCH /app/schedule/{id}/move
func (h *ScheduleHandler) Move(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	scheduleID, err := idParam(r, "id")
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyError(w)
		return
	}
	if req.IntakeStart.IsZero() {
		middleware.WriteAPIError(w, model.NewValidationError("移動先の日付を指定してください。"))
		return
	}

	events, err := h.service.Reschedule(r.Context(), session, scheduleID, req.IntakeStart)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Complete は「服用完了」操作を処理する。
// 完了状態はサーバー側でもバックエンドでも追跡しない。
// SPAがトースト表示に使う確認メッセージのみを返す。
// POST /app/schedule/{id}/complete
func (h *ScheduleHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionFrom(w, r); !ok {
		return
	}

	if _, err := idParam(r, "id"); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "服用を記録しました。お疲れさまでした！"})
}

// baseDate はdateクエリパラメータを解析する。未指定の場合は今日を返す。
func (h *ScheduleHandler) baseDate(w http.ResponseWriter, r *http.Request) (model.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return model.DateOf(time.Now()), true
	}

	day, err := model.ParseDate(raw)
	if err != nil {
		middleware.WriteAPIError(w, model.NewValidationError("日付はYYYY-MM-DD形式で指定してください。"))
		return model.Date{}, false
	}
	return day, true
}
