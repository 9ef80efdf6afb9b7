// Package schedule は服用スケジュールの展開処理を提供する。
// バックエンドのスケジュールレコードをカレンダーイベント、
// 今日の服用計画、週間ステータスへ変換する。
package schedule

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/suppleit/supplefront/internal/model"
)

// ExpandEvents はスケジュールレコードをカレンダー表示用イベントに展開する。
// 各レコードについて、開始日から実効終了日までの暦日ごとに1件のイベントを生成する。
// イベントの開始・終了時刻は時間帯の固定表示時刻（朝08-09時、昼12-13時、夜18-19時）。
// 開始日の無い不正なレコードは警告ログを出してスキップする（致命的エラーにはしない）。
func ExpandEvents(records []model.IntakeSchedule, logger *slog.Logger) []model.CalendarEvent {
	if logger == nil {
		logger = slog.Default()
	}

	events := make([]model.CalendarEvent, 0, len(records))
	for i := range records {
		rec := &records[i]
		if rec.IntakeStart.IsZero() {
			logger.Warn("開始日の無いスケジュールをスキップしました",
				slog.Int64("schedule_id", rec.ScheduleID),
				slog.String("supplement", rec.SupplementName),
			)
			continue
		}

		end := rec.EffectiveEnd()
		for day := rec.IntakeStart; !day.After(end); day = day.AddDays(1) {
			events = append(events, newEvent(rec, day))
		}
	}
	return events
}

// newEvent は (スケジュール, 暦日) の組から1件のイベントを生成する。
func newEvent(rec *model.IntakeSchedule, day model.Date) model.CalendarEvent {
	startHour, endHour := rec.IntakeTime.Hours()
	y, m, d := day.Date()
	return model.CalendarEvent{
		ID:     EventID(rec.ScheduleID, day),
		Title:  fmt.Sprintf("%s 복용 (%s)", rec.SupplementName, rec.IntakeTime),
		Start:  time.Date(y, m, d, startHour, 0, 0, 0, time.Local),
		End:    time.Date(y, m, d, endHour, 0, 0, 0, time.Local),
		Source: rec,
	}
}

// EventID はスケジュールIDと暦日からイベントIDを構成する。
// フェッチのたびに再生成されるため、同一 (スケジュール, 日) に対して安定している。
func EventID(scheduleID int64, day model.Date) string {
	return fmt.Sprintf("%d-%s", scheduleID, day.Format("20060102"))
}

// TodayPlans は実効期間が今日を含むレコードを時間帯ごとに分類する。
// 3つの時間帯パネルに直接描画できるよう、朝・昼・夜の互いに素な
// 3バケットに分割する。1レコードが複数のバケットに現れることはない。
func TodayPlans(records []model.IntakeSchedule, today model.Date) map[model.IntakeSlot][]model.IntakeSchedule {
	plans := make(map[model.IntakeSlot][]model.IntakeSchedule, 3)
	for _, slot := range model.AllSlots() {
		plans[slot] = []model.IntakeSchedule{}
	}

	for _, rec := range records {
		if !rec.ActiveOn(today) {
			continue
		}
		if !rec.IntakeTime.Valid() {
			continue
		}
		plans[rec.IntakeTime] = append(plans[rec.IntakeTime], rec)
	}
	return plans
}

// WeeklyStatus は今週7日分の服用ステータスを導出する。
// 週の開始は日曜日。各日について、その日に実効期間が重なる
// サプリメント名の一覧と表示ステータスを返す。
// ステータスは表示専用の分類であり、実際の服用確認は追跡しない。
func WeeklyStatus(records []model.IntakeSchedule, today model.Date) []model.WeekDay {
	weekStart := today.AddDays(-int(today.Weekday()))

	week := make([]model.WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDays(i)

		var items []string
		for _, rec := range records {
			if rec.ActiveOn(day) {
				items = append(items, rec.SupplementName)
			}
		}

		week = append(week, model.WeekDay{
			Date:    day,
			Weekday: day.Weekday().String(),
			Items:   items,
			Status:  dayStatus(day, today, len(items)),
		})
	}
	return week
}

// dayStatus は1日分の表示ステータスを分類する。
// 過去の日: 予定あり→done、予定なし→missed。
// 今日以降: 予定あり→upcoming、予定なし→空文字列。
func dayStatus(day, today model.Date, itemCount int) model.DayStatus {
	if day.Before(today) {
		if itemCount > 0 {
			return model.StatusDone
		}
		return model.StatusMissed
	}
	if itemCount > 0 {
		return model.StatusUpcoming
	}
	return model.StatusNone
}
