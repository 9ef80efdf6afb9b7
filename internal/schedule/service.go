package schedule

import (
	"context"
	"log/slog"
	"sync"

	"github.com/suppleit/supplefront/internal/model"
)

// Gateway はサービスが必要とするバックエンド操作のインターフェース。
// gateway.Clientがこれを満たす。
type Gateway interface {
	ListSchedules(ctx context.Context, sess *model.Session) ([]model.IntakeSchedule, error)
	GetSchedule(ctx context.Context, sess *model.Session, scheduleID int64) (*model.IntakeSchedule, error)
	CreateSchedule(ctx context.Context, sess *model.Session, schedule model.IntakeSchedule) error
	UpdateSchedule(ctx context.Context, sess *model.Session, schedule model.IntakeSchedule) error
	DeleteSchedule(ctx context.Context, sess *model.Session, scheduleID int64) error
	ListSchedulesByTime(ctx context.Context, sess *model.Session, slot model.IntakeSlot) ([]model.IntakeSchedule, error)
}

// Service は服用スケジュール画面向けの読み書き操作を提供する。
// 書き込み後は常にバックエンドから再取得した結果を正とする。
type Service struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(gateway Gateway, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gateway, logger: logger}
}

// Calendar はカレンダー表示用の展開済みイベント一覧を返す。
func (s *Service) Calendar(ctx context.Context, sess *model.Session) ([]model.CalendarEvent, error) {
	records, err := s.gateway.ListSchedules(ctx, sess)
	if err != nil {
		return nil, err
	}
	return ExpandEvents(records, s.logger), nil
}

// Today は今日の服用計画を時間帯ごとに返す。
// 3つの時間帯は並行して取得し、いずれかが失敗すれば全体を失敗とする。
func (s *Service) Today(ctx context.Context, sess *model.Session, today model.Date) (map[model.IntakeSlot][]model.IntakeSchedule, error) {
	slots := model.AllSlots()
	results := make([][]model.IntakeSchedule, len(slots))
	errs := make([]error, len(slots))

	var wg sync.WaitGroup
	for i, slot := range slots {
		wg.Add(1)
		go func(i int, slot model.IntakeSlot) {
			defer wg.Done()
			results[i], errs[i] = s.gateway.ListSchedulesByTime(ctx, sess, slot)
		}(i, slot)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	// 時間帯別取得の結果を統合してから今日の実効期間で絞り込む。
	// 同一レコードが複数の応答に現れても1回だけ数える。
	seen := make(map[int64]bool)
	merged := make([]model.IntakeSchedule, 0)
	for _, records := range results {
		for _, rec := range records {
			if seen[rec.ScheduleID] {
				continue
			}
			seen[rec.ScheduleID] = true
			merged = append(merged, rec)
		}
	}
	return TodayPlans(merged, today), nil
}

// Week は今週7日分の服用ステータスを返す。
func (s *Service) Week(ctx context.Context, sess *model.Session, today model.Date) ([]model.WeekDay, error) {
	records, err := s.gateway.ListSchedules(ctx, sess)
	if err != nil {
		return nil, err
	}
	return WeeklyStatus(records, today), nil
}

// List はスケジュールレコード一覧をそのまま返す。
func (s *Service) List(ctx context.Context, sess *model.Session) ([]model.IntakeSchedule, error) {
	return s.gateway.ListSchedules(ctx, sess)
}

// Get はスケジュール1件を返す。
func (s *Service) Get(ctx context.Context, sess *model.Session, scheduleID int64) (*model.IntakeSchedule, error) {
	return s.gateway.GetSchedule(ctx, sess, scheduleID)
}

// Create はスケジュールを登録し、再取得した展開済みイベント一覧を返す。
func (s *Service) Create(ctx context.Context, sess *model.Session, schedule model.IntakeSchedule) ([]model.CalendarEvent, error) {
	if err := s.gateway.CreateSchedule(ctx, sess, schedule); err != nil {
		return nil, err
	}
	return s.Calendar(ctx, sess)
}

// Update はスケジュールを全体更新し、再取得した展開済みイベント一覧を返す。
func (s *Service) Update(ctx context.Context, sess *model.Session, schedule model.IntakeSchedule) ([]model.CalendarEvent, error) {
	if err := s.gateway.UpdateSchedule(ctx, sess, schedule); err != nil {
		return nil, err
	}
	return s.Calendar(ctx, sess)
}

// Delete はスケジュールを削除し、再取得した展開済みイベント一覧を返す。
func (s *Service) Delete(ctx context.Context, sess *model.Session, scheduleID int64) ([]model.CalendarEvent, error) {
	if err := s.gateway.DeleteSchedule(ctx, sess, scheduleID); err != nil {
		return nil, err
	}
	return s.Calendar(ctx, sess)
}

// Reschedule はカレンダー上のドラッグ移動を反映する。
// 開始日のみを新しい日付に変更し、終了日と服用日数は変更しない
// （実効終了日は新しい開始日から再計算される）。
// 更新後はバックエンドから再取得した結果を正として返す。
func (s *Service) Reschedule(ctx context.Context, sess *model.Session, scheduleID int64, newStart model.Date) ([]model.CalendarEvent, error) {
	current, err := s.gateway.GetSchedule(ctx, sess, scheduleID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, model.NewScheduleNotFoundError(scheduleID)
	}

	updated := *current
	updated.IntakeStart = newStart
	if err := s.gateway.UpdateSchedule(ctx, sess, updated); err != nil {
		return nil, err
	}
	return s.Calendar(ctx, sess)
}
