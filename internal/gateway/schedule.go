package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/suppleit/supplefront/internal/model"
)

// ListSchedules はログイン中の会員の服用スケジュール全件を取得する。
func (c *Client) ListSchedules(ctx context.Context, sess *model.Session) ([]model.IntakeSchedule, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/schedule",
	})
	if err != nil {
		return nil, err
	}

	schedules := []model.IntakeSchedule{}
	if err := decodeData(body, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetSchedule はスケジュール1件を取得する。
func (c *Client) GetSchedule(ctx context.Context, sess *model.Session, scheduleID int64) (*model.IntakeSchedule, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/schedule/" + strconv.FormatInt(scheduleID, 10),
	})
	if err != nil {
		return nil, err
	}

	var schedule model.IntakeSchedule
	if err := decodeData(body, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// CreateSchedule は服用スケジュールを新規登録する。
func (c *Client) CreateSchedule(ctx context.Context, sess *model.Session, schedule model.IntakeSchedule) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPost,
		path:   "/schedule",
		body:   schedule,
	})
	return err
}

// UpdateSchedule は服用スケジュールを全体更新する。
func (c *Client) UpdateSchedule(ctx context.Context, sess *model.Session, schedule model.IntakeSchedule) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodPut,
		path:   "/schedule/" + strconv.FormatInt(schedule.ScheduleID, 10),
		body:   schedule,
	})
	return err
}

// DeleteSchedule は服用スケジュールを削除する。
func (c *Client) DeleteSchedule(ctx context.Context, sess *model.Session, scheduleID int64) error {
	_, err := c.do(ctx, sess, request{
		method: http.MethodDelete,
		path:   "/schedule/" + strconv.FormatInt(scheduleID, 10),
	})
	return err
}

// ListSchedulesByTime は服用時間帯（아침・점심・저녁）でスケジュールを絞り込む。
func (c *Client) ListSchedulesByTime(ctx context.Context, sess *model.Session, slot model.IntakeSlot) ([]model.IntakeSchedule, error) {
	body, err := c.do(ctx, sess, request{
		method: http.MethodGet,
		path:   "/schedule/time/" + string(slot),
	})
	if err != nil {
		return nil, err
	}

	schedules := []model.IntakeSchedule{}
	if err := decodeData(body, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}
