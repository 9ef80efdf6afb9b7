package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayout はバックエンドとの日付ワイヤーフォーマット。
const dateLayout = "2006-01-02"

// Date は時刻成分を持たない暦日を表す。
// バックエンドとは "YYYY-MM-DD" 形式のJSON文字列でやり取りする。
// ゼロ値は「未設定」を意味する。
type Date struct {
	time.Time
}

// NewDate は年月日からDateを生成する。
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf は時刻の暦日成分のみを持つDateを返す。
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate は "YYYY-MM-DD" 形式の文字列をDateに変換する。
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t}, nil
}

// AddDays はn日後の暦日を返す。nは負でもよい。
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// Before は暦日単位の前後比較を行う。
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After は暦日単位の前後比較を行う。
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal は同一の暦日かを判定する。
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// String は "YYYY-MM-DD" 形式の文字列を返す。
func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

// MarshalJSON は "YYYY-MM-DD" 形式のJSON文字列を出力する。
// ゼロ値はnullとして出力する。
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON は "YYYY-MM-DD" 形式のJSON文字列を読み取る。
// nullおよび空文字列はゼロ値として扱う。
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	// バックエンドが時刻付きで返す場合に備え、日付部分のみを採用する
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IntakeSlot は1日の服用時間帯を表す閉じた列挙。
// ワイヤー値はバックエンド契約に合わせた韓国語ラベルそのもの。
type IntakeSlot string

const (
	// SlotMorning は朝の服用時間帯（08:00-09:00）。
	SlotMorning IntakeSlot = "아침"
	// SlotNoon は昼の服用時間帯（12:00-13:00）。
	SlotNoon IntakeSlot = "점심"
	// SlotEvening は夜の服用時間帯（18:00-19:00）。
	SlotEvening IntakeSlot = "저녁"
)

// AllSlots は表示順の全時間帯を返す。
func AllSlots() []IntakeSlot {
	return []IntakeSlot{SlotMorning, SlotNoon, SlotEvening}
}

// Valid は既知の時間帯かを判定する。
func (s IntakeSlot) Valid() bool {
	switch s {
	case SlotMorning, SlotNoon, SlotEvening:
		return true
	}
	return false
}

// Hours は時間帯の表示用開始時・終了時を返す。
// 未知の時間帯は朝の時間帯にフォールバックする。
func (s IntakeSlot) Hours() (start, end int) {
	switch s {
	case SlotNoon:
		return 12, 13
	case SlotEvening:
		return 18, 19
	default:
		return 8, 9
	}
}

// IntakeSchedule はバックエンドに保存された服用スケジュールレコードを表す。
// IntakeEndとIntakeDistanceの少なくとも一方が実効終了日を決定する。
// どちらも無い場合、実効期間は開始日のみとなる。
type IntakeSchedule struct {
	ScheduleID     int64      `json:"scheduleId"`
	SupplementName string     `json:"supplementName"`
	IntakeTime     IntakeSlot `json:"intakeTime"`
	IntakeStart    Date       `json:"intakeStart,omitzero"`
	IntakeEnd      Date       `json:"intakeEnd,omitzero"`
	IntakeDistance int        `json:"intakeDistance,omitempty"`
	Memo           string     `json:"memo,omitempty"`
	MemberID       int64      `json:"memberId,omitempty"`
}

// EffectiveEnd は実効終了日を返す。
// IntakeEndがあればそれを、無ければIntakeStart+(IntakeDistance-1)日を、
// どちらも無ければIntakeStart自身を返す。
func (s *IntakeSchedule) EffectiveEnd() Date {
	if !s.IntakeEnd.IsZero() {
		return s.IntakeEnd
	}
	if s.IntakeDistance > 0 {
		return s.IntakeStart.AddDays(s.IntakeDistance - 1)
	}
	return s.IntakeStart
}

// ActiveOn は指定の暦日が実効期間（両端含む）に含まれるかを判定する。
// 開始日が無いレコードは常にfalseを返す。
func (s *IntakeSchedule) ActiveOn(day Date) bool {
	if s.IntakeStart.IsZero() {
		return false
	}
	return !s.IntakeStart.After(day) && !s.EffectiveEnd().Before(day)
}

// CalendarEvent はカレンダー表示用に導出される一時イベント。
// (スケジュール, 暦日) の組ごとに1件生成され、フェッチのたびに再生成される。
// 永続化はされない。
type CalendarEvent struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Source *IntakeSchedule `json:"resource"`
}

// DayStatus は週間ビューにおける1日の表示ステータス。
// 実際の服用確認は永続化されない表示専用の分類。
type DayStatus string

const (
	// StatusDone は過去の日に1件以上の服用予定があったことを示す。
	StatusDone DayStatus = "done"
	// StatusMissed は過去の日に服用予定が無かったことを示す。
	StatusMissed DayStatus = "missed"
	// StatusUpcoming は今日以降の日に1件以上の服用予定があることを示す。
	StatusUpcoming DayStatus = "upcoming"
	// StatusNone は今日以降の日に服用予定が無いことを示す。
	StatusNone DayStatus = ""
)

// WeekDay は週間ビューの1日分のエントリ。
type WeekDay struct {
	Date    Date      `json:"date"`
	Weekday string    `json:"weekday"`
	Items   []string  `json:"items"`
	Status  DayStatus `json:"status"`
}
