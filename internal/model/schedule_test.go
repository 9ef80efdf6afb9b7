package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.March, 15)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(data) != `"2025-03-15"` {
		t.Errorf("marshal = %s, want %q", data, "2025-03-15")
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestDate_UnmarshalNull_IsZero(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte("null"), &d); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !d.IsZero() {
		t.Errorf("null should unmarshal to zero Date, got %v", d)
	}
}

func TestDate_UnmarshalDateTime_KeepsDatePart(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2025-03-15T00:00:00"`), &d); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !d.Equal(NewDate(2025, time.March, 15)) {
		t.Errorf("got %v, want 2025-03-15", d)
	}
}

func TestIntakeSchedule_EffectiveEnd(t *testing.T) {
	start := NewDate(2025, time.June, 1)

	tests := []struct {
		name     string
		schedule IntakeSchedule
		want     Date
	}{
		{
			name:     "explicit end date wins",
			schedule: IntakeSchedule{IntakeStart: start, IntakeEnd: NewDate(2025, time.June, 10), IntakeDistance: 30},
			want:     NewDate(2025, time.June, 10),
		},
		{
			name:     "duration of N covers N days",
			schedule: IntakeSchedule{IntakeStart: start, IntakeDistance: 7},
			want:     NewDate(2025, time.June, 7),
		},
		{
			name:     "duration of 1 is the start date itself",
			schedule: IntakeSchedule{IntakeStart: start, IntakeDistance: 1},
			want:     start,
		},
		{
			name:     "neither end nor duration falls back to start",
			schedule: IntakeSchedule{IntakeStart: start},
			want:     start,
		},
		{
			name:     "non-positive duration falls back to start",
			schedule: IntakeSchedule{IntakeStart: start, IntakeDistance: -3},
			want:     start,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.schedule.EffectiveEnd()
			if !got.Equal(tt.want) {
				t.Errorf("EffectiveEnd() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntakeSchedule_ActiveOn(t *testing.T) {
	s := IntakeSchedule{
		IntakeStart:    NewDate(2025, time.June, 1),
		IntakeDistance: 7,
	}

	if !s.ActiveOn(NewDate(2025, time.June, 1)) {
		t.Error("start date should be active")
	}
	if !s.ActiveOn(NewDate(2025, time.June, 7)) {
		t.Error("effective end date should be active")
	}
	if s.ActiveOn(NewDate(2025, time.May, 31)) {
		t.Error("day before start should not be active")
	}
	if s.ActiveOn(NewDate(2025, time.June, 8)) {
		t.Error("day after effective end should not be active")
	}
}

func TestIntakeSchedule_ActiveOn_MissingStart_AlwaysFalse(t *testing.T) {
	s := IntakeSchedule{IntakeDistance: 30}
	if s.ActiveOn(DateOf(time.Now())) {
		t.Error("a record without intakeStart must never be active")
	}
}

func TestIntakeSlot_Hours(t *testing.T) {
	tests := []struct {
		slot       IntakeSlot
		start, end int
	}{
		{SlotMorning, 8, 9},
		{SlotNoon, 12, 13},
		{SlotEvening, 18, 19},
		{IntakeSlot("unknown"), 8, 9},
	}

	for _, tt := range tests {
		start, end := tt.slot.Hours()
		if start != tt.start || end != tt.end {
			t.Errorf("%s.Hours() = (%d, %d), want (%d, %d)", tt.slot, start, end, tt.start, tt.end)
		}
	}
}
