package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDayOf(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	instant := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)

	if got := DayOf(instant, time.UTC).String(); got != "2026-03-09" {
		t.Errorf("UTC day = %s, want 2026-03-09", got)
	}
	if got := DayOf(instant, tokyo).String(); got != "2026-03-10" {
		t.Errorf("Tokyo day = %s, want 2026-03-10", got)
	}
	if got := DayOf(instant, nil).String(); got != "2026-03-09" {
		t.Errorf("nil location should default to UTC, got %s", got)
	}
}

func TestDayArithmetic(t *testing.T) {
	d := NewDay(2026, 2, 28)

	if got := d.AddDays(1).String(); got != "2026-03-01" {
		t.Errorf("AddDays(1) = %s, want 2026-03-01", got)
	}
	if got := d.AddDays(30).DaysSince(d); got != 30 {
		t.Errorf("DaysSince = %d, want 30", got)
	}
	if !d.Before(d.AddDays(1)) {
		t.Error("expected day to be before the next day")
	}
	if !d.Equal(DayFromTime(time.Date(2026, 2, 28, 15, 4, 0, 0, time.UTC))) {
		t.Error("expected DayFromTime to drop the time of day")
	}
}

func TestDayJSON(t *testing.T) {
	d := NewDay(2026, 10, 14)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-10-14"` {
		t.Errorf("unexpected JSON %s", data)
	}

	var zero Day
	data, _ = json.Marshal(zero)
	if string(data) != "null" {
		t.Errorf("zero day should marshal to null, got %s", data)
	}

	var parsed Day
	if err := json.Unmarshal([]byte(`"2026-10-14"`), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Equal(d) {
		t.Errorf("parsed %s, want %s", parsed, d)
	}

	if err := json.Unmarshal([]byte(`"14/10/2026"`), &parsed); err == nil {
		t.Error("expected an error for a malformed day")
	}
}
