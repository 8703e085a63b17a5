package catalog_test

import (
	"encoding/json"
	"testing"
	"time"

	"reprise/internal/catalog"
)

func TestDateArithmetic(t *testing.T) {
	start := catalog.Date{Year: 2026, Month: time.January, Day: 30}

	if got := start.AddDays(2).String(); got != "2026-02-01" {
		t.Fatalf("AddDays across month = %s", got)
	}
	if got := start.AddDays(148).DaysSince(start); got != 148 {
		t.Fatalf("DaysSince = %d, want 148", got)
	}
	if got := start.AddDays(-30).String(); got != "2025-12-31" {
		t.Fatalf("AddDays negative = %s", got)
	}
	if !start.Before(start.AddDays(1)) || start.After(start) || start.Compare(start) != 0 {
		t.Fatal("unexpected comparison results")
	}
}

func TestDateIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2026, time.March, 8, 0, 5, 0, 0, time.Local)
	night := time.Date(2026, time.March, 8, 23, 55, 0, 0, time.Local)
	if catalog.Today(morning) != catalog.Today(night) {
		t.Fatalf("expected same day for %v and %v", morning, night)
	}
}

func TestParseDate(t *testing.T) {
	d, err := catalog.ParseDate("2026-10-17")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year != 2026 || d.Month != time.October || d.Day != 17 {
		t.Fatalf("unexpected date %+v", d)
	}
	for _, bad := range []string{"", "2026-13-01", "17/10/2026", "2026-02-30"} {
		if _, err := catalog.ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Due *catalog.Date `json:"due,omitempty"`
	}
	due := catalog.Date{Year: 2026, Month: time.May, Day: 4}
	data, err := json.Marshal(wrapper{Due: &due})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"due":"2026-05-04"}` {
		t.Fatalf("unexpected json %s", data)
	}
	var decoded wrapper
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Due == nil || *decoded.Due != due {
		t.Fatalf("unexpected decoded date %+v", decoded.Due)
	}
}
