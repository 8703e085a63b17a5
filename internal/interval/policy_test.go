package interval_test

import (
	"errors"
	"testing"
	"time"

	"reprise/internal/catalog"
	"reprise/internal/interval"
)

var day0 = catalog.Date{Year: 2026, Month: time.January, Day: 1}

func TestNextDueDateFollowsCumulativeOffsets(t *testing.T) {
	p := interval.Default()
	want := []int{2, 6, 13, 28, 58, 148}

	for count, offset := range want {
		due, ok, err := p.NextDueDate(day0, count)
		if err != nil || !ok {
			t.Fatalf("NextDueDate(%d): ok=%v err=%v", count, ok, err)
		}
		if got := due.DaysSince(day0); got != offset {
			t.Fatalf("NextDueDate(%d) = day %d, want day %d", count, got, offset)
		}
	}

	if _, ok, err := p.NextDueDate(day0, len(want)); ok || err != nil {
		t.Fatalf("expected no due date after table exhausted, ok=%v err=%v", ok, err)
	}
}

func TestRoundTripReproducesIntervals(t *testing.T) {
	p := interval.Default()
	prev := day0
	for count, gap := range p.Intervals() {
		due, ok, err := p.NextDueDate(day0, count)
		if err != nil || !ok {
			t.Fatalf("NextDueDate(%d): ok=%v err=%v", count, ok, err)
		}
		if got := due.DaysSince(prev); got != gap {
			t.Fatalf("gap after review %d = %d, want %d", count, got, gap)
		}
		prev = due
	}
}

func TestMasteryThreshold(t *testing.T) {
	if got := interval.Default().MasteryThreshold(); got != 7 {
		t.Fatalf("MasteryThreshold = %d, want 7", got)
	}
	p, err := interval.New([]int{1, 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.MasteryThreshold() != 3 {
		t.Fatalf("MasteryThreshold = %d, want 3", p.MasteryThreshold())
	}
}

func TestInvalidInputsFailFast(t *testing.T) {
	p := interval.Default()
	if _, _, err := p.NextDueDate(day0, -1); !errors.Is(err, catalog.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for negative count, got %v", err)
	}
	if _, _, err := p.NextDueDate(catalog.Date{}, 0); !errors.Is(err, catalog.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for zero date, got %v", err)
	}
	if _, err := p.Offset(6); !errors.Is(err, catalog.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for offset overflow, got %v", err)
	}

	for _, table := range [][]int{nil, {}, {2, 0}, {-3}} {
		if _, err := interval.New(table); err == nil {
			t.Fatalf("expected New(%v) to fail", table)
		}
	}
	if _, err := interval.New([]int{1}, interval.WithVideoReviewMinCount(0)); err == nil {
		t.Fatal("expected invalid video threshold to fail")
	}
}

func TestVideoRecommended(t *testing.T) {
	p := interval.Default()
	for count, want := range map[int]bool{0: false, 2: false, 3: true, 6: true} {
		if got := p.VideoRecommended(count); got != want {
			t.Fatalf("VideoRecommended(%d) = %v, want %v", count, got, want)
		}
	}
	custom, err := interval.New([]int{1, 2}, interval.WithVideoReviewMinCount(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !custom.VideoRecommended(1) {
		t.Fatal("expected custom threshold to apply")
	}
}
