package catalog_test

import (
	"errors"
	"testing"
	"time"

	"reprise/internal/catalog"
	"reprise/internal/services"
)

func TestPercentRounds(t *testing.T) {
	tests := []struct{ part, total, want int }{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := catalog.Percent(tt.part, tt.total); got != tt.want {
			t.Fatalf("Percent(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
	}
}

func TestPlaylistState(t *testing.T) {
	p := catalog.Playlist{Items: []catalog.PlaylistItem{catalog.NewItem("a"), catalog.NewItem("b")}}
	if p.State() != catalog.StateCreated || !p.Resumable() {
		t.Fatalf("fresh playlist: state=%s resumable=%v", p.State(), p.Resumable())
	}
	p.LastPlayedIndex = 1
	if p.State() != catalog.StateInProgress {
		t.Fatalf("expected in progress, got %s", p.State())
	}
	p.LastPlayedIndex = 2
	if p.Resumable() {
		t.Fatal("cursor at end should not be resumable")
	}
	p.Completed = true
	p.LastPlayedIndex = 0
	if p.State() != catalog.StateCompleted || p.Resumable() {
		t.Fatalf("completed playlist: state=%s resumable=%v", p.State(), p.Resumable())
	}
}

func TestItemVariants(t *testing.T) {
	item := catalog.NewItem("v1")
	if item.Review != nil || item.ReviewNumber != 1 || item.Kind.IsReview() {
		t.Fatalf("unexpected new item %+v", item)
	}
	review := catalog.ReviewItem("v2", catalog.KindAudio, 3, catalog.ReviewDetail{DaysSinceFirstPlay: 6})
	if review.Review == nil || review.Review.DaysSinceFirstPlay != 6 || !review.Kind.IsReview() {
		t.Fatalf("unexpected review item %+v", review)
	}
}

func TestParseKind(t *testing.T) {
	for _, value := range []string{"new", " Audio ", "VIDEO"} {
		if _, err := catalog.ParseKind(value); err != nil {
			t.Fatalf("ParseKind(%q): %v", value, err)
		}
	}
	_, err := catalog.ParseKind("podcast")
	if !errors.Is(err, catalog.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if services.Kind(err) != services.KindValidation {
		t.Fatalf("expected validation kind, got %s", services.Kind(err))
	}
}

func TestFirstPlayDate(t *testing.T) {
	var v catalog.Video
	if _, ok := v.FirstPlayDate(); ok {
		t.Fatal("expected no first play date")
	}
	played := time.Date(2026, time.June, 1, 21, 0, 0, 0, time.Local)
	v.FirstPlayedAt = &played
	d, ok := v.FirstPlayDate()
	if !ok || d.String() != "2026-06-01" {
		t.Fatalf("unexpected first play date %v %v", d, ok)
	}
}
