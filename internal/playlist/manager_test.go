package playlist_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"reprise/internal/catalog"
	"reprise/internal/playlist"
	"reprise/internal/schedule"
	"reprise/internal/store"
	"reprise/internal/testsupport"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advanceDays(n int) { c.now = c.now.AddDate(0, 0, n) }

type fixture struct {
	store   *store.Store
	manager *playlist.Manager
	clock   *fakeClock
}

func newFixture(t *testing.T, videos int) *fixture {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	engine, err := schedule.NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	clock := &fakeClock{now: time.Date(2025, time.March, 10, 10, 0, 0, 0, time.Local)}
	seq := 0
	manager := playlist.NewManager(st, engine,
		playlist.WithClock(clock.Now),
		playlist.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("pl-%d", seq)
		}),
	)

	testsupport.SeedCollection(t, st, "c1", "Lessons")
	for i := 1; i <= videos; i++ {
		testsupport.SeedVideo(t, st, catalog.Video{ID: fmt.Sprintf("v%d", i), CollectionID: "c1", Name: fmt.Sprintf("Episode %d", i), EpisodeNumber: i})
	}
	return &fixture{store: st, manager: manager, clock: clock}
}

func (f *fixture) video(t *testing.T, id string) catalog.Video {
	t.Helper()
	v, ok := testsupport.Snapshot(t, f.store).Video(id)
	if !ok {
		t.Fatalf("video %s not found", id)
	}
	return v
}

func (f *fixture) deleteVideo(t *testing.T, id string) {
	t.Helper()
	err := f.store.Update(context.Background(), func(tx catalog.Tx) error {
		v, err := tx.Video(id)
		if err != nil {
			return err
		}
		c, err := tx.Collection(v.CollectionID)
		if err != nil {
			return err
		}
		if err := tx.DeleteVideo(id); err != nil {
			return err
		}
		c.TotalVideos--
		return tx.PutCollection(c)
	})
	if err != nil {
		t.Fatalf("delete video %s: %v", id, err)
	}
}

func TestMasterySequenceFollowsCumulativeIntervals(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	start := f.manager.Today()

	p, err := f.manager.Create(ctx, catalog.KindNew, false)
	if err != nil {
		t.Fatalf("Create new: %v", err)
	}
	if _, err := f.manager.Complete(ctx, p.ID); err != nil {
		t.Fatalf("Complete new: %v", err)
	}
	v := f.video(t, "v1")
	if v.Status != catalog.StatusLearning || v.ReviewCount != 1 || v.NextReview == nil || *v.NextReview != start.AddDays(2) {
		t.Fatalf("unexpected state after first play: %+v next=%v", v, v.NextReview)
	}

	offsets := []int{2, 6, 13, 28, 58, 148}
	for i, offset := range offsets {
		f.clock.now = time.Date(start.Year, start.Month, start.Day, 19, 0, 0, 0, time.Local).AddDate(0, 0, offset)
		kind := catalog.KindAudio
		if v.ReviewCount >= 3 {
			kind = catalog.KindVideo
		}
		p, err := f.manager.Create(ctx, kind, false)
		if err != nil {
			t.Fatalf("review %d (%s) on day %d: %v", i+1, kind, offset, err)
		}
		if len(p.Items) != 1 || p.Items[0].ReviewNumber != i+2 {
			t.Fatalf("review %d: unexpected items %+v", i+1, p.Items)
		}
		res, err := f.manager.Complete(ctx, p.ID)
		if err != nil {
			t.Fatalf("complete review %d: %v", i+1, err)
		}
		v = f.video(t, "v1")
		if v.ReviewCount != i+2 {
			t.Fatalf("review %d: count = %d", i+1, v.ReviewCount)
		}
		if i < len(offsets)-1 {
			want := start.AddDays(offsets[i+1])
			if v.NextReview == nil || *v.NextReview != want {
				t.Fatalf("review %d: next review = %v, want %v", i+1, v.NextReview, want)
			}
			continue
		}
		if v.Status != catalog.StatusCompleted || v.NextReview != nil || res.Mastered() != 1 {
			t.Fatalf("expected mastery after final review: %+v (result %+v)", v, res)
		}
	}

	c, _ := testsupport.Snapshot(t, f.store).Collection("c1")
	if c.CompletedVideos != 1 {
		t.Fatalf("completed counter = %d, want 1", c.CompletedVideos)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	p, err := f.manager.Create(ctx, catalog.KindNew, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	first, err := f.manager.Complete(ctx, p.ID)
	if err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	if first.AlreadyCompleted || len(first.Exposures) != 2 {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if first.Playlist.LastPlayedIndex != 2 || first.Playlist.State() != catalog.StateCompleted {
		t.Fatalf("playlist not marked complete: %+v", first.Playlist)
	}

	second, err := f.manager.Complete(ctx, p.ID)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if !second.AlreadyCompleted || len(second.Exposures) != 0 {
		t.Fatalf("expected no-op second completion: %+v", second)
	}
	if v := f.video(t, "v1"); v.ReviewCount != 1 {
		t.Fatalf("review count double-applied: %d", v.ReviewCount)
	}
}

func TestCompleteSkipsDeletedVideo(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	p, err := f.manager.Create(ctx, catalog.KindNew, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.deleteVideo(t, "v1")

	res, err := f.manager.Complete(ctx, p.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].VideoID != "v1" || res.Skipped[0].Reason != playlist.SkipMissingVideo {
		t.Fatalf("unexpected skips: %+v", res.Skipped)
	}
	if len(res.Exposures) != 1 || res.Exposures[0].VideoID != "v2" {
		t.Fatalf("unexpected exposures: %+v", res.Exposures)
	}
	if v := f.video(t, "v2"); v.Status != catalog.StatusLearning {
		t.Fatalf("v2 should have advanced: %+v", v)
	}
	if !res.Playlist.Completed {
		t.Fatal("expected playlist to be completed")
	}
}

func TestCompleteSkipsItemsAdvancedByOtherModality(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	// Bring v1 to three exposures so it is due for both audio and video.
	err := f.store.Update(ctx, func(tx catalog.Tx) error {
		v, err := tx.Video("v1")
		if err != nil {
			return err
		}
		first := f.clock.now.AddDate(0, 0, -13)
		due := f.manager.Today()
		v.Status = catalog.StatusLearning
		v.ReviewCount = 3
		v.FirstPlayedAt = &first
		v.NextReview = &due
		return tx.PutVideo(v)
	})
	if err != nil {
		t.Fatalf("prepare video: %v", err)
	}

	audio, err := f.manager.Create(ctx, catalog.KindAudio, false)
	if err != nil {
		t.Fatalf("Create audio: %v", err)
	}
	video, err := f.manager.Create(ctx, catalog.KindVideo, false)
	if err != nil {
		t.Fatalf("Create video: %v", err)
	}
	if _, err := f.manager.Complete(ctx, audio.ID); err != nil {
		t.Fatalf("Complete audio: %v", err)
	}
	res, err := f.manager.Complete(ctx, video.ID)
	if err != nil {
		t.Fatalf("Complete video: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != playlist.SkipStale {
		t.Fatalf("expected stale skip, got %+v", res)
	}
	if v := f.video(t, "v1"); v.ReviewCount != 4 {
		t.Fatalf("review count = %d, want 4", v.ReviewCount)
	}
}

func TestCreateReportsEmptyAndHonoursQuota(t *testing.T) {
	f := newFixture(t, 7)
	ctx := context.Background()

	if _, err := f.manager.Create(ctx, catalog.KindAudio, false); !errors.Is(err, catalog.ErrEmptyPlaylist) {
		t.Fatalf("expected ErrEmptyPlaylist for audio, got %v", err)
	}

	p, err := f.manager.Create(ctx, catalog.KindNew, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(p.Items) != 4 || p.Items[0].VideoID != "v1" || p.Items[3].VideoID != "v4" {
		t.Fatalf("unexpected new playlist: %+v", p.Items)
	}
	if p.State() != catalog.StateCreated || p.Date != f.manager.Today() {
		t.Fatalf("unexpected playlist state: %+v", p)
	}
	if _, err := f.manager.Complete(ctx, p.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if _, err := f.manager.Create(ctx, catalog.KindNew, false); !errors.Is(err, catalog.ErrEmptyPlaylist) {
		t.Fatalf("expected quota to be exhausted, got %v", err)
	}
	extra, err := f.manager.Create(ctx, catalog.KindNew, true)
	if err != nil {
		t.Fatalf("Create extra: %v", err)
	}
	if !extra.IsExtraSession || len(extra.Items) != 3 || extra.Items[0].VideoID != "v5" {
		t.Fatalf("unexpected extra playlist: %+v", extra)
	}

	history, err := f.manager.History(ctx, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 || history[0].ID != extra.ID {
		t.Fatalf("expected most recent first, got %+v", history)
	}
}

func TestAdvanceValidatesIndex(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	p, err := f.manager.Create(ctx, catalog.KindNew, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, bad := range []int{-1, 4} {
		if _, err := f.manager.Advance(ctx, p.ID, bad); !errors.Is(err, catalog.ErrInvalidIndex) {
			t.Fatalf("Advance(%d): expected ErrInvalidIndex, got %v", bad, err)
		}
	}
	got, err := f.manager.Advance(ctx, p.ID, 2)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got.State() != catalog.StateInProgress {
		t.Fatalf("expected in progress, got %s", got.State())
	}
	if got, err = f.manager.Advance(ctx, p.ID, 1); err != nil || got.LastPlayedIndex != 1 {
		t.Fatalf("moving back should be allowed: %+v %v", got, err)
	}

	if _, err := f.manager.Complete(ctx, p.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	got, err = f.manager.Advance(ctx, p.ID, 0)
	if err != nil {
		t.Fatalf("Advance after completion: %v", err)
	}
	if !got.Completed {
		t.Fatal("moving the cursor must not revert completion")
	}
	if _, err := f.manager.Advance(ctx, "missing", 0); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResumeIncompletePrunesDeletedVideos(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	if got, err := f.manager.ResumeIncomplete(ctx, catalog.KindNew); err != nil || got != nil {
		t.Fatalf("expected nothing to resume, got %+v %v", got, err)
	}

	p, err := f.manager.Create(ctx, catalog.KindNew, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.manager.Advance(ctx, p.ID, 2); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	f.deleteVideo(t, "v1")

	resumed, err := f.manager.ResumeIncomplete(ctx, catalog.KindNew)
	if err != nil {
		t.Fatalf("ResumeIncomplete: %v", err)
	}
	if resumed == nil || resumed.ID != p.ID {
		t.Fatalf("expected to resume %s, got %+v", p.ID, resumed)
	}
	if len(resumed.Items) != 2 || resumed.Items[0].VideoID != "v2" || resumed.LastPlayedIndex != 1 {
		t.Fatalf("unexpected pruned playlist: %+v", resumed)
	}

	stored, err := f.manager.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Items) != 2 || stored.LastPlayedIndex != 1 {
		t.Fatalf("pruning not persisted: %+v", stored)
	}

	if _, err := f.manager.ResumeIncomplete(ctx, catalog.KindAudio); err != nil {
		t.Fatalf("ResumeIncomplete(audio): %v", err)
	}
}

func TestResumeIncompleteReturnsNilWhenAllVideosDeleted(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	p, err := f.manager.Create(ctx, catalog.KindNew, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.deleteVideo(t, "v1")
	f.deleteVideo(t, "v2")

	resumed, err := f.manager.ResumeIncomplete(ctx, catalog.KindNew)
	if err != nil {
		t.Fatalf("ResumeIncomplete: %v", err)
	}
	if resumed != nil {
		t.Fatalf("expected nil for an empty shell, got %+v", resumed)
	}
	stored, err := f.manager.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Items) != 0 || stored.Completed {
		t.Fatalf("unexpected stored playlist: %+v", stored)
	}
}

func TestPlaybackPositions(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	p, err := f.manager.Create(ctx, catalog.KindNew, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	saved, err := f.manager.SavePosition(ctx, catalog.PlaybackPosition{PlaylistID: p.ID, VideoID: "v1", Seconds: 700, Duration: 600})
	if err != nil {
		t.Fatalf("SavePosition: %v", err)
	}
	if saved.Seconds != 600 || !saved.UpdatedAt.Equal(f.clock.now) {
		t.Fatalf("unexpected saved position: %+v", saved)
	}
	got, err := f.manager.Position(ctx, p.ID, "v1")
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if got.Seconds != 600 || got.Duration != 600 {
		t.Fatalf("unexpected position: %+v", got)
	}
	if _, err := f.manager.SavePosition(ctx, catalog.PlaybackPosition{PlaylistID: p.ID, VideoID: "other", Seconds: 1}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign video, got %v", err)
	}
}
