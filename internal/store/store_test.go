package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"reprise/internal/catalog"
	"reprise/internal/store"
	"reprise/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.IntegrityCheck {
		t.Fatalf("unexpected health: %+v", health)
	}
	if health.SchemaVersion != 1 || health.SchemaDirty {
		t.Fatalf("unexpected schema state: version=%d dirty=%v", health.SchemaVersion, health.SchemaDirty)
	}
	if !health.Healthy() {
		t.Fatalf("expected fresh database to be healthy: %+v", health)
	}

	// Reopening an up-to-date database must be a no-op.
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened.Close()
}

func TestSnapshotKeepsInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedCollection(t, st, "c1", "First")
	testsupport.SeedCollection(t, st, "c2", "Second")
	for _, id := range []string{"zeta", "alpha", "mid"} {
		testsupport.SeedVideo(t, st, catalog.Video{ID: id, CollectionID: "c1", Name: id})
	}
	testsupport.SeedVideo(t, st, catalog.Video{ID: "beta", CollectionID: "c2", Name: "beta"})

	// Updating an existing row must not move it.
	err := st.Update(context.Background(), func(tx catalog.Tx) error {
		v, err := tx.Video("zeta")
		if err != nil {
			return err
		}
		v.Name = "Zeta renamed"
		return tx.PutVideo(v)
	})
	if err != nil {
		t.Fatalf("update video: %v", err)
	}

	snap := testsupport.Snapshot(t, st)
	var order []string
	for _, v := range snap.Videos {
		order = append(order, v.ID)
	}
	want := []string{"zeta", "alpha", "mid", "beta"}
	if len(order) != len(want) {
		t.Fatalf("unexpected videos: %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("video order = %v, want %v", order, want)
		}
	}
	if v, _ := snap.Video("zeta"); v.Name != "Zeta renamed" {
		t.Fatalf("expected rename to persist, got %q", v.Name)
	}
	if c, _ := snap.Collection("c1"); c.TotalVideos != 3 {
		t.Fatalf("expected total 3, got %d", c.TotalVideos)
	}
	if snap.Collections[0].ID != "c1" || snap.Collections[1].ID != "c2" {
		t.Fatalf("unexpected collection order: %+v", snap.Collections)
	}
}

func TestVideoRoundTripKeepsScheduleFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCollection(t, st, "c1", "Lessons")

	first := time.Date(2025, time.March, 1, 20, 30, 0, 0, time.Local)
	due := catalog.Date{Year: 2025, Month: time.March, Day: 3}
	testsupport.SeedVideo(t, st, catalog.Video{
		ID:            "v1",
		CollectionID:  "c1",
		Name:          "Episode 1",
		Status:        catalog.StatusLearning,
		ReviewCount:   1,
		FirstPlayedAt: &first,
		NextReview:    &due,
	})

	var got catalog.Video
	err := st.View(context.Background(), func(tx catalog.Tx) error {
		var err error
		got, err = tx.Video("v1")
		return err
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if got.Status != catalog.StatusLearning || got.ReviewCount != 1 {
		t.Fatalf("unexpected video: %+v", got)
	}
	if got.FirstPlayedAt == nil || !got.FirstPlayedAt.Equal(first) {
		t.Fatalf("first play mismatch: %v", got.FirstPlayedAt)
	}
	if got.NextReview == nil || *got.NextReview != due {
		t.Fatalf("next review mismatch: %v", got.NextReview)
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCollection(t, st, "c1", "Lessons")

	boom := errors.New("boom")
	err := st.Update(context.Background(), func(tx catalog.Tx) error {
		if err := tx.PutVideo(catalog.Video{ID: "v1", CollectionID: "c1", Name: "one"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if snap := testsupport.Snapshot(t, st); len(snap.Videos) != 0 {
		t.Fatalf("expected rollback, found %d videos", len(snap.Videos))
	}
}

func TestMissingRowsReportNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	err := st.View(context.Background(), func(tx catalog.Tx) error {
		if _, err := tx.Video("nope"); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("Video: expected ErrNotFound, got %v", err)
		}
		if _, err := tx.Collection("nope"); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("Collection: expected ErrNotFound, got %v", err)
		}
		if _, err := tx.Playlist("nope"); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("Playlist: expected ErrNotFound, got %v", err)
		}
		if _, err := tx.Position("nope", "nope"); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("Position: expected ErrNotFound, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	err = st.Update(context.Background(), func(tx catalog.Tx) error {
		return tx.IncrementCollectionCompleted("nope", 1)
	})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("IncrementCollectionCompleted: expected ErrNotFound, got %v", err)
	}
}

func TestPlaylistPersistence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCollection(t, st, "c1", "Lessons")
	testsupport.SeedVideo(t, st, catalog.Video{ID: "v1", CollectionID: "c1", Name: "one"})
	testsupport.SeedVideo(t, st, catalog.Video{ID: "v2", CollectionID: "c1", Name: "two"})

	ctx := context.Background()
	day := catalog.Date{Year: 2025, Month: time.April, Day: 2}
	audio := catalog.Playlist{
		ID:   "p-audio",
		Date: day,
		Kind: catalog.KindAudio,
		Items: []catalog.PlaylistItem{
			catalog.ReviewItem("v2", catalog.KindAudio, 3, catalog.ReviewDetail{DaysSinceFirstPlay: 6}),
			catalog.ReviewItem("v1", catalog.KindAudio, 4, catalog.ReviewDetail{DaysSinceFirstPlay: 13, RecommendedForVideo: true}),
		},
		CreatedAt: time.Now(),
	}
	newer := catalog.Playlist{
		ID:        "p-new",
		Date:      day,
		Kind:      catalog.KindNew,
		Items:     []catalog.PlaylistItem{catalog.NewItem("v1")},
		CreatedAt: time.Now(),
	}
	err := st.Update(ctx, func(tx catalog.Tx) error {
		if err := tx.InsertPlaylist(audio); err != nil {
			return err
		}
		return tx.InsertPlaylist(newer)
	})
	if err != nil {
		t.Fatalf("insert playlists: %v", err)
	}

	var all, audioOnly []catalog.Playlist
	var fetched catalog.Playlist
	err = st.View(ctx, func(tx catalog.Tx) error {
		var err error
		if all, err = tx.Playlists(catalog.PlaylistFilter{}); err != nil {
			return err
		}
		if audioOnly, err = tx.Playlists(catalog.PlaylistFilter{Kind: catalog.KindAudio, Limit: 1}); err != nil {
			return err
		}
		fetched, err = tx.Playlist("p-audio")
		return err
	})
	if err != nil {
		t.Fatalf("read playlists: %v", err)
	}
	if len(all) != 2 || all[0].ID != "p-new" || all[1].ID != "p-audio" {
		t.Fatalf("expected most recent first, got %+v", all)
	}
	if len(audioOnly) != 1 || audioOnly[0].ID != "p-audio" {
		t.Fatalf("unexpected filtered list: %+v", audioOnly)
	}
	if fetched.Date != day || len(fetched.Items) != 2 {
		t.Fatalf("unexpected playlist: %+v", fetched)
	}
	second := fetched.Items[1]
	if second.VideoID != "v1" || second.ReviewNumber != 4 || second.Review == nil || !second.Review.RecommendedForVideo || second.Review.DaysSinceFirstPlay != 13 {
		t.Fatalf("unexpected item: %+v", second)
	}
	if all[0].Items[0].Review != nil {
		t.Fatalf("new items must not carry review detail: %+v", all[0].Items[0])
	}

	completedAt := time.Now()
	fetched.Items = fetched.Items[:1]
	fetched.LastPlayedIndex = 1
	fetched.Completed = true
	fetched.CompletedAt = &completedAt
	if err := st.Update(ctx, func(tx catalog.Tx) error { return tx.PutPlaylist(fetched) }); err != nil {
		t.Fatalf("PutPlaylist: %v", err)
	}
	err = st.View(ctx, func(tx catalog.Tx) error {
		var err error
		fetched, err = tx.Playlist("p-audio")
		return err
	})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !fetched.Completed || fetched.CompletedAt == nil || len(fetched.Items) != 1 || fetched.LastPlayedIndex != 1 {
		t.Fatalf("update not persisted: %+v", fetched)
	}
}

func TestInsertPlaylistRejectsDanglingReferences(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCollection(t, st, "c1", "Lessons")
	testsupport.SeedVideo(t, st, catalog.Video{ID: "v1", CollectionID: "c1", Name: "one"})

	err := st.Update(context.Background(), func(tx catalog.Tx) error {
		return tx.InsertPlaylist(catalog.Playlist{
			ID:        "p1",
			Date:      catalog.Date{Year: 2025, Month: time.May, Day: 1},
			Kind:      catalog.KindNew,
			Items:     []catalog.PlaylistItem{catalog.NewItem("v1"), catalog.NewItem("ghost")},
			CreatedAt: time.Now(),
		})
	})
	if !errors.Is(err, catalog.ErrDanglingReference) {
		t.Fatalf("expected ErrDanglingReference, got %v", err)
	}
}

func TestDeleteCollectionCascadesVideosButKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCollection(t, st, "c1", "Lessons")
	testsupport.SeedVideo(t, st, catalog.Video{ID: "v1", CollectionID: "c1", Name: "one"})

	ctx := context.Background()
	err := st.Update(ctx, func(tx catalog.Tx) error {
		if err := tx.InsertPlaylist(catalog.Playlist{
			ID:        "p1",
			Date:      catalog.Date{Year: 2025, Month: time.May, Day: 1},
			Kind:      catalog.KindNew,
			Items:     []catalog.PlaylistItem{catalog.NewItem("v1")},
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		return tx.DeleteCollection("c1")
	})
	if err != nil {
		t.Fatalf("delete collection: %v", err)
	}

	snap := testsupport.Snapshot(t, st)
	if len(snap.Videos) != 0 || len(snap.Collections) != 0 {
		t.Fatalf("expected cascade, got %+v", snap)
	}
	err = st.View(ctx, func(tx catalog.Tx) error {
		p, err := tx.Playlist("p1")
		if err != nil {
			return err
		}
		if len(p.Items) != 1 {
			t.Errorf("expected history items to survive, got %+v", p.Items)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestPlaybackPositionUpsert(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCollection(t, st, "c1", "Lessons")
	testsupport.SeedVideo(t, st, catalog.Video{ID: "v1", CollectionID: "c1", Name: "one"})

	ctx := context.Background()
	err := st.Update(ctx, func(tx catalog.Tx) error {
		if err := tx.InsertPlaylist(catalog.Playlist{
			ID:        "p1",
			Date:      catalog.Date{Year: 2025, Month: time.May, Day: 1},
			Kind:      catalog.KindNew,
			Items:     []catalog.PlaylistItem{catalog.NewItem("v1")},
			CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		if err := tx.SavePosition(catalog.PlaybackPosition{PlaylistID: "p1", VideoID: "v1", Seconds: 12.5, Duration: 600, UpdatedAt: time.Now()}); err != nil {
			return err
		}
		return tx.SavePosition(catalog.PlaybackPosition{PlaylistID: "p1", VideoID: "v1", Seconds: 42, Duration: 600, Finished: true, UpdatedAt: time.Now()})
	})
	if err != nil {
		t.Fatalf("save positions: %v", err)
	}

	var pos catalog.PlaybackPosition
	err = st.View(ctx, func(tx catalog.Tx) error {
		var err error
		pos, err = tx.Position("p1", "v1")
		return err
	})
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos.Seconds != 42 || !pos.Finished || pos.Duration != 600 {
		t.Fatalf("unexpected position: %+v", pos)
	}
}

func TestCounterDriftAndRepair(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedCollection(t, st, "c1", "Lessons")
	testsupport.SeedVideo(t, st, catalog.Video{ID: "v1", CollectionID: "c1", Name: "one", Status: catalog.StatusCompleted})
	testsupport.SeedVideo(t, st, catalog.Video{ID: "v2", CollectionID: "c1", Name: "two"})

	ctx := context.Background()
	err := st.Update(ctx, func(tx catalog.Tx) error {
		c, err := tx.Collection("c1")
		if err != nil {
			return err
		}
		c.TotalVideos = 9
		c.CompletedVideos = 0
		return tx.PutCollection(c)
	})
	if err != nil {
		t.Fatalf("corrupt counters: %v", err)
	}

	health, err := st.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if len(health.CounterDrift) != 1 || health.Healthy() {
		t.Fatalf("expected drift to be reported: %+v", health)
	}
	drift := health.CounterDrift[0]
	if drift.StoredTotal != 9 || drift.ActualTotal != 2 || drift.ActualCompleted != 1 {
		t.Fatalf("unexpected drift: %+v", drift)
	}

	changed, err := st.RepairCounters(ctx)
	if err != nil {
		t.Fatalf("RepairCounters: %v", err)
	}
	if changed != 1 {
		t.Fatalf("expected 1 repaired collection, got %d", changed)
	}
	snap := testsupport.Snapshot(t, st)
	if c, _ := snap.Collection("c1"); c.TotalVideos != 2 || c.CompletedVideos != 1 {
		t.Fatalf("unexpected counters after repair: %+v", c)
	}
}
