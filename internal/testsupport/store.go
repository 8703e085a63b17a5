package testsupport

import (
	"context"
	"testing"
	"time"

	"reprise/internal/catalog"
	"reprise/internal/config"
	"reprise/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedCollection inserts an active collection with zeroed counters.
func SeedCollection(t testing.TB, repo catalog.Repository, id, name string) catalog.Collection {
	t.Helper()

	c := catalog.Collection{ID: id, Name: name, Active: true, CreatedAt: time.Now()}
	if err := repo.Update(context.Background(), func(tx catalog.Tx) error {
		return tx.PutCollection(c)
	}); err != nil {
		t.Fatalf("seed collection %s: %v", id, err)
	}
	return c
}

// SeedVideo inserts v and bumps its collection's counters to match.
func SeedVideo(t testing.TB, repo catalog.Repository, v catalog.Video) catalog.Video {
	t.Helper()

	if v.Status == "" {
		v.Status = catalog.StatusNew
	}
	if v.AddedAt.IsZero() {
		v.AddedAt = time.Now()
	}
	err := repo.Update(context.Background(), func(tx catalog.Tx) error {
		c, err := tx.Collection(v.CollectionID)
		if err != nil {
			return err
		}
		if err := tx.PutVideo(v); err != nil {
			return err
		}
		c.TotalVideos++
		if v.Status == catalog.StatusCompleted {
			c.CompletedVideos++
		}
		return tx.PutCollection(c)
	})
	if err != nil {
		t.Fatalf("seed video %s: %v", v.ID, err)
	}
	return v
}

// Snapshot loads the current catalog or fails the test.
func Snapshot(t testing.TB, repo catalog.Repository) *catalog.Snapshot {
	t.Helper()

	snap, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}
