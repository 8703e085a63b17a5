package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// CounterDrift reports a collection whose denormalized counters disagree with
// its member videos.
type CounterDrift struct {
	CollectionID    string `json:"collection_id" db:"id"`
	Name            string `json:"name" db:"name"`
	StoredTotal     int    `json:"stored_total" db:"total_videos"`
	ActualTotal     int    `json:"actual_total" db:"actual_total"`
	StoredCompleted int    `json:"stored_completed" db:"completed_videos"`
	ActualCompleted int    `json:"actual_completed" db:"actual_completed"`
}

// DatabaseHealth captures diagnostic information about the catalog database.
type DatabaseHealth struct {
	DBPath         string         `json:"db_path"`
	DatabaseExists bool           `json:"database_exists"`
	SchemaVersion  int            `json:"schema_version"`
	SchemaDirty    bool           `json:"schema_dirty"`
	IntegrityCheck bool           `json:"integrity_ok"`
	Collections    int            `json:"collections"`
	Videos         int            `json:"videos"`
	Playlists      int            `json:"playlists"`
	CounterDrift   []CounterDrift `json:"counter_drift,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Healthy reports whether the database passed every check.
func (h DatabaseHealth) Healthy() bool {
	return h.DatabaseExists && h.IntegrityCheck && !h.SchemaDirty && len(h.CounterDrift) == 0 && h.Error == ""
}

const driftQuery = `
	SELECT c.id, c.name, c.total_videos, c.completed_videos,
		(SELECT COUNT(1) FROM videos v WHERE v.collection_id = c.id) AS actual_total,
		(SELECT COUNT(1) FROM videos v WHERE v.collection_id = c.id AND v.status = 'completed') AS actual_completed
	FROM collections c
	ORDER BY c.seq`

// CheckHealth returns diagnostic information about the catalog database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	ctx = ensureContext(ctx)
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("catalog database path is unknown")
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat catalog database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("catalog database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	fail := func(step string, err error) (DatabaseHealth, error) {
		health.Error = err.Error()
		return health, fmt.Errorf("%s: %w", step, err)
	}

	row := s.db.QueryRowxContext(connCtx, `SELECT version, dirty FROM `+migrationsTable+` LIMIT 1`)
	if err := row.Scan(&health.SchemaVersion, &health.SchemaDirty); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fail("read schema version", err)
	}

	var integrity string
	if err := s.db.GetContext(connCtx, &integrity, `PRAGMA integrity_check`); err != nil {
		return fail("integrity check", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrity, "ok")

	counts := []struct {
		table string
		dest  *int
	}{
		{"collections", &health.Collections},
		{"videos", &health.Videos},
		{"playlists", &health.Playlists},
	}
	for _, c := range counts {
		if err := s.db.GetContext(connCtx, c.dest, `SELECT COUNT(1) FROM `+c.table); err != nil {
			return fail("count "+c.table, err)
		}
	}

	var drift []CounterDrift
	if err := s.db.SelectContext(connCtx, &drift, driftQuery); err != nil {
		return fail("check collection counters", err)
	}
	for _, d := range drift {
		if d.StoredTotal != d.ActualTotal || d.StoredCompleted != d.ActualCompleted {
			health.CounterDrift = append(health.CounterDrift, d)
		}
	}
	return health, nil
}

// RepairCounters recomputes every collection's total and completed counters
// from its member videos and returns how many collections changed.
func (s *Store) RepairCounters(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	var changed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE collections SET
				total_videos = (SELECT COUNT(1) FROM videos v WHERE v.collection_id = collections.id),
				completed_videos = (SELECT COUNT(1) FROM videos v WHERE v.collection_id = collections.id AND v.status = 'completed')
			WHERE total_videos != (SELECT COUNT(1) FROM videos v WHERE v.collection_id = collections.id)
				OR completed_videos != (SELECT COUNT(1) FROM videos v WHERE v.collection_id = collections.id AND v.status = 'completed')`)
		if err != nil {
			return err
		}
		changed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("repair collection counters: %w", err)
	}
	return int(changed), nil
}
