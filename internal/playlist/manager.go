package playlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"reprise/internal/catalog"
	"reprise/internal/logging"
	"reprise/internal/schedule"
)

// Manager owns the playlist lifecycle.
type Manager struct {
	repo   catalog.Repository
	engine *schedule.Engine
	clock  func() time.Time
	newID  func() string
	logger *slog.Logger

	mu sync.Mutex
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces time.Now as the source of "now".
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithIDGenerator replaces random UUIDs for new playlists.
func WithIDGenerator(gen func() string) Option {
	return func(m *Manager) {
		if gen != nil {
			m.newID = gen
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager constructs a Manager over repo.
func NewManager(repo catalog.Repository, engine *schedule.Engine, opts ...Option) *Manager {
	m := &Manager{
		repo:   repo,
		engine: engine,
		clock:  time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = logging.NewComponentLogger(m.logger, "playlist")
	return m
}

// Engine returns the scheduling engine backing the manager.
func (m *Manager) Engine() *schedule.Engine {
	return m.engine
}

// Today returns the manager's current calendar day.
func (m *Manager) Today() catalog.Date {
	return catalog.Today(m.clock())
}

// Preview computes today's candidate lists from a fresh snapshot.
func (m *Manager) Preview(ctx context.Context, extra bool) (schedule.Preview, error) {
	snap, err := m.repo.Snapshot(ctx)
	if err != nil {
		return schedule.Preview{}, fmt.Errorf("load catalog: %w", err)
	}
	return m.engine.Preview(snap, m.Today(), extra), nil
}

// Create materializes a playlist of kind from candidates recomputed inside the
// write transaction. It returns catalog.ErrEmptyPlaylist when nothing is due.
func (m *Manager) Create(ctx context.Context, kind catalog.Kind, extra bool) (catalog.Playlist, error) {
	if _, err := catalog.ParseKind(string(kind)); err != nil {
		return catalog.Playlist{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	today := catalog.Today(now)
	var created catalog.Playlist
	err := m.repo.Update(ctx, func(tx catalog.Tx) error {
		snap, err := tx.Snapshot()
		if err != nil {
			return err
		}
		items, err := m.engine.Candidates(snap, today, kind, extra)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%s playlist for %s: %w", kind, today, catalog.ErrEmptyPlaylist)
		}
		created = catalog.Playlist{
			ID:             m.newID(),
			Date:           today,
			Kind:           kind,
			Items:          items,
			IsExtraSession: extra,
			CreatedAt:      now,
		}
		return tx.InsertPlaylist(created)
	})
	if err != nil {
		return catalog.Playlist{}, err
	}

	m.logger.Info("playlist created",
		logging.String(logging.FieldPlaylistID, created.ID),
		logging.String("kind", string(kind)),
		logging.Int("items", len(created.Items)),
		logging.Bool("extra", extra),
	)
	return created, nil
}

// Get loads one playlist.
func (m *Manager) Get(ctx context.Context, id string) (catalog.Playlist, error) {
	var p catalog.Playlist
	err := m.repo.View(ctx, func(tx catalog.Tx) error {
		var err error
		p, err = tx.Playlist(id)
		return err
	})
	return p, err
}

// History lists playlists most recent first. A limit <= 0 returns all.
func (m *Manager) History(ctx context.Context, limit int) ([]catalog.Playlist, error) {
	var out []catalog.Playlist
	err := m.repo.View(ctx, func(tx catalog.Tx) error {
		var err error
		out, err = tx.Playlists(catalog.PlaylistFilter{Limit: limit})
		return err
	})
	return out, err
}

// Advance moves the playback cursor. Any index in 0..len(items) is accepted,
// including one lower than the current cursor; completion is never reverted.
func (m *Manager) Advance(ctx context.Context, id string, index int) (catalog.Playlist, error) {
	var p catalog.Playlist
	err := m.repo.Update(ctx, func(tx catalog.Tx) error {
		var err error
		p, err = tx.Playlist(id)
		if err != nil {
			return err
		}
		if index < 0 || index > len(p.Items) {
			return fmt.Errorf("index %d for playlist of %d items: %w", index, len(p.Items), catalog.ErrInvalidIndex)
		}
		p.LastPlayedIndex = index
		return tx.PutPlaylist(p)
	})
	if err != nil {
		return catalog.Playlist{}, err
	}
	return p, nil
}

// ResumeIncomplete returns the most recent unfinished playlist of kind with
// items whose videos were deleted pruned away. It returns nil when there is
// nothing to resume, in which case callers create a fresh playlist.
func (m *Manager) ResumeIncomplete(ctx context.Context, kind catalog.Kind) (*catalog.Playlist, error) {
	if _, err := catalog.ParseKind(string(kind)); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		resumed *catalog.Playlist
		pruned  []string
	)
	err := m.repo.Update(ctx, func(tx catalog.Tx) error {
		resumed, pruned = nil, nil
		history, err := tx.Playlists(catalog.PlaylistFilter{Kind: kind})
		if err != nil {
			return err
		}
		var target *catalog.Playlist
		for i := range history {
			if history[i].Resumable() {
				target = &history[i]
				break
			}
		}
		if target == nil {
			return nil
		}

		kept := make([]catalog.PlaylistItem, 0, len(target.Items))
		cursor := 0
		for i, item := range target.Items {
			if _, err := tx.Video(item.VideoID); err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					pruned = append(pruned, item.VideoID)
					continue
				}
				return err
			}
			if i < target.LastPlayedIndex {
				cursor++
			}
			kept = append(kept, item)
		}
		if len(pruned) > 0 {
			target.Items = kept
			target.LastPlayedIndex = cursor
			if err := tx.PutPlaylist(*target); err != nil {
				return err
			}
		}
		if len(kept) == 0 || !target.Resumable() {
			return nil
		}
		resumed = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, videoID := range pruned {
		logging.WarnWithContext(m.logger, "pruned deleted video from resumed playlist", "dangling_reference",
			logging.String(logging.FieldVideoID, videoID),
			logging.String(logging.FieldImpact, "item removed from the session"),
			logging.String(logging.FieldErrorHint, "video was deleted after the playlist was created"),
		)
	}
	if resumed != nil {
		m.logger.Info("playlist resumed",
			logging.String(logging.FieldPlaylistID, resumed.ID),
			logging.Int("cursor", resumed.LastPlayedIndex),
			logging.Int("items", len(resumed.Items)),
		)
	}
	return resumed, nil
}
