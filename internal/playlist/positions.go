package playlist

import (
	"context"
	"fmt"

	"reprise/internal/catalog"
)

// SavePosition records how far playback got inside one video of a playlist.
// The video must be part of the playlist.
func (m *Manager) SavePosition(ctx context.Context, pos catalog.PlaybackPosition) (catalog.PlaybackPosition, error) {
	if pos.Seconds < 0 || pos.Duration < 0 {
		return catalog.PlaybackPosition{}, fmt.Errorf("%w: negative playback position", catalog.ErrInvalidIndex)
	}
	if pos.Duration > 0 && pos.Seconds > pos.Duration {
		pos.Seconds = pos.Duration
	}
	pos.UpdatedAt = m.clock()

	err := m.repo.Update(ctx, func(tx catalog.Tx) error {
		p, err := tx.Playlist(pos.PlaylistID)
		if err != nil {
			return err
		}
		if !containsVideo(p, pos.VideoID) {
			return fmt.Errorf("video %q in playlist %q: %w", pos.VideoID, pos.PlaylistID, catalog.ErrNotFound)
		}
		return tx.SavePosition(pos)
	})
	if err != nil {
		return catalog.PlaybackPosition{}, err
	}
	return pos, nil
}

// Position returns the stored resume point, or catalog.ErrNotFound.
func (m *Manager) Position(ctx context.Context, playlistID, videoID string) (catalog.PlaybackPosition, error) {
	var pos catalog.PlaybackPosition
	err := m.repo.View(ctx, func(tx catalog.Tx) error {
		var err error
		pos, err = tx.Position(playlistID, videoID)
		return err
	})
	return pos, err
}

func containsVideo(p catalog.Playlist, videoID string) bool {
	for _, item := range p.Items {
		if item.VideoID == videoID {
			return true
		}
	}
	return false
}
