package playlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reprise/internal/catalog"
	"reprise/internal/interval"
	"reprise/internal/logging"
)

// SkipReason explains why an item produced no exposure.
type SkipReason string

const (
	SkipMissingVideo SkipReason = "video_missing"
	SkipStale        SkipReason = "stale_review"
	SkipMastered     SkipReason = "already_completed"
)

// SkippedItem is an item that completion left untouched.
type SkippedItem struct {
	VideoID string     `json:"video_id"`
	Reason  SkipReason `json:"reason"`
}

// Exposure describes the catalog change recorded for one item.
type Exposure struct {
	VideoID     string        `json:"video_id"`
	ReviewCount int           `json:"review_count"`
	NextReview  *catalog.Date `json:"next_review,omitempty"`
	Mastered    bool          `json:"mastered"`
}

// CompletionResult summarizes a Complete call.
type CompletionResult struct {
	Playlist         catalog.Playlist `json:"playlist"`
	AlreadyCompleted bool             `json:"already_completed"`
	Exposures        []Exposure       `json:"exposures"`
	Skipped          []SkippedItem    `json:"skipped,omitempty"`
}

// Mastered counts the videos that reached completion in this call.
func (r CompletionResult) Mastered() int {
	n := 0
	for _, e := range r.Exposures {
		if e.Mastered {
			n++
		}
	}
	return n
}

// Complete marks the playlist finished and records one exposure per item in
// the same transaction. Completing an already completed playlist changes
// nothing. Items whose video is gone or has already moved past the item's
// review number are skipped and logged.
func (m *Manager) Complete(ctx context.Context, id string) (CompletionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	policy := m.engine.Policy()
	var result CompletionResult
	err := m.repo.Update(ctx, func(tx catalog.Tx) error {
		result = CompletionResult{}
		p, err := tx.Playlist(id)
		if err != nil {
			return err
		}
		if p.Completed || p.CompletedAt != nil {
			result.Playlist = p
			result.AlreadyCompleted = true
			return nil
		}

		for _, item := range p.Items {
			exposure, skip, err := recordExposure(tx, policy, item, now)
			if err != nil {
				return fmt.Errorf("record exposure for video %q: %w", item.VideoID, err)
			}
			if skip != "" {
				result.Skipped = append(result.Skipped, SkippedItem{VideoID: item.VideoID, Reason: skip})
				continue
			}
			result.Exposures = append(result.Exposures, exposure)
		}

		completedAt := now
		p.Completed = true
		p.CompletedAt = &completedAt
		p.LastPlayedIndex = len(p.Items)
		if err := tx.PutPlaylist(p); err != nil {
			return err
		}
		result.Playlist = p
		return nil
	})
	if err != nil {
		return CompletionResult{}, err
	}

	logger := m.logger.With(logging.String(logging.FieldPlaylistID, id))
	if result.AlreadyCompleted {
		logger.Debug("playlist already completed")
		return result, nil
	}
	for _, skipped := range result.Skipped {
		logging.WarnWithContext(logger, "skipped playlist item during completion", "exposure_skipped",
			logging.String(logging.FieldVideoID, skipped.VideoID),
			logging.String("reason", string(skipped.Reason)),
			logging.String(logging.FieldImpact, "no review recorded for this item"),
			logging.String(logging.FieldErrorHint, "the video was deleted or already reviewed by another session"),
		)
	}
	logger.Info("playlist completed",
		logging.Int("exposures", len(result.Exposures)),
		logging.Int("mastered", result.Mastered()),
		logging.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

// recordExposure applies one play of item to its video. A non-empty
// SkipReason means nothing was written.
func recordExposure(tx catalog.Tx, policy *interval.Policy, item catalog.PlaylistItem, now time.Time) (Exposure, SkipReason, error) {
	video, err := tx.Video(item.VideoID)
	if errors.Is(err, catalog.ErrNotFound) {
		return Exposure{}, SkipMissingVideo, nil
	}
	if err != nil {
		return Exposure{}, "", err
	}
	if video.Status == catalog.StatusCompleted {
		return Exposure{}, SkipMastered, nil
	}
	if video.ReviewCount+1 != item.ReviewNumber {
		return Exposure{}, SkipStale, nil
	}

	previous := video.ReviewCount
	if video.Status == catalog.StatusNew || video.FirstPlayedAt == nil {
		first := now
		video.FirstPlayedAt = &first
		previous = 0
	}
	firstDay, _ := video.FirstPlayDate()
	video.ReviewCount = previous + 1

	due, ok, err := policy.NextDueDate(firstDay, previous)
	if err != nil {
		return Exposure{}, "", err
	}
	exposure := Exposure{VideoID: video.ID, ReviewCount: video.ReviewCount}
	if ok {
		video.Status = catalog.StatusLearning
		video.NextReview = &due
		exposure.NextReview = &due
	} else {
		video.Status = catalog.StatusCompleted
		video.NextReview = nil
		exposure.Mastered = true
	}

	if err := tx.PutVideo(video); err != nil {
		return Exposure{}, "", err
	}
	if exposure.Mastered {
		if err := tx.IncrementCollectionCompleted(video.CollectionID, 1); err != nil {
			return Exposure{}, "", err
		}
	}
	return exposure, "", nil
}
