// Package stats projects read-only dashboard figures from a catalog snapshot
// and the day's schedule preview.
package stats

import (
	"context"
	"fmt"

	"reprise/internal/catalog"
	"reprise/internal/schedule"
)

// CollectionProgress is one row of the per-collection breakdown.
type CollectionProgress struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Active    bool   `json:"active"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Learning  int    `json:"learning"`
	Progress  int    `json:"progress"`
}

// Stats is the dashboard projection.
type Stats struct {
	Date              catalog.Date         `json:"date"`
	TotalVideos       int                  `json:"total_videos"`
	CompletedVideos   int                  `json:"completed_videos"`
	LearningVideos    int                  `json:"learning_videos"`
	NewVideos         int                  `json:"new_videos"`
	TodayNew          int                  `json:"today_new"`
	TodayAudio        int                  `json:"today_audio"`
	TodayVideo        int                  `json:"today_video"`
	OverallProgress   int                  `json:"overall_progress"`
	ActiveCollections int                  `json:"active_collections"`
	CanAddExtra       bool                 `json:"can_add_extra"`
	Collections       []CollectionProgress `json:"collections"`
}

// TodayTotal is the number of items scheduled for today across all kinds.
func (s Stats) TodayTotal() int {
	return s.TodayNew + s.TodayAudio + s.TodayVideo
}

// Project derives Stats from snap and the regular (non-extra) preview of the
// same snapshot. Counts cover active collections only; the per-collection
// list includes inactive collections for display.
func Project(snap *catalog.Snapshot, preview schedule.Preview) Stats {
	s := Stats{
		Date:       preview.Date,
		TodayNew:   len(preview.NewVideos),
		TodayAudio: len(preview.AudioReviews),
		TodayVideo: len(preview.VideoReviews),
	}

	for _, v := range snap.ActiveVideos() {
		s.TotalVideos++
		switch v.Status {
		case catalog.StatusCompleted:
			s.CompletedVideos++
		case catalog.StatusLearning:
			s.LearningVideos++
		default:
			s.NewVideos++
		}
	}
	s.OverallProgress = catalog.Percent(s.CompletedVideos, s.TotalVideos)
	s.ActiveCollections = len(snap.ActiveCollections())
	s.CanAddExtra = s.TodayNew == 0 && s.NewVideos > 0

	s.Collections = make([]CollectionProgress, 0, len(snap.Collections))
	for _, c := range snap.Collections {
		row := CollectionProgress{ID: c.ID, Name: c.Name, Color: c.Color, Active: c.Active}
		for _, v := range snap.CollectionVideos(c.ID) {
			row.Total++
			switch v.Status {
			case catalog.StatusCompleted:
				row.Completed++
			case catalog.StatusLearning:
				row.Learning++
			}
		}
		row.Progress = catalog.Percent(row.Completed, row.Total)
		s.Collections = append(s.Collections, row)
	}
	return s
}

// Compute loads a snapshot from repo and projects it for today.
func Compute(ctx context.Context, repo catalog.Repository, engine *schedule.Engine, today catalog.Date) (Stats, error) {
	snap, err := repo.Snapshot(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load catalog: %w", err)
	}
	return Project(snap, engine.Preview(snap, today, false)), nil
}
