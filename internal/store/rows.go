package store

import (
	"database/sql"
	"fmt"
	"time"

	"reprise/internal/catalog"
)

type collectionRow struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	Description     string `db:"description"`
	Color           string `db:"color"`
	Active          bool   `db:"active"`
	TotalVideos     int    `db:"total_videos"`
	CompletedVideos int    `db:"completed_videos"`
	CreatedAt       string `db:"created_at"`
}

type videoRow struct {
	ID            string         `db:"id"`
	CollectionID  string         `db:"collection_id"`
	Name          string         `db:"name"`
	Path          string         `db:"path"`
	SourceName    string         `db:"source_name"`
	EpisodeNumber int            `db:"episode_number"`
	Status        string         `db:"status"`
	ReviewCount   int            `db:"review_count"`
	FirstPlayedAt sql.NullString `db:"first_played_at"`
	NextReview    sql.NullString `db:"next_review"`
	AddedAt       string         `db:"added_at"`
}

type playlistRow struct {
	ID              string         `db:"id"`
	Kind            string         `db:"kind"`
	PlayDate        string         `db:"play_date"`
	IsExtra         bool           `db:"is_extra"`
	LastPlayedIndex int            `db:"last_played_index"`
	Completed       bool           `db:"completed"`
	CreatedAt       string         `db:"created_at"`
	CompletedAt     sql.NullString `db:"completed_at"`
}

type itemRow struct {
	PlaylistID          string        `db:"playlist_id"`
	Position            int           `db:"position"`
	VideoID             string        `db:"video_id"`
	Kind                string        `db:"kind"`
	ReviewNumber        int           `db:"review_number"`
	DaysSinceFirstPlay  sql.NullInt64 `db:"days_since_first_play"`
	RecommendedForVideo sql.NullBool  `db:"recommended_for_video"`
}

type positionRow struct {
	PlaylistID string  `db:"playlist_id"`
	VideoID    string  `db:"video_id"`
	Seconds    float64 `db:"seconds"`
	Duration   float64 `db:"duration"`
	Finished   bool    `db:"finished"`
	UpdatedAt  string  `db:"updated_at"`
}

const (
	collectionColumns = `id, name, description, color, active, total_videos, completed_videos, created_at`
	videoColumns      = `id, collection_id, name, path, source_name, episode_number, status, review_count, first_played_at, next_review, added_at`
	playlistColumns   = `id, kind, play_date, is_extra, last_played_index, completed, created_at, completed_at`
	itemColumns       = `playlist_id, position, video_id, kind, review_number, days_since_first_play, recommended_for_video`
	positionColumns   = `playlist_id, video_id, seconds, duration, finished, updated_at`
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil || t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullDate(d *catalog.Date) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// parseTime tolerates bad rows by returning the zero time.
func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseNullTime(value sql.NullString) *time.Time {
	if !value.Valid || value.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return nil
	}
	return &t
}

// parseNullDate maps a missing or malformed date to nil, which the scheduler
// treats as "not due".
func parseNullDate(value sql.NullString) *catalog.Date {
	if !value.Valid || value.String == "" {
		return nil
	}
	d, err := catalog.ParseDate(value.String)
	if err != nil {
		return nil
	}
	return &d
}

func (r collectionRow) toCollection() catalog.Collection {
	return catalog.Collection{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Color:           r.Color,
		CreatedAt:       parseTime(r.CreatedAt),
		Active:          r.Active,
		TotalVideos:     r.TotalVideos,
		CompletedVideos: r.CompletedVideos,
	}
}

func (r videoRow) toVideo() (catalog.Video, error) {
	status, err := catalog.ParseStatus(r.Status)
	if err != nil {
		return catalog.Video{}, fmt.Errorf("video %s: %w", r.ID, err)
	}
	return catalog.Video{
		ID:            r.ID,
		CollectionID:  r.CollectionID,
		Name:          r.Name,
		Path:          r.Path,
		SourceName:    r.SourceName,
		EpisodeNumber: r.EpisodeNumber,
		AddedAt:       parseTime(r.AddedAt),
		Status:        status,
		ReviewCount:   r.ReviewCount,
		FirstPlayedAt: parseNullTime(r.FirstPlayedAt),
		NextReview:    parseNullDate(r.NextReview),
	}, nil
}

func (r playlistRow) toPlaylist(items []catalog.PlaylistItem) (catalog.Playlist, error) {
	kind, err := catalog.ParseKind(r.Kind)
	if err != nil {
		return catalog.Playlist{}, fmt.Errorf("playlist %s: %w", r.ID, err)
	}
	date, err := catalog.ParseDate(r.PlayDate)
	if err != nil {
		return catalog.Playlist{}, fmt.Errorf("playlist %s: %w", r.ID, err)
	}
	if items == nil {
		items = []catalog.PlaylistItem{}
	}
	return catalog.Playlist{
		ID:              r.ID,
		Date:            date,
		Kind:            kind,
		Items:           items,
		IsExtraSession:  r.IsExtra,
		LastPlayedIndex: r.LastPlayedIndex,
		Completed:       r.Completed,
		CreatedAt:       parseTime(r.CreatedAt),
		CompletedAt:     parseNullTime(r.CompletedAt),
	}, nil
}

func (r itemRow) toItem() catalog.PlaylistItem {
	item := catalog.PlaylistItem{
		VideoID:      r.VideoID,
		Kind:         catalog.Kind(r.Kind),
		ReviewNumber: r.ReviewNumber,
	}
	if r.DaysSinceFirstPlay.Valid || r.RecommendedForVideo.Valid {
		item.Review = &catalog.ReviewDetail{
			DaysSinceFirstPlay:  int(r.DaysSinceFirstPlay.Int64),
			RecommendedForVideo: r.RecommendedForVideo.Bool,
		}
	}
	return item
}

func newItemRow(playlistID string, position int, item catalog.PlaylistItem) itemRow {
	row := itemRow{
		PlaylistID:   playlistID,
		Position:     position,
		VideoID:      item.VideoID,
		Kind:         string(item.Kind),
		ReviewNumber: item.ReviewNumber,
	}
	if item.Review != nil {
		row.DaysSinceFirstPlay = sql.NullInt64{Int64: int64(item.Review.DaysSinceFirstPlay), Valid: true}
		row.RecommendedForVideo = sql.NullBool{Bool: item.Review.RecommendedForVideo, Valid: true}
	}
	return row
}

func (r positionRow) toPosition() catalog.PlaybackPosition {
	return catalog.PlaybackPosition{
		PlaylistID: r.PlaylistID,
		VideoID:    r.VideoID,
		Seconds:    r.Seconds,
		Duration:   r.Duration,
		Finished:   r.Finished,
		UpdatedAt:  parseTime(r.UpdatedAt),
	}
}
