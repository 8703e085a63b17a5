package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies both an exposure type and the homogeneous playlist built
// from it.
type Kind string

const (
	KindNew   Kind = "new"
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Kinds lists every playlist kind in display order.
var Kinds = []Kind{KindNew, KindAudio, KindVideo}

// ParseKind normalizes a kind string.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindNew:
		return KindNew, nil
	case KindAudio:
		return KindAudio, nil
	case KindVideo:
		return KindVideo, nil
	default:
		return "", fmt.Errorf("%w: %q (want new, audio or video)", ErrInvalidKind, value)
	}
}

// IsReview reports whether the kind is a repeat exposure.
func (k Kind) IsReview() bool {
	return k == KindAudio || k == KindVideo
}

// ReviewDetail carries the fields only review items populate.
type ReviewDetail struct {
	DaysSinceFirstPlay  int  `json:"days_since_first_play"`
	RecommendedForVideo bool `json:"recommended_for_video"`
}

// PlaylistItem references one video. Review is nil for new items and set for
// audio and video items.
type PlaylistItem struct {
	VideoID      string        `json:"video_id"`
	Kind         Kind          `json:"kind"`
	ReviewNumber int           `json:"review_number"`
	Review       *ReviewDetail `json:"review,omitempty"`
}

// NewItem builds a first-exposure item.
func NewItem(videoID string) PlaylistItem {
	return PlaylistItem{VideoID: videoID, Kind: KindNew, ReviewNumber: 1}
}

// ReviewItem builds an audio or video review item.
func ReviewItem(videoID string, kind Kind, reviewNumber int, detail ReviewDetail) PlaylistItem {
	return PlaylistItem{VideoID: videoID, Kind: kind, ReviewNumber: reviewNumber, Review: &detail}
}

// State is the derived lifecycle position of a playlist.
type State string

const (
	StateCreated    State = "created"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Playlist is a materialized study session. Playlists are kept as history and
// never deleted automatically.
type Playlist struct {
	ID              string         `json:"id"`
	Date            Date           `json:"date"`
	Kind            Kind           `json:"kind"`
	Items           []PlaylistItem `json:"items"`
	IsExtraSession  bool           `json:"is_extra_session"`
	LastPlayedIndex int            `json:"last_played_index"`
	Completed       bool           `json:"completed"`
	CreatedAt       time.Time      `json:"created_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
}

// State reports the lifecycle position.
func (p Playlist) State() State {
	switch {
	case p.Completed:
		return StateCompleted
	case p.LastPlayedIndex > 0:
		return StateInProgress
	default:
		return StateCreated
	}
}

// Resumable reports whether playback can continue from the cursor.
func (p Playlist) Resumable() bool {
	return !p.Completed && p.LastPlayedIndex < len(p.Items)
}

// PlaybackPosition is the resume point inside one video of a playlist.
type PlaybackPosition struct {
	PlaylistID string    `json:"playlist_id"`
	VideoID    string    `json:"video_id"`
	Seconds    float64   `json:"seconds"`
	Duration   float64   `json:"duration"`
	Finished   bool      `json:"finished"`
	UpdatedAt  time.Time `json:"updated_at"`
}
