package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Status tracks a video's progress through the review cycle.
type Status string

const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusCompleted Status = "completed"
)

// ParseStatus normalizes a status string.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusNew:
		return StatusNew, nil
	case StatusLearning:
		return StatusLearning, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown video status %q", value)
	}
}

// Video is one study item. ReviewCount counts completed exposures including
// the first play.
type Video struct {
	ID            string     `json:"id"`
	CollectionID  string     `json:"collection_id"`
	Name          string     `json:"name"`
	Path          string     `json:"path,omitempty"`
	SourceName    string     `json:"source_name,omitempty"`
	EpisodeNumber int        `json:"episode_number"`
	AddedAt       time.Time  `json:"added_at"`
	Status        Status     `json:"status"`
	ReviewCount   int        `json:"review_count"`
	FirstPlayedAt *time.Time `json:"first_played_at,omitempty"`
	NextReview    *Date      `json:"next_review,omitempty"`
}

// FirstPlayDate returns the calendar day of the first exposure.
func (v Video) FirstPlayDate() (Date, bool) {
	if v.FirstPlayedAt == nil || v.FirstPlayedAt.IsZero() {
		return Date{}, false
	}
	return Today(*v.FirstPlayedAt), true
}

// Collection groups videos. TotalVideos and CompletedVideos are denormalized
// and must equal the member counts after every catalog mutation.
type Collection struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Color           string    `json:"color,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Active          bool      `json:"active"`
	TotalVideos     int       `json:"total_videos"`
	CompletedVideos int       `json:"completed_videos"`
}

// Progress returns the rounded completion percentage.
func (c Collection) Progress() int {
	return Percent(c.CompletedVideos, c.TotalVideos)
}

// Percent returns round(part/total*100), or 0 when total is zero.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*200 + total) / (total * 2)
}
