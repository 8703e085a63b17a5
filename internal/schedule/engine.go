package schedule

import (
	"fmt"
	"sort"

	"reprise/internal/catalog"
	"reprise/internal/config"
	"reprise/internal/interval"
)

// Limits holds the daily new-video quotas.
type Limits struct {
	MaxNewPerDay  int
	ExtraNewBonus int
}

// DefaultLimits returns 4 regular new videos plus 2 in an extra session.
func DefaultLimits() Limits {
	return Limits{MaxNewPerDay: 4, ExtraNewBonus: 2}
}

// Engine computes candidate lists.
type Engine struct {
	policy *interval.Policy
	limits Limits
}

// New constructs an Engine. A nil policy falls back to interval.Default.
func New(policy *interval.Policy, limits Limits) *Engine {
	if policy == nil {
		policy = interval.Default()
	}
	return &Engine{policy: policy, limits: limits}
}

// NewFromConfig builds the policy and engine described by cfg.Schedule.
func NewFromConfig(cfg *config.Config) (*Engine, error) {
	policy, err := interval.New(
		cfg.Schedule.IntervalsDays,
		interval.WithVideoReviewMinCount(cfg.Schedule.VideoReviewMinCount),
	)
	if err != nil {
		return nil, fmt.Errorf("interval policy: %w", err)
	}
	return New(policy, Limits{
		MaxNewPerDay:  cfg.Schedule.MaxNewPerDay,
		ExtraNewBonus: cfg.Schedule.ExtraNewBonus,
	}), nil
}

// Policy exposes the interval table the engine schedules against.
func (e *Engine) Policy() *interval.Policy {
	return e.policy
}

// Limits returns the configured quotas.
func (e *Engine) Limits() Limits {
	return e.limits
}

// Preview bundles the three candidate lists for one day.
type Preview struct {
	Date           catalog.Date           `json:"date"`
	NewVideos      []catalog.PlaylistItem `json:"new_videos"`
	AudioReviews   []catalog.PlaylistItem `json:"audio_reviews"`
	VideoReviews   []catalog.PlaylistItem `json:"video_reviews"`
	TotalCount     int                    `json:"total_count"`
	IsExtraSession bool                   `json:"is_extra_session"`
}

// Items returns the candidate list for kind.
func (p Preview) Items(kind catalog.Kind) []catalog.PlaylistItem {
	switch kind {
	case catalog.KindNew:
		return p.NewVideos
	case catalog.KindAudio:
		return p.AudioReviews
	case catalog.KindVideo:
		return p.VideoReviews
	default:
		return nil
	}
}

// Preview computes all three lists from one snapshot.
func (e *Engine) Preview(snap *catalog.Snapshot, today catalog.Date, extra bool) Preview {
	p := Preview{
		Date:           today,
		NewVideos:      e.NewCandidates(snap, today, extra),
		AudioReviews:   e.AudioReviews(snap, today),
		VideoReviews:   e.VideoReviews(snap, today),
		IsExtraSession: extra,
	}
	p.TotalCount = len(p.NewVideos) + len(p.AudioReviews) + len(p.VideoReviews)
	return p
}

// Candidates returns the list for a single kind.
func (e *Engine) Candidates(snap *catalog.Snapshot, today catalog.Date, kind catalog.Kind, extra bool) ([]catalog.PlaylistItem, error) {
	switch kind {
	case catalog.KindNew:
		return e.NewCandidates(snap, today, extra), nil
	case catalog.KindAudio:
		return e.AudioReviews(snap, today), nil
	case catalog.KindVideo:
		return e.VideoReviews(snap, today), nil
	default:
		return nil, fmt.Errorf("%w: %q", catalog.ErrInvalidKind, kind)
	}
}

// NewQuota returns how many new videos a session may still introduce today.
// A regular session gets MaxNewPerDay minus the videos already first played
// today; an extra session gets MaxNewPerDay+ExtraNewBonus regardless.
func (e *Engine) NewQuota(snap *catalog.Snapshot, today catalog.Date, extra bool) int {
	if extra {
		return e.limits.MaxNewPerDay + e.limits.ExtraNewBonus
	}
	quota := e.limits.MaxNewPerDay - e.IntroducedOn(snap, today)
	if quota < 0 {
		return 0
	}
	return quota
}

// IntroducedOn counts active videos whose first play fell on day.
func (e *Engine) IntroducedOn(snap *catalog.Snapshot, day catalog.Date) int {
	count := 0
	for _, v := range snap.ActiveVideos() {
		if first, ok := v.FirstPlayDate(); ok && first == day {
			count++
		}
	}
	return count
}

// NewCandidates returns never-played active videos in catalog order, capped
// by NewQuota.
func (e *Engine) NewCandidates(snap *catalog.Snapshot, today catalog.Date, extra bool) []catalog.PlaylistItem {
	limit := e.NewQuota(snap, today, extra)
	items := make([]catalog.PlaylistItem, 0, limit)
	if limit == 0 {
		return items
	}
	for _, v := range snap.ActiveVideos() {
		if v.Status != catalog.StatusNew {
			continue
		}
		items = append(items, catalog.NewItem(v.ID))
		if len(items) == limit {
			break
		}
	}
	return items
}

// AudioReviews returns every due, unmastered active video, earliest due first.
func (e *Engine) AudioReviews(snap *catalog.Snapshot, today catalog.Date) []catalog.PlaylistItem {
	due := e.dueVideos(snap, today, 0)
	items := make([]catalog.PlaylistItem, 0, len(due))
	for _, d := range due {
		items = append(items, catalog.ReviewItem(d.video.ID, catalog.KindAudio, d.video.ReviewCount+1, catalog.ReviewDetail{
			DaysSinceFirstPlay:  today.DaysSince(d.firstPlay),
			RecommendedForVideo: e.policy.VideoRecommended(d.video.ReviewCount),
		}))
	}
	return items
}

// VideoReviews returns the due videos whose review count reached the video
// recommendation threshold.
func (e *Engine) VideoReviews(snap *catalog.Snapshot, today catalog.Date) []catalog.PlaylistItem {
	due := e.dueVideos(snap, today, e.policy.VideoReviewMinCount())
	items := make([]catalog.PlaylistItem, 0, len(due))
	for _, d := range due {
		items = append(items, catalog.ReviewItem(d.video.ID, catalog.KindVideo, d.video.ReviewCount+1, catalog.ReviewDetail{
			DaysSinceFirstPlay:  today.DaysSince(d.firstPlay),
			RecommendedForVideo: true,
		}))
	}
	return items
}

type dueVideo struct {
	video     catalog.Video
	firstPlay catalog.Date
}

// dueVideos filters to learning-phase videos due on or before today. Videos
// with a due date but no first play are malformed and treated as not due.
func (e *Engine) dueVideos(snap *catalog.Snapshot, today catalog.Date, minReviewCount int) []dueVideo {
	var out []dueVideo
	for _, v := range snap.ActiveVideos() {
		if v.Status == catalog.StatusCompleted || v.Status == catalog.StatusNew {
			continue
		}
		if v.NextReview == nil || v.NextReview.IsZero() || v.NextReview.After(today) {
			continue
		}
		if v.ReviewCount < minReviewCount || v.ReviewCount < 1 {
			continue
		}
		first, ok := v.FirstPlayDate()
		if !ok {
			continue
		}
		out = append(out, dueVideo{video: v, firstPlay: first})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].video.NextReview.Before(*out[j].video.NextReview)
	})
	return out
}
