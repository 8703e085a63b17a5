// Package interval holds the forgetting-curve table that decides when each
// repeat exposure of a video falls due.
package interval

import (
	"errors"
	"fmt"

	"reprise/internal/catalog"
)

// DefaultVideoReviewMinCount is the review count from which full video
// replay is preferred.
const DefaultVideoReviewMinCount = 3

// Policy is an immutable interval table. Entry k is the gap in days between
// review k and review k+1, where review 0 is measured from the first play.
// Due dates are cumulative: with [2,4,7] the reviews land on day 2, 6 and 13.
type Policy struct {
	intervals      []int
	offsets        []int
	videoMinReview int
}

// Option customizes a Policy.
type Option func(*Policy)

// WithVideoReviewMinCount overrides the count from which video review is recommended.
func WithVideoReviewMinCount(n int) Option {
	return func(p *Policy) {
		p.videoMinReview = n
	}
}

// New validates the table and precomputes cumulative offsets.
func New(intervals []int, opts ...Option) (*Policy, error) {
	if len(intervals) == 0 {
		return nil, errors.New("interval table must not be empty")
	}
	p := &Policy{
		intervals:      append([]int(nil), intervals...),
		offsets:        make([]int, len(intervals)),
		videoMinReview: DefaultVideoReviewMinCount,
	}
	total := 0
	for i, days := range intervals {
		if days <= 0 {
			return nil, fmt.Errorf("interval %d must be positive, got %d", i, days)
		}
		total += days
		p.offsets[i] = total
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.videoMinReview < 1 {
		return nil, fmt.Errorf("video review threshold must be at least 1, got %d", p.videoMinReview)
	}
	return p, nil
}

// Default returns the [2,4,7,15,30,90] table.
func Default() *Policy {
	p, err := New([]int{2, 4, 7, 15, 30, 90})
	if err != nil {
		panic(err)
	}
	return p
}

// Intervals returns a copy of the gap table.
func (p *Policy) Intervals() []int {
	return append([]int(nil), p.intervals...)
}

// MasteryThreshold is the number of exposures, first play included, after
// which a video is completed: one more than the number of scheduled reviews.
func (p *Policy) MasteryThreshold() int {
	return len(p.intervals) + 1
}

// Offset returns the cumulative day offset from the first play at which
// review k (0-based) is due.
func (p *Policy) Offset(k int) (int, error) {
	if k < 0 || k >= len(p.offsets) {
		return 0, fmt.Errorf("%w: review index %d outside 0..%d", catalog.ErrInvalidInterval, k, len(p.offsets)-1)
	}
	return p.offsets[k], nil
}

// NextDueDate returns the day the next exposure is due for a video that had
// reviewCount exposures before the one just recorded. ok is false once the
// table is exhausted, meaning the video is mastered.
func (p *Policy) NextDueDate(firstPlay catalog.Date, reviewCount int) (due catalog.Date, ok bool, err error) {
	if reviewCount < 0 {
		return catalog.Date{}, false, fmt.Errorf("%w: review count %d", catalog.ErrInvalidInterval, reviewCount)
	}
	if firstPlay.IsZero() {
		return catalog.Date{}, false, fmt.Errorf("%w: missing first play date", catalog.ErrInvalidInterval)
	}
	if reviewCount >= len(p.offsets) {
		return catalog.Date{}, false, nil
	}
	return firstPlay.AddDays(p.offsets[reviewCount]), true, nil
}

// VideoRecommended reports whether a video with reviewCount exposures should
// be replayed in full rather than audio-only.
func (p *Policy) VideoRecommended(reviewCount int) bool {
	return reviewCount >= p.videoMinReview
}

// VideoReviewMinCount returns the video recommendation threshold.
func (p *Policy) VideoReviewMinCount() int {
	return p.videoMinReview
}
