// Package schedule decides, for a given day, which videos are due for first
// study, audio review and video review.
//
// The Engine is a pure function of a catalog.Snapshot and the supplied day:
// it performs no I/O, so callers obtain one consistent snapshot and every
// candidate list computed from it agrees. Caps truncate silently and an empty
// result is a normal "nothing due" state rather than an error.
package schedule
