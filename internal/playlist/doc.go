// Package playlist materializes study sessions from the schedule and applies
// their completion to the catalog.
//
// A Manager creates homogeneous playlists (new, audio or video), tracks the
// playback cursor, resumes abandoned sessions and records one exposure per
// item when a session completes. Creation, completion and resume run inside a
// single repository transaction and are additionally serialized by the
// manager, so a concurrent preview never observes a half-applied completion.
package playlist
