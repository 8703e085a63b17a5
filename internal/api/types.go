package api

import (
	"reprise/internal/catalog"
	"reprise/internal/playlist"
	"reprise/internal/store"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string               `json:"status"`
	Database store.DatabaseHealth `json:"database"`
}

// PlaylistResponse adds the derived lifecycle state to a playlist.
type PlaylistResponse struct {
	catalog.Playlist
	State catalog.State `json:"state"`
}

// ResumeResponse wraps the result of a resume lookup. Playlist is null when
// nothing can be resumed.
type ResumeResponse struct {
	Playlist *PlaylistResponse `json:"playlist"`
}

// CompletionResponse reports what completing a playlist changed.
type CompletionResponse struct {
	Playlist         PlaylistResponse       `json:"playlist"`
	AlreadyCompleted bool                   `json:"already_completed"`
	Mastered         int                    `json:"mastered"`
	Exposures        []playlist.Exposure    `json:"exposures"`
	Skipped          []playlist.SkippedItem `json:"skipped"`
}

// CreatePlaylistRequest is the body of POST /playlists.
type CreatePlaylistRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Extra bool   `json:"extra"`
}

// CursorRequest is the body of PUT /playlists/:id/cursor.
type CursorRequest struct {
	Index *int `json:"index" binding:"required"`
}

// PositionRequest is the body of PUT /playlists/:id/positions.
type PositionRequest struct {
	VideoID  string  `json:"video_id" binding:"required"`
	Seconds  float64 `json:"seconds"`
	Duration float64 `json:"duration"`
	Finished bool    `json:"finished"`
}

// AddVideosRequest is the body of POST /collections/:id/videos. Paths refer
// to files on the host running the daemon.
type AddVideosRequest struct {
	Paths []string `json:"paths" binding:"required,min=1"`
}

// AddVideosResponse lists the videos that were added before any failure.
type AddVideosResponse struct {
	Videos []catalog.Video `json:"videos"`
	Error  string          `json:"error,omitempty"`
}

func toPlaylistResponse(p catalog.Playlist) PlaylistResponse {
	if p.Items == nil {
		p.Items = []catalog.PlaylistItem{}
	}
	return PlaylistResponse{Playlist: p, State: p.State()}
}

func toPlaylistResponses(list []catalog.Playlist) []PlaylistResponse {
	out := make([]PlaylistResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPlaylistResponse(p))
	}
	return out
}

func toCompletionResponse(res playlist.CompletionResult) CompletionResponse {
	exposures := res.Exposures
	if exposures == nil {
		exposures = []playlist.Exposure{}
	}
	skipped := res.Skipped
	if skipped == nil {
		skipped = []playlist.SkippedItem{}
	}
	return CompletionResponse{
		Playlist:         toPlaylistResponse(res.Playlist),
		AlreadyCompleted: res.AlreadyCompleted,
		Mastered:         res.Mastered(),
		Exposures:        exposures,
		Skipped:          skipped,
	}
}
