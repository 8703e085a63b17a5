package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reprise/internal/catalog"
	"reprise/internal/services"
)

// ListPlaylists returns playlist history, most recent first.
// GET /api/v1/playlists?limit=20
func (h *Handler) ListPlaylists(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	list, err := h.playlist.History(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playlists": toPlaylistResponses(list)})
}

// CreatePlaylist materializes today's playlist of the requested kind.
// POST /api/v1/playlists
func (h *Handler) CreatePlaylist(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: kind is required")
		return
	}
	kind, err := catalog.ParseKind(req.Kind)
	if err != nil {
		h.respondError(c, err)
		return
	}
	p, err := h.playlist.Create(c.Request.Context(), kind, req.Extra)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPlaylistResponse(p))
}

// ResumePlaylist finds the most recent unfinished playlist of a kind.
// GET /api/v1/playlists/resume?type=audio
func (h *Handler) ResumePlaylist(c *gin.Context) {
	kind, err := catalog.ParseKind(c.Query("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	p, err := h.playlist.ResumeIncomplete(c.Request.Context(), kind)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var resp ResumeResponse
	if p != nil {
		out := toPlaylistResponse(*p)
		resp.Playlist = &out
	}
	c.JSON(http.StatusOK, resp)
}

// GetPlaylist returns one playlist.
// GET /api/v1/playlists/:id
func (h *Handler) GetPlaylist(c *gin.Context) {
	ctx := services.WithPlaylistID(c.Request.Context(), c.Param("id"))
	p, err := h.playlist.Get(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPlaylistResponse(p))
}

// AdvancePlaylist moves the playback cursor.
// PUT /api/v1/playlists/:id/cursor
func (h *Handler) AdvancePlaylist(c *gin.Context) {
	var req CursorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: index is required")
		return
	}
	ctx := services.WithPlaylistID(c.Request.Context(), c.Param("id"))
	p, err := h.playlist.Advance(ctx, c.Param("id"), *req.Index)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPlaylistResponse(p))
}

// CompletePlaylist records one exposure per item and finishes the playlist.
// Repeating the call is harmless.
// POST /api/v1/playlists/:id/complete
func (h *Handler) CompletePlaylist(c *gin.Context) {
	ctx := services.WithPlaylistID(c.Request.Context(), c.Param("id"))
	res, err := h.playlist.Complete(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompletionResponse(res))
}

// SavePosition stores an in-video resume point.
// PUT /api/v1/playlists/:id/positions
func (h *Handler) SavePosition(c *gin.Context) {
	var req PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: video_id is required")
		return
	}
	ctx := services.WithPlaylistID(c.Request.Context(), c.Param("id"))
	pos, err := h.playlist.SavePosition(ctx, catalog.PlaybackPosition{
		PlaylistID: c.Param("id"),
		VideoID:    req.VideoID,
		Seconds:    req.Seconds,
		Duration:   req.Duration,
		Finished:   req.Finished,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

// GetPosition returns the stored resume point for one video.
// GET /api/v1/playlists/:id/positions/:videoID
func (h *Handler) GetPosition(c *gin.Context) {
	pos, err := h.playlist.Position(c.Request.Context(), c.Param("id"), c.Param("videoID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}
