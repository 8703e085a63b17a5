package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reprise/internal/catalog"
	"reprise/internal/library"
	"reprise/internal/services"
)

// ListCollections returns every collection in creation order.
// GET /api/v1/collections
func (h *Handler) ListCollections(c *gin.Context) {
	list, err := h.library.Collections(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []catalog.Collection{}
	}
	c.JSON(http.StatusOK, gin.H{"collections": list})
}

// CreateCollection adds a collection. Omitted colors are assigned from the
// palette.
// POST /api/v1/collections
func (h *Handler) CreateCollection(c *gin.Context) {
	var spec library.CollectionSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	col, err := h.library.CreateCollection(c.Request.Context(), spec)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

// UpdateCollection applies a partial edit.
// PATCH /api/v1/collections/:id
func (h *Handler) UpdateCollection(c *gin.Context) {
	var patch library.CollectionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ctx := services.WithCollectionID(c.Request.Context(), c.Param("id"))
	col, err := h.library.UpdateCollection(ctx, c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// ToggleCollection flips the active flag.
// POST /api/v1/collections/:id/toggle
func (h *Handler) ToggleCollection(c *gin.Context) {
	ctx := services.WithCollectionID(c.Request.Context(), c.Param("id"))
	col, err := h.library.ToggleCollection(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// DeleteCollection removes a collection with its videos and media files.
// DELETE /api/v1/collections/:id
func (h *Handler) DeleteCollection(c *gin.Context) {
	ctx := services.WithCollectionID(c.Request.Context(), c.Param("id"))
	if err := h.library.DeleteCollection(ctx, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddVideos copies host files into the media library. Videos added before a
// failure are kept and reported alongside the error.
// POST /api/v1/collections/:id/videos
func (h *Handler) AddVideos(c *gin.Context) {
	var req AddVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: paths is required")
		return
	}
	ctx := services.WithCollectionID(c.Request.Context(), c.Param("id"))
	added, err := h.library.AddVideos(ctx, c.Param("id"), req.Paths)
	if added == nil {
		added = []catalog.Video{}
	}
	if err != nil {
		if len(added) == 0 {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusMultiStatus, AddVideosResponse{Videos: added, Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, AddVideosResponse{Videos: added})
}

// ListVideos lists videos, optionally for one collection.
// GET /api/v1/videos?collection=<id>
func (h *Handler) ListVideos(c *gin.Context) {
	list, err := h.library.Videos(c.Request.Context(), c.Query("collection"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []catalog.Video{}
	}
	c.JSON(http.StatusOK, gin.H{"videos": list})
}

// DeleteVideo removes a video and its media file. Playlists that reference it
// keep their history.
// DELETE /api/v1/videos/:id
func (h *Handler) DeleteVideo(c *gin.Context) {
	ctx := services.WithVideoID(c.Request.Context(), c.Param("id"))
	if err := h.library.DeleteVideo(ctx, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
