// Package api exposes the study scheduler over HTTP using gin.
//
// # Routes
//
// All routes live under /api/v1. Health is public; everything else passes
// through the bearer token middleware when a token is configured.
//
//	GET    /health                   database health report
//	GET    /stats                    dashboard statistics for today
//	GET    /preview?extra=           today's candidate lists
//	GET    /playlists                playlist history (?limit=)
//	POST   /playlists                create a playlist {kind, extra}
//	GET    /playlists/resume?type=   most recent unfinished playlist of a kind
//	GET    /playlists/:id            one playlist
//	PUT    /playlists/:id/cursor     move the playback cursor {index}
//	POST   /playlists/:id/complete   record exposures and finish
//	PUT    /playlists/:id/positions  save an in-video resume point
//	GET    /collections              list collections
//	POST   /collections              create a collection
//	PATCH  /collections/:id          edit a collection
//	POST   /collections/:id/toggle   flip the active flag
//	DELETE /collections/:id          delete a collection and its videos
//	POST   /collections/:id/videos   add media files {paths}
//	GET    /videos?collection=       list videos
//	DELETE /videos/:id               delete a video
//
// # Errors
//
// Failures are rendered as ErrorResponse. The HTTP status follows the error
// classification from services.Kind: validation maps to 400, not_found to
// 404, conflict to 409 and everything else to 500.
package api
