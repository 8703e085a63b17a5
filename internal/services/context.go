package services

import "context"

type contextKey string

const (
	playlistIDKey   contextKey = "playlist_id"
	videoIDKey      contextKey = "video_id"
	collectionIDKey contextKey = "collection_id"
	requestIDKey    contextKey = "request_id"
)

// WithPlaylistID annotates context with the playlist being operated on.
func WithPlaylistID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, playlistIDKey, id)
}

// PlaylistIDFromContext extracts the playlist identifier if present.
func PlaylistIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(playlistIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithVideoID annotates context with a video identifier.
func WithVideoID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, videoIDKey, id)
}

// VideoIDFromContext returns the video identifier if present.
func VideoIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(videoIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCollectionID annotates context with a collection identifier.
func WithCollectionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, collectionIDKey, id)
}

// CollectionIDFromContext returns the collection identifier if present.
func CollectionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(collectionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
