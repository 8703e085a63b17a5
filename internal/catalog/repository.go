package catalog

import "context"

// PlaylistFilter narrows playlist listings. Zero values match everything.
type PlaylistFilter struct {
	Kind  Kind
	Limit int
}

// Repository is the persistence boundary for the catalog. Implementations
// must give each Update an isolated, atomic view: no reader observes a
// partially applied callback.
type Repository interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
}

// Tx is the unit of work handed to Repository callbacks. Writes replace whole
// rows.
type Tx interface {
	Snapshot() (*Snapshot, error)

	Video(id string) (Video, error)
	PutVideo(v Video) error
	DeleteVideo(id string) error

	Collection(id string) (Collection, error)
	PutCollection(c Collection) error
	DeleteCollection(id string) error
	IncrementCollectionCompleted(id string, delta int) error

	InsertPlaylist(p Playlist) error
	Playlist(id string) (Playlist, error)
	PutPlaylist(p Playlist) error
	Playlists(filter PlaylistFilter) ([]Playlist, error)

	SavePosition(pos PlaybackPosition) error
	Position(playlistID, videoID string) (PlaybackPosition, error)
}
