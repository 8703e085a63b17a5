package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"reprise/internal/catalog"
)

type sqlTx struct {
	ctx context.Context
	tx  *sqlx.Tx
}

var _ catalog.Tx = (*sqlTx)(nil)

func notFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, catalog.ErrNotFound)
}

func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %q rows affected: %w", entity, id, err)
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

func (t *sqlTx) Snapshot() (*catalog.Snapshot, error) {
	var crows []collectionRow
	if err := t.tx.SelectContext(t.ctx, &crows, `SELECT `+collectionColumns+` FROM collections ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}
	var vrows []videoRow
	if err := t.tx.SelectContext(t.ctx, &vrows, `SELECT `+videoColumns+` FROM videos ORDER BY seq`); err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}

	collections := make([]catalog.Collection, 0, len(crows))
	for _, row := range crows {
		collections = append(collections, row.toCollection())
	}
	videos := make([]catalog.Video, 0, len(vrows))
	for _, row := range vrows {
		v, err := row.toVideo()
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return catalog.NewSnapshot(videos, collections), nil
}

func (t *sqlTx) Video(id string) (catalog.Video, error) {
	var row videoRow
	err := t.tx.GetContext(t.ctx, &row, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Video{}, notFound("video", id)
	}
	if err != nil {
		return catalog.Video{}, fmt.Errorf("get video %q: %w", id, err)
	}
	return row.toVideo()
}

func (t *sqlTx) PutVideo(v catalog.Video) error {
	row := videoRow{
		ID:            v.ID,
		CollectionID:  v.CollectionID,
		Name:          v.Name,
		Path:          v.Path,
		SourceName:    v.SourceName,
		EpisodeNumber: v.EpisodeNumber,
		Status:        string(v.Status),
		ReviewCount:   v.ReviewCount,
		FirstPlayedAt: nullTime(v.FirstPlayedAt),
		NextReview:    nullDate(v.NextReview),
		AddedAt:       formatTime(v.AddedAt),
	}
	if row.Status == "" {
		row.Status = string(catalog.StatusNew)
	}
	_, err := t.tx.NamedExecContext(t.ctx, `
		INSERT INTO videos (id, seq, `+strings.TrimPrefix(videoColumns, "id, ")+`)
		VALUES (:id, (SELECT COALESCE(MAX(seq), 0) + 1 FROM videos), :collection_id, :name, :path, :source_name,
			:episode_number, :status, :review_count, :first_played_at, :next_review, :added_at)
		ON CONFLICT(id) DO UPDATE SET
			collection_id = excluded.collection_id,
			name = excluded.name,
			path = excluded.path,
			source_name = excluded.source_name,
			episode_number = excluded.episode_number,
			status = excluded.status,
			review_count = excluded.review_count,
			first_played_at = excluded.first_played_at,
			next_review = excluded.next_review,
			added_at = excluded.added_at`, row)
	if err != nil {
		return fmt.Errorf("put video %q: %w", v.ID, err)
	}
	return nil
}

func (t *sqlTx) DeleteVideo(id string) error {
	res, err := t.tx.ExecContext(t.ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete video %q: %w", id, err)
	}
	return requireRow(res, "video", id)
}

func (t *sqlTx) Collection(id string) (catalog.Collection, error) {
	var row collectionRow
	err := t.tx.GetContext(t.ctx, &row, `SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Collection{}, notFound("collection", id)
	}
	if err != nil {
		return catalog.Collection{}, fmt.Errorf("get collection %q: %w", id, err)
	}
	return row.toCollection(), nil
}

func (t *sqlTx) PutCollection(c catalog.Collection) error {
	row := collectionRow{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Color:           c.Color,
		Active:          c.Active,
		TotalVideos:     c.TotalVideos,
		CompletedVideos: c.CompletedVideos,
		CreatedAt:       formatTime(c.CreatedAt),
	}
	_, err := t.tx.NamedExecContext(t.ctx, `
		INSERT INTO collections (id, seq, `+strings.TrimPrefix(collectionColumns, "id, ")+`)
		VALUES (:id, (SELECT COALESCE(MAX(seq), 0) + 1 FROM collections), :name, :description, :color,
			:active, :total_videos, :completed_videos, :created_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			color = excluded.color,
			active = excluded.active,
			total_videos = excluded.total_videos,
			completed_videos = excluded.completed_videos,
			created_at = excluded.created_at`, row)
	if err != nil {
		return fmt.Errorf("put collection %q: %w", c.ID, err)
	}
	return nil
}

// DeleteCollection removes the collection and, through the foreign key, its
// videos. Playlist history keeps its item rows.
func (t *sqlTx) DeleteCollection(id string) error {
	res, err := t.tx.ExecContext(t.ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete collection %q: %w", id, err)
	}
	return requireRow(res, "collection", id)
}

func (t *sqlTx) IncrementCollectionCompleted(id string, delta int) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE collections SET completed_videos = MAX(0, completed_videos + ?) WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("increment completed for collection %q: %w", id, err)
	}
	return requireRow(res, "collection", id)
}

// InsertPlaylist stores a new playlist after checking that every item refers
// to an existing video.
func (t *sqlTx) InsertPlaylist(p catalog.Playlist) error {
	if err := t.checkReferences(p.Items); err != nil {
		return err
	}
	_, err := t.tx.NamedExecContext(t.ctx, `
		INSERT INTO playlists (id, seq, `+strings.TrimPrefix(playlistColumns, "id, ")+`)
		VALUES (:id, (SELECT COALESCE(MAX(seq), 0) + 1 FROM playlists), :kind, :play_date, :is_extra,
			:last_played_index, :completed, :created_at, :completed_at)`, playlistToRow(p))
	if err != nil {
		return fmt.Errorf("insert playlist %q: %w", p.ID, err)
	}
	return t.writeItems(p.ID, p.Items)
}

func (t *sqlTx) checkReferences(items []catalog.PlaylistItem) error {
	if len(items) == 0 {
		return nil
	}
	wanted := make([]string, 0, len(items))
	for _, item := range items {
		wanted = append(wanted, item.VideoID)
	}
	query, args, err := sqlx.In(`SELECT id FROM videos WHERE id IN (?)`, wanted)
	if err != nil {
		return fmt.Errorf("build reference query: %w", err)
	}
	var found []string
	if err := t.tx.SelectContext(t.ctx, &found, t.tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("check video references: %w", err)
	}
	present := make(map[string]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range wanted {
		if _, ok := present[id]; !ok {
			return fmt.Errorf("video %q: %w", id, catalog.ErrDanglingReference)
		}
	}
	return nil
}

func playlistToRow(p catalog.Playlist) playlistRow {
	return playlistRow{
		ID:              p.ID,
		Kind:            string(p.Kind),
		PlayDate:        p.Date.String(),
		IsExtra:         p.IsExtraSession,
		LastPlayedIndex: p.LastPlayedIndex,
		Completed:       p.Completed,
		CreatedAt:       formatTime(p.CreatedAt),
		CompletedAt:     nullTime(p.CompletedAt),
	}
}

func (t *sqlTx) writeItems(playlistID string, items []catalog.PlaylistItem) error {
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM playlist_items WHERE playlist_id = ?`, playlistID); err != nil {
		return fmt.Errorf("clear playlist items: %w", err)
	}
	for i, item := range items {
		_, err := t.tx.NamedExecContext(t.ctx, `
			INSERT INTO playlist_items (`+itemColumns+`)
			VALUES (:playlist_id, :position, :video_id, :kind, :review_number, :days_since_first_play, :recommended_for_video)`,
			newItemRow(playlistID, i, item))
		if err != nil {
			return fmt.Errorf("insert playlist item %d: %w", i, err)
		}
	}
	return nil
}

func (t *sqlTx) Playlist(id string) (catalog.Playlist, error) {
	var row playlistRow
	err := t.tx.GetContext(t.ctx, &row, `SELECT `+playlistColumns+` FROM playlists WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Playlist{}, notFound("playlist", id)
	}
	if err != nil {
		return catalog.Playlist{}, fmt.Errorf("get playlist %q: %w", id, err)
	}
	items, err := t.loadItems([]string{id})
	if err != nil {
		return catalog.Playlist{}, err
	}
	return row.toPlaylist(items[id])
}

// PutPlaylist replaces the playlist row and its items.
func (t *sqlTx) PutPlaylist(p catalog.Playlist) error {
	res, err := t.tx.NamedExecContext(t.ctx, `
		UPDATE playlists SET
			kind = :kind,
			play_date = :play_date,
			is_extra = :is_extra,
			last_played_index = :last_played_index,
			completed = :completed,
			completed_at = :completed_at
		WHERE id = :id`, playlistToRow(p))
	if err != nil {
		return fmt.Errorf("update playlist %q: %w", p.ID, err)
	}
	if err := requireRow(res, "playlist", p.ID); err != nil {
		return err
	}
	return t.writeItems(p.ID, p.Items)
}

// Playlists lists playlists most recent first.
func (t *sqlTx) Playlists(filter catalog.PlaylistFilter) ([]catalog.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists`
	var args []any
	if filter.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY seq DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var rows []playlistRow
	if err := t.tx.SelectContext(t.ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := t.loadItems(ids)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Playlist, 0, len(rows))
	for _, row := range rows {
		p, err := row.toPlaylist(items[row.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (t *sqlTx) loadItems(playlistIDs []string) (map[string][]catalog.PlaylistItem, error) {
	query, args, err := sqlx.In(
		`SELECT `+itemColumns+` FROM playlist_items WHERE playlist_id IN (?) ORDER BY playlist_id, position`,
		playlistIDs)
	if err != nil {
		return nil, fmt.Errorf("build item query: %w", err)
	}
	var rows []itemRow
	if err := t.tx.SelectContext(t.ctx, &rows, t.tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load playlist items: %w", err)
	}
	out := make(map[string][]catalog.PlaylistItem, len(playlistIDs))
	for _, row := range rows {
		out[row.PlaylistID] = append(out[row.PlaylistID], row.toItem())
	}
	return out, nil
}

func (t *sqlTx) SavePosition(pos catalog.PlaybackPosition) error {
	row := positionRow{
		PlaylistID: pos.PlaylistID,
		VideoID:    pos.VideoID,
		Seconds:    pos.Seconds,
		Duration:   pos.Duration,
		Finished:   pos.Finished,
		UpdatedAt:  formatTime(pos.UpdatedAt),
	}
	_, err := t.tx.NamedExecContext(t.ctx, `
		INSERT INTO playback_positions (`+positionColumns+`)
		VALUES (:playlist_id, :video_id, :seconds, :duration, :finished, :updated_at)
		ON CONFLICT(playlist_id, video_id) DO UPDATE SET
			seconds = excluded.seconds,
			duration = excluded.duration,
			finished = excluded.finished,
			updated_at = excluded.updated_at`, row)
	if err != nil {
		return fmt.Errorf("save position %s/%s: %w", pos.PlaylistID, pos.VideoID, err)
	}
	return nil
}

func (t *sqlTx) Position(playlistID, videoID string) (catalog.PlaybackPosition, error) {
	var row positionRow
	err := t.tx.GetContext(t.ctx, &row,
		`SELECT `+positionColumns+` FROM playback_positions WHERE playlist_id = ? AND video_id = ?`,
		playlistID, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.PlaybackPosition{}, notFound("playback position", playlistID+"/"+videoID)
	}
	if err != nil {
		return catalog.PlaybackPosition{}, fmt.Errorf("get position: %w", err)
	}
	return row.toPosition(), nil
}
