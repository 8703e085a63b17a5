package library

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"reprise/internal/catalog"
	"reprise/internal/logging"
	"reprise/internal/media"
)

// Videos lists videos in catalog order. An empty collectionID lists all.
func (s *Service) Videos(ctx context.Context, collectionID string) ([]catalog.Video, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if collectionID == "" {
		return snap.Videos, nil
	}
	if _, ok := snap.Collection(collectionID); !ok {
		return nil, fmt.Errorf("collection %q: %w", collectionID, catalog.ErrNotFound)
	}
	return snap.CollectionVideos(collectionID), nil
}

// AddVideo probes path, copies it into the media library and appends a new
// video to the collection with the next episode number.
func (s *Service) AddVideo(ctx context.Context, collectionID, path string) (catalog.Video, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return catalog.Video{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := media.Probe(abs)
	if err != nil {
		return catalog.Video{}, err
	}

	// Fail before copying when the collection is unknown.
	if err := s.repo.View(ctx, func(tx catalog.Tx) error {
		_, err := tx.Collection(collectionID)
		return err
	}); err != nil {
		return catalog.Video{}, err
	}

	id := s.newID()
	stored, err := s.media.Store(info, collectionID, id)
	if err != nil {
		return catalog.Video{}, err
	}

	var added catalog.Video
	err = s.repo.Update(ctx, func(tx catalog.Tx) error {
		c, err := tx.Collection(collectionID)
		if err != nil {
			return err
		}
		snap, err := tx.Snapshot()
		if err != nil {
			return err
		}
		episode := 0
		for _, v := range snap.CollectionVideos(collectionID) {
			if v.EpisodeNumber > episode {
				episode = v.EpisodeNumber
			}
		}
		added = catalog.Video{
			ID:            id,
			CollectionID:  collectionID,
			Name:          info.Title,
			Path:          stored,
			SourceName:    filepath.Base(abs),
			EpisodeNumber: episode + 1,
			AddedAt:       s.clock(),
			Status:        catalog.StatusNew,
		}
		if err := tx.PutVideo(added); err != nil {
			return err
		}
		c.TotalVideos++
		return tx.PutCollection(c)
	})
	if err != nil {
		_ = s.media.Release(stored)
		return catalog.Video{}, err
	}

	s.logger.Info("video added",
		logging.String(logging.FieldVideoID, added.ID),
		logging.String(logging.FieldCollectionID, collectionID),
		logging.String("name", added.Name),
		logging.Int("episode", added.EpisodeNumber),
	)
	return added, nil
}

// AddVideos adds each path in order. Failures do not stop the batch; they are
// joined into the returned error next to the videos that were added.
func (s *Service) AddVideos(ctx context.Context, collectionID string, paths []string) ([]catalog.Video, error) {
	var (
		added []catalog.Video
		errs  []error
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		v, err := s.AddVideo(ctx, collectionID, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
			// A missing collection fails every remaining path too.
			if errors.Is(err, catalog.ErrNotFound) {
				break
			}
			continue
		}
		added = append(added, v)
	}
	return added, errors.Join(errs...)
}

// DeleteVideo removes a video, adjusts its collection's counters and releases
// the media file. Playlists referencing it keep their history.
func (s *Service) DeleteVideo(ctx context.Context, id string) error {
	var removed catalog.Video
	err := s.repo.Update(ctx, func(tx catalog.Tx) error {
		v, err := tx.Video(id)
		if err != nil {
			return err
		}
		c, err := tx.Collection(v.CollectionID)
		if err != nil {
			return err
		}
		if err := tx.DeleteVideo(id); err != nil {
			return err
		}
		if c.TotalVideos > 0 {
			c.TotalVideos--
		}
		if v.Status == catalog.StatusCompleted && c.CompletedVideos > 0 {
			c.CompletedVideos--
		}
		removed = v
		return tx.PutCollection(c)
	})
	if err != nil {
		return err
	}

	if err := s.media.Release(removed.Path); err != nil {
		logging.WarnWithContext(s.logger, "failed to release media file", "media_release_failed",
			logging.String(logging.FieldVideoID, id),
			logging.String("path", removed.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "orphaned file left in the media directory"),
		)
	}
	s.logger.Info("video deleted",
		logging.String(logging.FieldVideoID, id),
		logging.String(logging.FieldCollectionID, removed.CollectionID),
	)
	return nil
}
