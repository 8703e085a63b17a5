package library

import (
	"context"
	"fmt"
	"strings"

	"reprise/internal/catalog"
	"reprise/internal/logging"
)

// CollectionSpec describes a collection to create.
type CollectionSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// CollectionPatch holds optional edits. Nil fields are left unchanged.
type CollectionPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Active      *bool   `json:"active"`
}

// Collections lists every collection in creation order.
func (s *Service) Collections(ctx context.Context) ([]catalog.Collection, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Collections, nil
}

// FindCollection resolves ref as an ID first and then as a case-insensitive
// name.
func (s *Service) FindCollection(ctx context.Context, ref string) (catalog.Collection, error) {
	ref = strings.TrimSpace(ref)
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return catalog.Collection{}, err
	}
	if c, ok := snap.Collection(ref); ok {
		return c, nil
	}
	for _, c := range snap.Collections {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return catalog.Collection{}, fmt.Errorf("collection %q: %w", ref, catalog.ErrNotFound)
}

// CreateCollection adds an active, empty collection. Names are unique
// ignoring case. Without an explicit color one is picked from Palette.
func (s *Service) CreateCollection(ctx context.Context, spec CollectionSpec) (catalog.Collection, error) {
	name := cleanName(spec.Name)
	if name == "" {
		return catalog.Collection{}, validationError("create collection", "name is required")
	}

	var created catalog.Collection
	err := s.repo.Update(ctx, func(tx catalog.Tx) error {
		snap, err := tx.Snapshot()
		if err != nil {
			return err
		}
		if nameTaken(snap, name, "") {
			return conflictError("create collection", fmt.Sprintf("collection %q already exists", name))
		}
		color := strings.TrimSpace(spec.Color)
		if color == "" {
			color = Palette[len(snap.Collections)%len(Palette)]
		}
		created = catalog.Collection{
			ID:          s.newID(),
			Name:        name,
			Description: strings.TrimSpace(spec.Description),
			Color:       color,
			CreatedAt:   s.clock(),
			Active:      true,
		}
		return tx.PutCollection(created)
	})
	if err != nil {
		return catalog.Collection{}, err
	}
	s.logger.Info("collection created",
		logging.String(logging.FieldCollectionID, created.ID),
		logging.String("name", created.Name),
	)
	return created, nil
}

// UpdateCollection applies patch to the collection with id.
func (s *Service) UpdateCollection(ctx context.Context, id string, patch CollectionPatch) (catalog.Collection, error) {
	var updated catalog.Collection
	err := s.repo.Update(ctx, func(tx catalog.Tx) error {
		c, err := tx.Collection(id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			name := cleanName(*patch.Name)
			if name == "" {
				return validationError("update collection", "name cannot be empty")
			}
			snap, err := tx.Snapshot()
			if err != nil {
				return err
			}
			if nameTaken(snap, name, id) {
				return conflictError("update collection", fmt.Sprintf("collection %q already exists", name))
			}
			c.Name = name
		}
		if patch.Description != nil {
			c.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Color != nil {
			c.Color = strings.TrimSpace(*patch.Color)
		}
		if patch.Active != nil {
			c.Active = *patch.Active
		}
		updated = c
		return tx.PutCollection(c)
	})
	if err != nil {
		return catalog.Collection{}, err
	}
	return updated, nil
}

// ToggleCollection flips the active flag. Inactive collections keep their
// videos and progress but drop out of scheduling.
func (s *Service) ToggleCollection(ctx context.Context, id string) (catalog.Collection, error) {
	var toggled catalog.Collection
	err := s.repo.Update(ctx, func(tx catalog.Tx) error {
		c, err := tx.Collection(id)
		if err != nil {
			return err
		}
		c.Active = !c.Active
		toggled = c
		return tx.PutCollection(c)
	})
	if err != nil {
		return catalog.Collection{}, err
	}
	s.logger.Info("collection toggled",
		logging.String(logging.FieldCollectionID, id),
		logging.Bool("active", toggled.Active),
	)
	return toggled, nil
}

// DeleteCollection removes the collection, its videos and their media files.
// Playlist history is kept.
func (s *Service) DeleteCollection(ctx context.Context, id string) error {
	var paths []string
	err := s.repo.Update(ctx, func(tx catalog.Tx) error {
		paths = nil
		snap, err := tx.Snapshot()
		if err != nil {
			return err
		}
		if _, ok := snap.Collection(id); !ok {
			return fmt.Errorf("collection %q: %w", id, catalog.ErrNotFound)
		}
		for _, v := range snap.CollectionVideos(id) {
			paths = append(paths, v.Path)
		}
		return tx.DeleteCollection(id)
	})
	if err != nil {
		return err
	}

	logger := s.logger.With(logging.String(logging.FieldCollectionID, id))
	for _, path := range paths {
		if err := s.media.Release(path); err != nil {
			logging.WarnWithContext(logger, "failed to release media file", "media_release_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "orphaned file left in the media directory"),
				logging.String(logging.FieldErrorHint, "remove the file manually"),
			)
		}
	}
	if err := s.media.ReleaseCollection(id); err != nil {
		logging.WarnWithContext(logger, "failed to remove collection media directory", "media_release_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "empty directory left in the media directory"),
		)
	}
	logger.Info("collection deleted", logging.Int("videos", len(paths)))
	return nil
}
