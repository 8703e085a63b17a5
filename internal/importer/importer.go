package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"reprise/internal/catalog"
	"reprise/internal/config"
	"reprise/internal/library"
	"reprise/internal/logging"
	"reprise/internal/media"
)

// Importer adds files from disk through a library.Service.
type Importer struct {
	library    *library.Service
	extensions []string
	debounce   time.Duration
	logger     *slog.Logger
}

// New constructs an Importer using cfg.Import.
func New(svc *library.Service, cfg *config.Config, logger *slog.Logger) *Importer {
	return &Importer{
		library:    svc,
		extensions: append([]string(nil), cfg.Import.Extensions...),
		debounce:   time.Duration(cfg.Import.DebounceSeconds) * time.Second,
		logger:     logging.NewComponentLogger(logger, "importer"),
	}
}

// Result summarizes one import pass.
type Result struct {
	Collection catalog.Collection `json:"collection"`
	Added      []catalog.Video    `json:"added"`
	Skipped    []string           `json:"skipped"`
}

// Scan walks dir recursively and returns the video files in it, sorted by
// path. Hidden entries are ignored.
func (im *Importer) Scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", dir)
	}

	var found []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if im.isVideo(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(found)
	return found, nil
}

func (im *Importer) isVideo(path string) bool {
	if !media.HasExtension(path, im.extensions) {
		return false
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	return media.IsVideoMIME(mtype)
}

// Import scans dir and adds every new file to the collection named or
// identified by collectionRef.
func (im *Importer) Import(ctx context.Context, collectionRef, dir string) (Result, error) {
	collection, err := im.library.FindCollection(ctx, collectionRef)
	if err != nil {
		return Result{}, err
	}
	paths, err := im.Scan(dir)
	if err != nil {
		return Result{Collection: collection}, err
	}
	return im.ImportFiles(ctx, collection, paths)
}

// ImportFiles adds paths to collection, skipping files whose base name is
// already a source name in it.
func (im *Importer) ImportFiles(ctx context.Context, collection catalog.Collection, paths []string) (Result, error) {
	result := Result{Collection: collection}
	existing, err := im.library.Videos(ctx, collection.ID)
	if err != nil {
		return result, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		if v.SourceName != "" {
			seen[v.SourceName] = struct{}{}
		}
	}

	var pending []string
	for _, path := range paths {
		base := filepath.Base(path)
		if _, dup := seen[base]; dup {
			result.Skipped = append(result.Skipped, path)
			continue
		}
		seen[base] = struct{}{}
		pending = append(pending, path)
	}
	if len(pending) == 0 {
		return result, nil
	}

	added, err := im.library.AddVideos(ctx, collection.ID, pending)
	result.Added = added
	im.logger.Info("import finished",
		logging.String(logging.FieldCollectionID, collection.ID),
		logging.Int("added", len(added)),
		logging.Int("skipped", len(result.Skipped)),
	)
	return result, err
}
