package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"reprise/internal/catalog"
	"reprise/internal/logging"
)

const minWatchTick = 100 * time.Millisecond

// Watch imports existing files from dir and then every video that appears in
// it until ctx is cancelled. A file is imported once it has been quiet for
// the configured debounce period, so partially copied files are not picked
// up mid-write.
func (im *Importer) Watch(ctx context.Context, dir, collectionRef string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}
	collection, err := im.library.FindCollection(ctx, collectionRef)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger := im.logger.With(
		logging.String("dir", dir),
		logging.String(logging.FieldCollectionID, collection.ID),
	)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if existing, err := im.Scan(dir); err != nil {
		logging.WarnWithContext(logger, "initial scan failed", "import_scan_failed", logging.Error(err))
	} else if _, err := im.ImportFiles(ctx, collection, existing); err != nil {
		logging.WarnWithContext(logger, "initial import incomplete", "import_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "some files were not added"),
		)
	}
	logger.Info("watching import directory")

	tick := im.debounce / 2
	if tick < minWatchTick {
		tick = minWatchTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			logger.Info("import watcher stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			logging.WarnWithContext(logger, "file watcher error", "watch_error", logging.Error(err))
		case now := <-ticker.C:
			var ready []string
			for path, last := range pending {
				if now.Sub(last) >= im.debounce {
					ready = append(ready, path)
					delete(pending, path)
				}
			}
			im.importReady(ctx, logger, collection, ready)
		}
	}
}

func (im *Importer) importReady(ctx context.Context, logger *slog.Logger, collection catalog.Collection, paths []string) {
	var videos []string
	for _, path := range paths {
		if im.isVideo(path) {
			videos = append(videos, path)
		} else {
			logger.Debug("ignoring non-video file", logging.String("path", path))
		}
	}
	if len(videos) == 0 {
		return
	}
	sort.Strings(videos)
	if _, err := im.ImportFiles(ctx, collection, videos); err != nil {
		logging.WarnWithContext(logger, "watched import incomplete", "import_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "some files were not added"),
			logging.String(logging.FieldErrorHint, "check the file is a complete video and the media directory has space"),
		)
	}
}
