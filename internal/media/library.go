package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"reprise/internal/config"
	"reprise/internal/fileutil"
	"reprise/internal/services"
)

// Library owns the managed copies under the media directory.
type Library struct {
	root       string
	verify     bool
	reserve    uint64
	extensions []string
}

// NewLibrary returns a Library configured from cfg.Paths.MediaDir and
// cfg.Import.
func NewLibrary(cfg *config.Config) *Library {
	reserve := uint64(0)
	if cfg.Import.MinFreeMiB > 0 {
		reserve = uint64(cfg.Import.MinFreeMiB) << 20
	}
	return &Library{
		root:       cfg.Paths.MediaDir,
		verify:     cfg.Import.VerifyCopies,
		reserve:    reserve,
		extensions: append([]string(nil), cfg.Import.Extensions...),
	}
}

// Root returns the media directory.
func (l *Library) Root() string {
	return l.root
}

// Accepts reports whether path has one of the configured video extensions.
func (l *Library) Accepts(path string) bool {
	return HasExtension(path, l.extensions)
}

// Store copies info.Path to <root>/<collectionID>/<videoID><ext> and returns
// the destination.
func (l *Library) Store(info Info, collectionID, videoID string) (string, error) {
	if !l.Accepts(info.Path) {
		return "", services.Wrap(services.ErrValidation, "media", "store",
			fmt.Sprintf("extension of %s is not accepted", filepath.Base(info.Path)), ErrUnsupported)
	}
	dir := filepath.Join(l.root, collectionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create collection media dir: %w", err)
	}
	if err := fileutil.EnsureSpace(dir, uint64(info.Size), l.reserve); err != nil {
		return "", services.Wrap(services.ErrConflict, "media", "store", "media directory is full", err)
	}

	dst := filepath.Join(dir, videoID+strings.ToLower(filepath.Ext(info.Path)))
	copyFn := fileutil.CopyFile
	if l.verify {
		copyFn = fileutil.CopyFileVerified
	}
	if err := copyFn(info.Path, dst); err != nil {
		return "", fmt.Errorf("copy %s into library: %w", filepath.Base(info.Path), err)
	}
	return dst, nil
}

// Release removes a managed file. Paths outside the media directory are left
// alone, and a file that is already gone is not an error.
func (l *Library) Release(path string) error {
	if path == "" || !l.owns(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

// ReleaseCollection removes a collection's media folder.
func (l *Library) ReleaseCollection(collectionID string) error {
	if strings.TrimSpace(collectionID) == "" {
		return nil
	}
	dir := filepath.Join(l.root, collectionID)
	if !l.owns(dir) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove collection media: %w", err)
	}
	return nil
}

func (l *Library) owns(path string) bool {
	if l.root == "" {
		return false
	}
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
