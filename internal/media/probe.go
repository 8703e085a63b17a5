package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gabriel-vasile/mimetype"

	"reprise/internal/services"
)

// ErrUnsupported reports a file that is not a playable video.
var ErrUnsupported = errors.New("unsupported media file")

// Info describes a probed source file.
type Info struct {
	Path  string
	MIME  string
	Size  int64
	Title string
	Track int
}

// HasExtension reports whether path ends in one of extensions. Extensions are
// expected in normalized ".ext" lowercase form.
func HasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// IsVideoMIME reports whether m or one of its parents is a video type.
func IsVideoMIME(m *mimetype.MIME) bool {
	for cur := m; cur != nil; cur = cur.Parent() {
		if strings.HasPrefix(cur.String(), "video/") {
			return true
		}
	}
	return false
}

// Probe inspects path. Files whose content is not a video fail with an error
// classified as validation and wrapping ErrUnsupported.
func Probe(path string) (Info, error) {
	stat, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Info{}, services.Wrap(services.ErrNotFound, "media", "probe", path, err)
	}
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return Info{}, services.Wrap(services.ErrValidation, "media", "probe", path+" is a directory", ErrUnsupported)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("detect media type of %s: %w", path, err)
	}
	if !IsVideoMIME(mtype) {
		return Info{}, services.Wrap(services.ErrValidation, "media", "probe",
			fmt.Sprintf("%s has type %s", filepath.Base(path), mtype.String()), ErrUnsupported)
	}

	info := Info{
		Path: path,
		MIME: mtype.String(),
		Size: stat.Size(),
	}
	info.Title, info.Track = readTags(path)
	if info.Title == "" {
		info.Title = TitleFromFilename(path)
	}
	return info, nil
}

// readTags returns the embedded title and track number when present. Missing
// or unreadable tags are not an error.
func readTags(path string) (string, int) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", 0
	}
	track, _ := meta.Track()
	return strings.TrimSpace(meta.Title()), track
}
