package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// mp4Header is the smallest ftyp box that content sniffing recognizes as
// video/mp4.
var mp4Header = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'm', 'p', '4', '1',
}

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	writeWithPrefix(t, path, nil, size)
}

// WriteVideo writes a file that starts with an MP4 header followed by
// padding, so media probing treats it as a video.
func WriteVideo(t testing.TB, path string, size int64) {
	t.Helper()
	writeWithPrefix(t, path, mp4Header, size)
}

func writeWithPrefix(t testing.TB, path string, prefix []byte, size int64) {
	t.Helper()

	if size <= int64(len(prefix)) {
		size = int64(len(prefix)) + 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.Write(prefix); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size - int64(len(prefix))
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}
