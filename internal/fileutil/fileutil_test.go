package fileutil

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCopyFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "deeper", "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileVerifiedLeavesNoPartials(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "episode.mp4")
	dstDir := filepath.Join(dir, "media")
	dst := filepath.Join(dstDir, "copy.mp4")

	data := make([]byte, 128*1024)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.WriteFile(src, data, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatalf("CopyFileVerified: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != int64(len(data)) {
		t.Fatalf("size mismatch: %d", info.Size())
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("unexpected mode %v", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dstDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".partial-") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFileVerified(filepath.Join(dir, "missing"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
	if err := CopyFile(dir, filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error when source is a directory")
	}
}

func TestEnsureSpace(t *testing.T) {
	dir := t.TempDir()

	avail, err := AvailableBytes(dir)
	if err != nil {
		t.Fatalf("AvailableBytes: %v", err)
	}
	if avail == 0 {
		t.Skip("temp filesystem reports no free space")
	}
	if err := EnsureSpace(dir, 1, 0); err != nil {
		t.Fatalf("EnsureSpace small: %v", err)
	}
	err = EnsureSpace(dir, math.MaxUint64/2, 0)
	if !errors.Is(err, ErrInsufficientSpace) {
		t.Fatalf("expected ErrInsufficientSpace, got %v", err)
	}
}
