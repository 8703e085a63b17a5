package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrInsufficientSpace reports that a destination filesystem is too full.
var ErrInsufficientSpace = errors.New("insufficient free space")

// CopyFile streams src to dst, creating parent directories as needed. The
// data lands in a temporary sibling first and is renamed into place, so dst
// never holds a partial file.
func CopyFile(src, dst string) error {
	return copyAtomic(src, dst, false)
}

// CopyFileVerified is CopyFile plus size and SHA-256 verification of the
// bytes written. The temporary file is removed on mismatch.
func CopyFileVerified(src, dst string) error {
	return copyAtomic(src, dst, true)
}

func copyAtomic(src, dst string, verify bool) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("source %q is a directory", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".partial-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	var reader io.Reader = in
	var writer io.Writer = tmp
	if verify {
		reader = io.TeeReader(in, srcHasher)
		writer = io.MultiWriter(tmp, dstHasher)
	}

	written, err := io.Copy(writer, reader)
	if err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if verify {
		if written != srcInfo.Size() {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
		}
		if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("copy hash mismatch: file corrupted during copy")
		}
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// AvailableBytes returns the space available to unprivileged users on the
// filesystem holding dir.
func AvailableBytes(dir string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", dir, err)
	}
	return st.Bavail * uint64(st.Bsize), nil
}

// EnsureSpace fails with ErrInsufficientSpace unless dir's filesystem can hold
// need bytes and still keep reserve bytes free.
func EnsureSpace(dir string, need, reserve uint64) error {
	avail, err := AvailableBytes(dir)
	if err != nil {
		return err
	}
	if avail < need+reserve {
		return fmt.Errorf("%w: %s has %d bytes available, need %d plus %d reserved", ErrInsufficientSpace, dir, avail, need, reserve)
	}
	return nil
}
