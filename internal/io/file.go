package ioutils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"syscall"
)

// invalidChars is the set of characters illegal in target filesystem
// paths: < > : " / \ | ? *
var invalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFileName replaces characters that are invalid in file names
// with underscores.
//
// Only characters from the illegal set are touched; everything else
// passes through unchanged, which makes the function idempotent. It
// must be applied to the full constructed filename (artist, separator,
// title and extension together), not to the components individually.
//
// Example:
//
//	SanitizeFileName("AC/DC - Back In Black.mp3")
//	// Returns "AC_DC - Back In Black.mp3"
func SanitizeFileName(name string) string {
	return invalidChars.ReplaceAllString(name, "_")
}

// EnsureDir creates a directory and all parent directories if they
// don't exist.
//
// Directories are created with mode 0755. If the directory already
// exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// MoveFile moves a file to a new location.
//
// The primary mechanism is os.Rename, which is atomic-or-nothing on a
// single filesystem: on failure the source is left in place. When the
// rename fails because source and destination are on different
// filesystems, the file is copied and the source removed afterwards.
// A cross-filesystem copy interrupted mid-write can leave a partial
// destination file; that is the accepted, documented edge case of this
// fallback.
//
// Example:
//
//	err := MoveFile("Input/track1.mp3", "Output/Band - Song.mp3")
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if !isCrossDevice(err) {
		return err
	}

	if err := CopyFile(src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// FreePath returns dst if nothing exists there, otherwise the first
// variant with " (N)" appended before the extension that is free.
//
// The check runs against the live filesystem on every iteration, so
// repeated invocations over the same directory keep producing fresh
// names instead of overwriting earlier results.
//
// Example:
//
//	FreePath("Arranged/Artist/Artist - Song.mp3")
//	// Returns "Arranged/Artist/Artist - Song (1).mp3" if the plain
//	// name is already taken.
func FreePath(dst string) string {
	if _, err := os.Stat(dst); os.IsNotExist(err) {
		return dst
	}

	dir := filepath.Dir(dst)
	ext := filepath.Ext(dst)
	base := filepath.Base(dst)
	base = base[:len(base)-len(ext)]

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, counter, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// isCrossDevice reports whether a rename failed because source and
// destination live on different filesystems.
func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
