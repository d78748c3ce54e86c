// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization
//   - Moving files without ever silently dropping one
//   - Collision-free destination naming
//   - Directory creation
//   - Cover art resizing and JPEG conversion
//
// # Filename Sanitization
//
// SanitizeFileName replaces filesystem-illegal characters with
// underscores and is idempotent:
//
//	safe := ioutils.SanitizeFileName("AC/DC - T.N.T.mp3") // "AC_DC - T.N.T.mp3"
//
// # Moving Files
//
// MoveFile renames atomically on one filesystem and falls back to
// copy-then-remove across filesystems:
//
//	err := ioutils.MoveFile("Input/track.mp3", "Output/Band - Song.mp3")
//
// FreePath finds a destination that will not overwrite anything,
// checking the live filesystem each iteration:
//
//	dst := ioutils.FreePath("Arranged/Artist/Artist - Song.mp3")
//
// # Cover Art
//
// The ImageService normalizes downloaded cover art for embedding:
//
//	svc := ioutils.NewImageService()
//	cover, _ := svc.ResizeImage(raw, 1000, 1000)
package ioutils
