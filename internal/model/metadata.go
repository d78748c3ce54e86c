package model

import "fmt"

// Default values used when the recognition service omits a field.
//
// Title and artist have no defaults: they are load-bearing for the
// rename step, and their absence fails the file instead.
const (
	UnknownAlbum  = "Unknown Album"
	UnknownGenre  = "Unknown Genre"
	UnknownYear   = "Unknown Year"
	UnknownArtist = "Unknown Artist"
)

// TrackMetadata is the normalized record extracted from a recognition
// response.
//
// TrackMetadata is created once per file by the extractor, consumed by
// the tag writer and by filename construction, and never persisted.
//
// Example:
//
//	meta := &model.TrackMetadata{Title: "Song", Artist: "Band"}
//	name := meta.FileName(".mp3") // "Band - Song.mp3"
type TrackMetadata struct {
	// Title is the track title (TIT2). Required.
	Title string

	// Artist is the performing artist (TPE1). Required.
	Artist string

	// Album is the album title (TALB). Defaults to UnknownAlbum.
	Album string

	// Genre is the primary genre (TCON). Defaults to UnknownGenre.
	Genre string

	// Year is the release year (TYER). Defaults to UnknownYear.
	Year string

	// CoverURL is the cover art location. Empty means no cover.
	CoverURL string
}

// FileName builds the output filename "{artist} - {title}{ext}".
//
// The result is not yet filesystem-safe; callers sanitize the full
// name so replaced characters cannot straddle the separator.
func (m *TrackMetadata) FileName(ext string) string {
	return fmt.Sprintf("%s - %s%s", m.Artist, m.Title, ext)
}

// HasCover reports whether the recognition response carried a cover
// art URL.
func (m *TrackMetadata) HasCover() bool {
	return m.CoverURL != ""
}
