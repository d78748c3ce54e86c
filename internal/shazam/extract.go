package shazam

import (
	"errors"

	"github.com/ferrovax/tunetag/internal/model"
	"github.com/tidwall/gjson"
)

// ErrMetadataIncomplete means the track payload is missing its title
// or artist. Those two fields name the output file, so their absence
// fails the file instead of producing a blank name. Signaled
// distinctly from a generic extraction problem.
var ErrMetadataIncomplete = errors.New("recognition result is missing the track title or artist")

// ExtractMetadata maps a raw track payload to a normalized
// TrackMetadata record.
//
// The upstream schema is loosely structured: field presence is not
// guaranteed per track (instrumental tracks, regional catalog gaps),
// and several values live behind positional array indices. Every
// lookup therefore degrades to its documented default instead of
// aborting extraction:
//
//	album  <- sections[0].metadata[0].text  (default "Unknown Album")
//	genre  <- genres.primary                (default "Unknown Genre")
//	year   <- sections[0].metadata[2].text  (default "Unknown Year")
//	cover  <- images.coverarthq, falling back to images.coverart
//
// The identity fields title and subtitle (the artist) have no
// defaults; if either is absent, ErrMetadataIncomplete is returned.
func ExtractMetadata(trackJSON []byte) (*model.TrackMetadata, error) {
	track := gjson.ParseBytes(trackJSON)

	title := track.Get("title").String()
	artist := track.Get("subtitle").String()
	if title == "" || artist == "" {
		return nil, ErrMetadataIncomplete
	}

	cover := track.Get("images.coverarthq").String()
	if cover == "" {
		cover = track.Get("images.coverart").String()
	}

	return &model.TrackMetadata{
		Title:    title,
		Artist:   artist,
		Album:    stringOr(track.Get("sections.0.metadata.0.text"), model.UnknownAlbum),
		Genre:    stringOr(track.Get("genres.primary"), model.UnknownGenre),
		Year:     stringOr(track.Get("sections.0.metadata.2.text"), model.UnknownYear),
		CoverURL: cover,
	}, nil
}

// stringOr returns the result's string value, or fallback when the
// path was absent or empty.
func stringOr(result gjson.Result, fallback string) string {
	if s := result.String(); s != "" {
		return s
	}
	return fallback
}
