package audio

import (
	"fmt"

	"github.com/bogem/id3v2"
	"github.com/ferrovax/tunetag/internal/model"
)

// TagCapableExt is the one extension whose tag container this package
// can write. Files of other supported formats bypass tagging and
// proceed straight to rename and move.
const TagCapableExt = ".mp3"

// Tagger writes ID3v2 tags to MP3 files.
//
// Tagger uses the id3v2 library to write the recognition metadata:
//   - Title, Artist, Album, Genre, Year
//   - Cover Art (attached picture, front cover)
//
// Example:
//
//	tagger := audio.NewTagger()
//	err := tagger.WriteTags(path, meta, coverBytes)
//	if err != nil {
//	    // the file must not be promoted to the output directory
//	}
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// WriteTags writes the metadata record into the file's tag container.
//
// This method:
//  1. Opens the file's ID3v2 container, creating one if absent
//  2. Writes each of the five text frames whose metadata value is
//     non-empty
//  3. Embeds cover art as a front-cover APIC frame if bytes are given
//  4. Persists the changes to the file
//
// Parameters:
//   - path: MP3 file to tag
//   - meta: Normalized recognition metadata
//   - cover: JPEG image bytes for cover art (nil to skip)
//
// Returns an error if the container cannot be opened or the changes
// cannot be saved; either failure means the file keeps its original
// location and name.
func (t *Tagger) WriteTags(path string, meta *model.TrackMetadata, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tag container: %w", err)
	}
	defer tag.Close()

	t.writeTextFrames(tag, meta)

	if cover != nil {
		t.writeCover(tag, cover)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}

	return nil
}

// writeTextFrames writes the scalar text frames, skipping empty values.
func (t *Tagger) writeTextFrames(tag *id3v2.Tag, meta *model.TrackMetadata) {
	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Album != "" {
		tag.SetAlbum(meta.Album)
	}
	if meta.Genre != "" {
		tag.SetGenre(meta.Genre)
	}
	if meta.Year != "" {
		tag.AddTextFrame("TYER", id3v2.EncodingUTF8, meta.Year)
	}
}

// writeCover embeds cover art as an attached picture frame.
func (t *Tagger) writeCover(tag *id3v2.Tag, cover []byte) {
	// Replace any cover carried over from the unlabeled file
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     cover,
	}
	tag.AddAttachedPicture(pic)
}
