// Package audio provides ID3 tag writing for recognized tracks.
//
// Use the Tagger to write recognition metadata to MP3 files:
//
//	tagger := audio.NewTagger()
//	err := tagger.WriteTags(path, meta, coverBytes)
//
// The tagger writes:
//   - Title, Artist, Album, Genre, Year (only non-empty values)
//   - Cover Art (embedded front-cover APIC frame, image/jpeg)
//
// Only MP3 files are tag-capable (TagCapableExt); other supported
// audio formats are renamed and moved without tag modification.
package audio
