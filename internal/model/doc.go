// Package model defines the core data structures used throughout
// the tunetag application.
//
// # TrackMetadata
//
// TrackMetadata is the normalized record produced by the recognition
// extractor and consumed by the tag writer and the rename step:
//
//	meta := &model.TrackMetadata{
//	    Title:  "Song",
//	    Artist: "Band",
//	    Album:  model.UnknownAlbum,
//	}
//	fmt.Println(meta.FileName(".mp3")) // "Band - Song.mp3"
//
// Fields the recognition service may omit (album, genre, year) carry
// the documented "Unknown ..." defaults. Title and artist have no
// defaults; extraction fails the file when either is missing.
package model
