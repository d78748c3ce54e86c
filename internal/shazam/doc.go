// Package shazam provides the recognition client and the metadata
// extractor for the Shazam song recognition API.
//
// The package handles two steps of the pipeline:
//
//  1. Uploading a leading byte sample of an audio file and classifying
//     the outcome (track payload, blocked, no match, transport error)
//  2. Extracting a normalized metadata record from the loosely
//     structured track payload
//
// # Recognition
//
//	client := shazam.NewClient(httpClient, settings)
//	track, err := client.Recognize(ctx, sample)
//	switch {
//	case errors.Is(err, shazam.ErrBlocked):
//	    // credentials or region problem; abort the batch
//	case errors.Is(err, shazam.ErrNoMatch):
//	    // quarantine this file, continue with the next
//	}
//
// # Extraction
//
//	meta, err := shazam.ExtractMetadata(track)
//	if errors.Is(err, shazam.ErrMetadataIncomplete) {
//	    // no title or artist: the file cannot be renamed
//	}
//
// # Payload Shape
//
// The response is a JSON object whose optional "track" field contains
// title, subtitle, sections[].metadata[].text, genres.primary and
// images.{coverarthq,coverart}. Lookups use gjson paths so that a
// missing key or a short array yields structured absence rather than
// a panic.
package shazam
