// Package process provides the orchestration logic for identifying,
// tagging and organizing audio files.
//
// # Manager
//
// The Manager runs the per-file pipeline over the input directory:
//
//  1. Read a leading byte sample of the file
//  2. Send the sample to the recognition service
//  3. Extract normalized metadata from the response
//  4. Build and sanitize the "{artist} - {title}{ext}" filename
//  5. Write ID3 tags (MP3 only), embedding downloaded cover art
//  6. Move the file to the output directory
//
// Files are processed strictly sequentially, once per run. Per-file
// failures route the file to the failed directory and the run
// continues; a blocked recognition response (HTTP 451) aborts the
// whole run since the remaining calls would fail identically; an
// unreadable input directory is fatal before any file is touched.
//
// # Basic Usage
//
//	manager, err := process.NewManager(settings, func(event process.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = manager.Run(ctx)
//
// # Progress Tracking
//
// Progress is reported via a callback receiving ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The TUI additionally polls GetProgress() for counters.
//
// # Archiver
//
// The Archiver reorganizes the flat output directory into per-artist
// subfolders with collision-safe naming:
//
//	archiver := process.NewArchiver(settings, onProgress)
//	err := archiver.Run()
package process
