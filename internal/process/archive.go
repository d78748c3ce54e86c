package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ferrovax/tunetag/internal/audio"
	"github.com/ferrovax/tunetag/internal/config"
	ioutils "github.com/ferrovax/tunetag/internal/io"
	"github.com/ferrovax/tunetag/internal/model"
)

// artistSeparator splits "{artist} - {title}" filenames produced by
// the processing pipeline.
const artistSeparator = " - "

// Archiver reorganizes already-processed files from the flat output
// directory into per-artist subfolders.
//
// Example:
//
//	archiver := process.NewArchiver(settings, onProgress)
//	err := archiver.Run()
//	// Output/Band - Song.mp3 -> Arranged/Band/Band - Song.mp3
type Archiver struct {
	settings   *config.Settings
	onProgress func(ProgressEvent)
}

// NewArchiver creates a new Archiver.
func NewArchiver(settings *config.Settings, onProgress func(ProgressEvent)) *Archiver {
	return &Archiver{settings: settings, onProgress: onProgress}
}

// Run moves every tag-capable file in the output directory into a
// subfolder of the archive root named after its artist.
//
// The artist key is the filename text before the first " - "
// separator; files without the separator fall under the
// "Unknown Artist" bucket. Destination collisions never overwrite: a
// " (N)" suffix is appended before the extension, checked against the
// live filesystem, so repeated invocations stay safe.
func (a *Archiver) Run() error {
	if err := ioutils.EnsureDir(a.settings.ArchiveDir); err != nil {
		return fmt.Errorf("create archive directory %q: %w", a.settings.ArchiveDir, err)
	}

	entries, err := os.ReadDir(a.settings.OutputDir)
	if err != nil {
		return fmt.Errorf("cannot read output directory %q: %w", a.settings.OutputDir, err)
	}

	archived := 0
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.ToLower(filepath.Ext(name)) != audio.TagCapableExt {
			continue
		}

		if err := a.archiveFile(name); err != nil {
			a.progress(ProgressEvent{Message: fmt.Sprintf("Failed to archive %s: %v", name, err), Level: LevelError})
			continue
		}
		archived++
	}

	a.progress(ProgressEvent{Message: fmt.Sprintf("Archived %d file(s)", archived), Level: LevelSuccess})
	return nil
}

// archiveFile moves one file into its artist bucket.
func (a *Archiver) archiveFile(name string) error {
	artist := model.UnknownArtist
	if prefix, _, found := strings.Cut(name, artistSeparator); found {
		artist = prefix
	}

	artistDir := filepath.Join(a.settings.ArchiveDir, artist)
	if err := ioutils.EnsureDir(artistDir); err != nil {
		return err
	}

	dst := ioutils.FreePath(filepath.Join(artistDir, name))
	if err := ioutils.MoveFile(filepath.Join(a.settings.OutputDir, name), dst); err != nil {
		return err
	}

	a.progress(ProgressEvent{Message: fmt.Sprintf("Archived: %s -> %s", name, dst), Level: LevelVerbose})
	return nil
}

func (a *Archiver) progress(event ProgressEvent) {
	if a.onProgress != nil {
		a.onProgress(event)
	}
}
