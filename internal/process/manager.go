package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ferrovax/tunetag/internal/audio"
	"github.com/ferrovax/tunetag/internal/config"
	"github.com/ferrovax/tunetag/internal/http"
	ioutils "github.com/ferrovax/tunetag/internal/io"
	"github.com/ferrovax/tunetag/internal/model"
	"github.com/ferrovax/tunetag/internal/shazam"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a processing progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Recognizer maps an audio sample to a raw track payload. Implemented
// by shazam.Client; tests substitute deterministic fakes.
type Recognizer interface {
	Recognize(ctx context.Context, sample []byte) ([]byte, error)
}

// TagWriter writes a metadata record (plus optional cover bytes) into
// a file's tag container. Implemented by audio.Tagger.
type TagWriter interface {
	WriteTags(path string, meta *model.TrackMetadata, cover []byte) error
}

// CoverFetcher retrieves cover art bytes by URL. Implemented by
// http.Client.
type CoverFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Manager coordinates the per-file processing pipeline over the input
// directory.
//
// Files are processed strictly sequentially: one file is fully
// pipelined (sample, recognize, extract, tag, rename, move) before the
// next begins. Each file is attempted once per run; failures land in
// the failed directory for manual or next-run reprocessing.
type Manager struct {
	settings   *config.Settings
	recognizer Recognizer
	tagger     TagWriter
	covers     CoverFetcher
	images     *ioutils.ImageService

	totalFiles     int32
	processedFiles int32
	succeededFiles int32
	failedFiles    int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new processing Manager wired to the real
// recognition service and tag writer.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) (*Manager, error) {
	proxyURL := ""
	if settings.UseProxy {
		proxyURL = settings.ProxyURL
	}

	httpClient, err := http.NewClient(time.Duration(settings.RecognitionTimeout)*time.Second, proxyURL)
	if err != nil {
		return nil, err
	}

	return &Manager{
		settings:   settings,
		recognizer: shazam.NewClient(httpClient, settings),
		tagger:     audio.NewTagger(),
		covers:     httpClient,
		images:     ioutils.NewImageService(),
		onProgress: onProgress,
	}, nil
}

// Run processes every eligible file in the input directory.
//
// Eligible files are regular files whose extension is on the
// configured whitelist; anything else is never touched. Files are
// handled in deterministic (sorted) enumeration order with per-file
// [index/total] progress.
//
// An unreadable input directory is fatal to the whole run and is
// reported distinctly from per-file failures. A blocked recognition
// response (shazam.ErrBlocked) also aborts the run early: every
// remaining call would fail with the same credentials.
func (m *Manager) Run(ctx context.Context) error {
	for _, dir := range []string{m.settings.OutputDir, m.settings.FailedDir} {
		if err := ioutils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	files, err := m.listEligible()
	if err != nil {
		return fmt.Errorf("cannot read input directory %q: %w", m.settings.InputDir, err)
	}

	if len(files) == 0 {
		m.progress(ProgressEvent{Message: "There are no audio files in the input directory.", Level: LevelInfo})
		return nil
	}

	atomic.StoreInt32(&m.totalFiles, int32(len(files)))

	for i, name := range files {
		m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] Processing: %s", i+1, len(files), name), Level: LevelInfo})

		err := m.processFile(ctx, name)
		switch {
		case errors.Is(err, shazam.ErrBlocked):
			m.progress(ProgressEvent{Message: "Access blocked: " + err.Error(), Level: LevelError})
			return err
		case err != nil:
			atomic.AddInt32(&m.failedFiles, 1)
			m.progress(ProgressEvent{Message: fmt.Sprintf("Failed %s: %v", name, err), Level: LevelError})
		default:
			atomic.AddInt32(&m.succeededFiles, 1)
		}
		atomic.AddInt32(&m.processedFiles, 1)
	}

	processed, succeeded, failed, _ := m.GetProgress()
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Run complete: %d/%d succeeded, %d quarantined", succeeded, processed, failed),
		Level:   LevelSuccess,
	})

	return nil
}

// GetProgress returns current run progress.
func (m *Manager) GetProgress() (processed, succeeded, failed, total int32) {
	return atomic.LoadInt32(&m.processedFiles), atomic.LoadInt32(&m.succeededFiles),
		atomic.LoadInt32(&m.failedFiles), atomic.LoadInt32(&m.totalFiles)
}

// listEligible enumerates the input directory and returns the names of
// regular files with whitelisted extensions, in sorted order.
func (m *Manager) listEligible() ([]string, error) {
	entries, err := os.ReadDir(m.settings.InputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if m.settings.IsSupported(strings.ToLower(filepath.Ext(entry.Name()))) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// processFile runs the pipeline for a single input file: sample,
// recognize, extract, tag, rename, move.
//
// Any per-file failure routes the file to the failed directory, with
// two exceptions: a blocked recognition response is returned untouched
// for the caller to abort on, and a file whose quarantine move itself
// fails stays at its current location with the error reported.
func (m *Manager) processFile(ctx context.Context, name string) error {
	src := filepath.Join(m.settings.InputDir, name)
	ext := strings.ToLower(filepath.Ext(name))

	sample, err := m.readSample(src)
	if err != nil {
		m.quarantine(src)
		return fmt.Errorf("read sample: %w", err)
	}

	track, err := m.recognizer.Recognize(ctx, sample)
	if err != nil {
		if errors.Is(err, shazam.ErrBlocked) {
			return err
		}
		m.quarantine(src)
		return err
	}

	meta, err := shazam.ExtractMetadata(track)
	if err != nil {
		m.quarantine(src)
		return err
	}

	dstName := ioutils.SanitizeFileName(meta.FileName(ext))
	// Two inputs can resolve to the same track; the later one must not
	// overwrite the earlier one's output file.
	dst := ioutils.FreePath(filepath.Join(m.settings.OutputDir, dstName))

	// Tagging applies only to the tag-capable format; other supported
	// formats go straight to rename and move.
	if ext == audio.TagCapableExt {
		var cover []byte
		if meta.HasCover() {
			cover = m.fetchCover(ctx, meta.CoverURL)
		}
		if err := m.tagger.WriteTags(src, meta, cover); err != nil {
			m.quarantine(src)
			return err
		}
	}

	if err := ioutils.MoveFile(src, dst); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not move %s to the output directory: %v", name, err), Level: LevelError})
		m.quarantine(src)
		return fmt.Errorf("move to output: %w", err)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Processed: %s -> %s", name, dstName), Level: LevelSuccess})
	return nil
}

// readSample reads the leading sample bytes used for fingerprinting.
func (m *Manager) readSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, int64(m.settings.SampleByteSize)))
}

// fetchCover downloads and normalizes cover art.
//
// A missing cover is cosmetic while a missing title or artist is not,
// so every failure here is a warning and processing continues without
// the image.
func (m *Manager) fetchCover(ctx context.Context, url string) []byte {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(m.settings.CoverArtTimeout)*time.Second)
	defer cancel()

	cover, err := m.covers.Get(ctx, url)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download cover image: %v", err), Level: LevelWarning})
		return nil
	}

	// Resized output is already JPEG-encoded, so the conversion step
	// only applies when resizing is off.
	if m.settings.ResizeCoverArt {
		cover, err = m.images.ResizeImage(cover, m.settings.CoverArtMaxSize, m.settings.CoverArtMaxSize)
	} else if m.settings.ConvertCoverArtToJPG {
		cover, err = m.images.ConvertToJPEG(cover)
	}
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Cover image is not a usable image: %v", err), Level: LevelWarning})
		return nil
	}

	return cover
}

// quarantine moves a file to the failed directory for manual review.
//
// A quarantine failure is reported and the file stays where it is;
// files are never deleted and never silently lost.
func (m *Manager) quarantine(src string) {
	dst := filepath.Join(m.settings.FailedDir, filepath.Base(src))
	if err := ioutils.MoveFile(src, dst); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Could not quarantine %s, file left in place: %v", src, err), Level: LevelError})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Moved to failed directory: %s", filepath.Base(src)), Level: LevelWarning})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
