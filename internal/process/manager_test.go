package process

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ferrovax/tunetag/internal/config"
	ioutils "github.com/ferrovax/tunetag/internal/io"
	"github.com/ferrovax/tunetag/internal/model"
	"github.com/ferrovax/tunetag/internal/shazam"
)

const fullTrackPayload = `{
	"title": "Song", "subtitle": "Band",
	"sections": [{"metadata": [{"text": "Album"}, {}, {"text": "2020"}]}],
	"genres": {"primary": "Rock"},
	"images": {"coverarthq": "http://x/y.jpg"}
}`

type fakeRecognizer struct {
	payload []byte
	err     error
	calls   int
}

func (f *fakeRecognizer) Recognize(_ context.Context, _ []byte) ([]byte, error) {
	f.calls++
	return f.payload, f.err
}

type tagCall struct {
	path  string
	meta  *model.TrackMetadata
	cover []byte
}

type fakeTagger struct {
	err   error
	calls []tagCall
}

func (f *fakeTagger) WriteTags(path string, meta *model.TrackMetadata, cover []byte) error {
	f.calls = append(f.calls, tagCall{path: path, meta: meta, cover: cover})
	return f.err
}

type fakeCovers struct {
	data []byte
	err  error
}

func (f *fakeCovers) Get(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	root := t.TempDir()

	settings := config.DefaultSettings()
	settings.InputDir = filepath.Join(root, "Input")
	settings.OutputDir = filepath.Join(root, "Output")
	settings.FailedDir = filepath.Join(root, "Failed")
	settings.ArchiveDir = filepath.Join(root, "Arranged")
	// Embed fetched cover bytes verbatim so fakes need no real images
	settings.ConvertCoverArtToJPG = false
	settings.ResizeCoverArt = false

	if err := os.MkdirAll(settings.InputDir, 0755); err != nil {
		t.Fatal(err)
	}
	return settings
}

func newTestManager(settings *config.Settings, recognizer Recognizer, tagger TagWriter, covers CoverFetcher) *Manager {
	return &Manager{
		settings:   settings,
		recognizer: recognizer,
		tagger:     tagger,
		covers:     covers,
		images:     ioutils.NewImageService(),
	}
}

func addInputFile(t *testing.T, settings *config.Settings, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(settings.InputDir, name), []byte("audio-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestManager_Run_Success(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")

	tagger := &fakeTagger{}
	cover := []byte("jpeg-bytes")
	m := newTestManager(settings, &fakeRecognizer{payload: []byte(fullTrackPayload)}, tagger, &fakeCovers{data: cover})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(settings.OutputDir, "Band - Song.mp3")); err != nil {
		t.Errorf("expected output file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(settings.InputDir, "track1.mp3")); !os.IsNotExist(err) {
		t.Error("input file should be gone")
	}

	if len(tagger.calls) != 1 {
		t.Fatalf("tagger called %d times, want 1", len(tagger.calls))
	}
	call := tagger.calls[0]
	if call.meta.Title != "Song" || call.meta.Artist != "Band" || call.meta.Album != "Album" ||
		call.meta.Genre != "Rock" || call.meta.Year != "2020" {
		t.Errorf("unexpected metadata: %+v", call.meta)
	}
	if string(call.cover) != string(cover) {
		t.Error("cover bytes not passed to tagger")
	}
	// Tags are written before the move, while the file is still in place
	if call.path != filepath.Join(settings.InputDir, "track1.mp3") {
		t.Errorf("tagged path = %q", call.path)
	}

	processed, succeeded, failed, total := m.GetProgress()
	if processed != 1 || succeeded != 1 || failed != 0 || total != 1 {
		t.Errorf("progress = %d/%d/%d/%d", processed, succeeded, failed, total)
	}
}

func TestManager_Run_SanitizesFullFilename(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")

	payload := `{"title": "Song: Reprise", "subtitle": "AC/DC", "sections": [{}]}`
	m := newTestManager(settings, &fakeRecognizer{payload: []byte(payload)}, &fakeTagger{}, &fakeCovers{})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(settings.OutputDir, "AC_DC - Song_ Reprise.mp3")); err != nil {
		t.Errorf("expected sanitized output name: %v", err)
	}
}

func TestManager_Run_NoMatchQuarantines(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")

	m := newTestManager(settings, &fakeRecognizer{err: shazam.ErrNoMatch}, &fakeTagger{}, &fakeCovers{})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("no-match must not abort the batch: %v", err)
	}

	if _, err := os.Stat(filepath.Join(settings.FailedDir, "track1.mp3")); err != nil {
		t.Errorf("expected quarantined file: %v", err)
	}

	_, _, failed, _ := m.GetProgress()
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestManager_Run_BlockedAbortsBatch(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "a.mp3")
	addInputFile(t, settings, "b.mp3")

	recognizer := &fakeRecognizer{err: shazam.ErrBlocked}
	m := newTestManager(settings, recognizer, &fakeTagger{}, &fakeCovers{})

	err := m.Run(context.Background())
	if !errors.Is(err, shazam.ErrBlocked) {
		t.Fatalf("error = %v, want ErrBlocked", err)
	}

	// Abort early: the doomed credentials are not retried on file two
	if recognizer.calls != 1 {
		t.Errorf("recognizer called %d times, want 1", recognizer.calls)
	}

	// Blocked files are a credentials problem, not a file problem:
	// nothing is quarantined and both stay in the input directory
	for _, name := range []string{"a.mp3", "b.mp3"} {
		if _, err := os.Stat(filepath.Join(settings.InputDir, name)); err != nil {
			t.Errorf("%s should remain in input: %v", name, err)
		}
	}
}

func TestManager_Run_IncompleteMetadataQuarantines(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")

	payload := `{"sections": [{"metadata": []}]}` // no title, no subtitle
	m := newTestManager(settings, &fakeRecognizer{payload: []byte(payload)}, &fakeTagger{}, &fakeCovers{})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(settings.FailedDir, "track1.mp3")); err != nil {
		t.Errorf("expected quarantined file: %v", err)
	}
}

func TestManager_Run_TagWriteFailureBlocksPromotion(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")

	tagger := &fakeTagger{err: errors.New("container corrupt")}
	m := newTestManager(settings, &fakeRecognizer{payload: []byte(fullTrackPayload)}, tagger, &fakeCovers{data: []byte("img")})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(settings.OutputDir, "Band - Song.mp3")); !os.IsNotExist(err) {
		t.Error("tag-write failure must not promote the file to output")
	}
	if _, err := os.Stat(filepath.Join(settings.FailedDir, "track1.mp3")); err != nil {
		t.Errorf("expected quarantined file: %v", err)
	}
}

func TestManager_Run_NonTagCapableBypassesTagging(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.wav")

	tagger := &fakeTagger{}
	m := newTestManager(settings, &fakeRecognizer{payload: []byte(fullTrackPayload)}, tagger, &fakeCovers{})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(tagger.calls) != 0 {
		t.Errorf("tagger called %d times for a non-MP3, want 0", len(tagger.calls))
	}
	if _, err := os.Stat(filepath.Join(settings.OutputDir, "Band - Song.wav")); err != nil {
		t.Errorf("expected renamed wav in output: %v", err)
	}
}

func TestManager_Run_CoverFetchFailureIsNonFatal(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")

	tagger := &fakeTagger{}
	m := newTestManager(settings, &fakeRecognizer{payload: []byte(fullTrackPayload)}, tagger, &fakeCovers{err: errors.New("connection refused")})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(tagger.calls) != 1 {
		t.Fatalf("tagger called %d times, want 1", len(tagger.calls))
	}
	if tagger.calls[0].cover != nil {
		t.Error("cover should be nil after a failed fetch")
	}
	if _, err := os.Stat(filepath.Join(settings.OutputDir, "Band - Song.mp3")); err != nil {
		t.Errorf("file should still be processed without cover: %v", err)
	}
}

func TestManager_Run_EmptyInputDir(t *testing.T) {
	settings := testSettings(t)

	m := newTestManager(settings, &fakeRecognizer{}, &fakeTagger{}, &fakeCovers{})
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("an empty input directory is not an error: %v", err)
	}

	_, _, _, total := m.GetProgress()
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestManager_Run_MissingInputDirIsFatal(t *testing.T) {
	settings := testSettings(t)
	settings.InputDir = filepath.Join(settings.InputDir, "does-not-exist")

	m := newTestManager(settings, &fakeRecognizer{}, &fakeTagger{}, &fakeCovers{})
	if err := m.Run(context.Background()); err == nil {
		t.Fatal("expected enumeration error for missing input directory")
	}
}

func TestManager_Run_IgnoresUnsupportedExtensions(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "notes.txt")

	m := newTestManager(settings, &fakeRecognizer{payload: []byte(fullTrackPayload)}, &fakeTagger{}, &fakeCovers{})
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(settings.InputDir, "notes.txt")); err != nil {
		t.Errorf("unsupported file must never be touched: %v", err)
	}
}

func TestManager_Run_RerunIsIdempotent(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")

	recognizer := &fakeRecognizer{payload: []byte(fullTrackPayload)}
	m := newTestManager(settings, recognizer, &fakeTagger{}, &fakeCovers{})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	// Second run: the processed file has left the input directory and
	// must not be re-recognized or duplicated
	m2 := newTestManager(settings, recognizer, &fakeTagger{}, &fakeCovers{})
	if err := m2.Run(context.Background()); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if recognizer.calls != 1 {
		t.Errorf("recognizer called %d times across reruns, want 1", recognizer.calls)
	}

	entries, err := os.ReadDir(settings.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output holds %d files, want 1", len(entries))
	}
}

func TestManager_ProcessFile_SampleReadFailure(t *testing.T) {
	settings := testSettings(t)
	if err := os.MkdirAll(settings.FailedDir, 0755); err != nil {
		t.Fatal(err)
	}

	recognizer := &fakeRecognizer{payload: []byte(fullTrackPayload)}
	m := newTestManager(settings, recognizer, &fakeTagger{}, &fakeCovers{})

	err := m.processFile(context.Background(), "vanished.mp3")
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
	if !strings.Contains(err.Error(), "read sample") {
		t.Errorf("error = %v, want a sample-read failure", err)
	}
	if recognizer.calls != 0 {
		t.Errorf("recognizer called %d times before a sample existed, want 0", recognizer.calls)
	}
}

func TestManager_ProcessFile_QuarantineFailureReportedAndFileLeftInPlace(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")

	// Occupy the failed directory's path with a regular file so the
	// quarantine move cannot succeed
	if err := os.WriteFile(settings.FailedDir, []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newTestManager(settings, &fakeRecognizer{err: shazam.ErrNoMatch}, &fakeTagger{}, &fakeCovers{})
	var events []ProgressEvent
	m.onProgress = func(event ProgressEvent) { events = append(events, event) }

	err := m.processFile(context.Background(), "track1.mp3")
	if !errors.Is(err, shazam.ErrNoMatch) {
		t.Fatalf("error = %v, want ErrNoMatch", err)
	}

	// The file is never lost: it stays at its current location
	if _, err := os.Stat(filepath.Join(settings.InputDir, "track1.mp3")); err != nil {
		t.Errorf("file should be left in place: %v", err)
	}

	// The quarantine failure is reported, never swallowed
	found := false
	for _, event := range events {
		if event.Level == LevelError && strings.Contains(event.Message, "Could not quarantine") {
			found = true
		}
	}
	if !found {
		t.Errorf("no quarantine-failure error event emitted, got %+v", events)
	}
}

func TestManager_ProcessFile_OutputMoveFailureQuarantines(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "track1.mp3")
	if err := os.MkdirAll(settings.FailedDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Occupy the output directory's path with a regular file so the
	// promotion move cannot succeed
	if err := os.WriteFile(settings.OutputDir, []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}

	m := newTestManager(settings, &fakeRecognizer{payload: []byte(fullTrackPayload)}, &fakeTagger{}, &fakeCovers{})
	var events []ProgressEvent
	m.onProgress = func(event ProgressEvent) { events = append(events, event) }

	err := m.processFile(context.Background(), "track1.mp3")
	if err == nil || !strings.Contains(err.Error(), "move to output") {
		t.Fatalf("error = %v, want a move-to-output failure", err)
	}

	if _, err := os.Stat(filepath.Join(settings.FailedDir, "track1.mp3")); err != nil {
		t.Errorf("expected quarantined file after failed promotion: %v", err)
	}

	found := false
	for _, event := range events {
		if event.Level == LevelError && strings.Contains(event.Message, "Could not move") {
			found = true
		}
	}
	if !found {
		t.Errorf("no move-failure error event emitted, got %+v", events)
	}
}

func TestManager_Run_DuplicateRecognitionDoesNotOverwrite(t *testing.T) {
	settings := testSettings(t)
	addInputFile(t, settings, "a.mp3")
	addInputFile(t, settings, "b.mp3")

	// Both inputs resolve to the same track and therefore the same
	// output name
	m := newTestManager(settings, &fakeRecognizer{payload: []byte(fullTrackPayload)}, &fakeTagger{}, &fakeCovers{})

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, name := range []string{"Band - Song.mp3", "Band - Song (1).mp3"} {
		if _, err := os.Stat(filepath.Join(settings.OutputDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestManager_FetchCover_NormalizesToJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	source := buf.Bytes()

	tests := []struct {
		name    string
		resize  bool
		convert bool
	}{
		{name: "convert only", convert: true},
		{name: "resize also encodes jpeg", resize: true},
		{name: "resize with convert set", resize: true, convert: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings(t)
			settings.ResizeCoverArt = tt.resize
			settings.ConvertCoverArtToJPG = tt.convert
			settings.CoverArtMaxSize = 4

			m := newTestManager(settings, &fakeRecognizer{}, &fakeTagger{}, &fakeCovers{data: source})

			cover := m.fetchCover(context.Background(), "http://x/y.png")
			if len(cover) < 2 || cover[0] != 0xff || cover[1] != 0xd8 {
				t.Errorf("cover is not JPEG-encoded, starts with % x", cover[:min(len(cover), 4)])
			}
		})
	}
}
