package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// PlaceholderAPIKey is the value shipped in a freshly generated config
// file. Processing refuses to start until it is replaced.
const PlaceholderAPIKey = "PASTE_YOUR_API_KEY_HERE"

// Settings holds all configuration options.
type Settings struct {
	// Recognition service settings
	APIKey             string `json:"api_key"`
	APIURL             string `json:"api_url"`
	APIHost            string `json:"api_host"`
	SampleByteSize     int    `json:"sample_byte_size"`
	RecognitionTimeout int    `json:"recognition_timeout_seconds"`

	// File handling
	SupportedFormats []string `json:"supported_formats"`
	InputDir         string   `json:"input_dir"`
	OutputDir        string   `json:"output_dir"`
	FailedDir        string   `json:"failed_dir"`
	ArchiveDir       string   `json:"archive_dir"`

	// Cover art settings. ResizeCoverArt always JPEG-encodes its
	// output, so it implies ConvertCoverArtToJPG; the convert flag
	// matters only when resizing is off.
	CoverArtTimeout      int  `json:"cover_art_timeout_seconds"`
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg"`
	ResizeCoverArt       bool `json:"resize_cover_art"`
	CoverArtMaxSize      int  `json:"cover_art_max_size"`

	// Proxy settings
	UseProxy bool   `json:"use_proxy"`
	ProxyURL string `json:"proxy_url"`

	// Output settings
	Verbose bool `json:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIKey:             PlaceholderAPIKey,
		APIURL:             "https://shazam-song-recognition-api.p.rapidapi.com/recognize/file",
		APIHost:            "shazam-song-recognition-api.p.rapidapi.com",
		SampleByteSize:     700_000,
		RecognitionTimeout: 60,

		SupportedFormats: []string{".mp3", ".m4a", ".wav"},
		InputDir:         "Input",
		OutputDir:        "Output",
		FailedDir:        "Failed",
		ArchiveDir:       "Arranged",

		CoverArtTimeout:      10,
		ConvertCoverArtToJPG: true,
		ResizeCoverArt:       true,
		CoverArtMaxSize:      1000,

		UseProxy: false,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned so a first run
// works without any setup beyond the API key.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks that the settings can actually drive a processing
// run. It is called before any file is touched.
func (s *Settings) Validate() error {
	if s.APIKey == "" || s.APIKey == PlaceholderAPIKey {
		return errors.New("api_key is not set: paste the API key you copied from the RapidAPI website")
	}
	if s.SampleByteSize <= 0 {
		return fmt.Errorf("sample_byte_size must be positive, got %d", s.SampleByteSize)
	}
	if len(s.SupportedFormats) == 0 {
		return errors.New("supported_formats must list at least one extension")
	}
	if s.UseProxy {
		if _, err := url.Parse(s.ProxyURL); err != nil || s.ProxyURL == "" {
			return fmt.Errorf("proxy_url %q is not a valid URL", s.ProxyURL)
		}
	}
	return nil
}

// IsSupported reports whether a filename extension is on the
// processing whitelist. Matching is case-insensitive via the caller
// lowering the extension; stored extensions include the dot.
func (s *Settings) IsSupported(ext string) bool {
	for _, supported := range s.SupportedFormats {
		if ext == supported {
			return true
		}
	}
	return false
}
