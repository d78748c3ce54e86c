// Package config provides configuration management for tunetag.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Pre-run validation (API key present, proxy URL well-formed)
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Input/Output/Failed/Arranged sibling directories
//	// 700 KB recognition sample
//	// Cover art converted to JPEG and resized to fit 1000x1000
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Validation
//
// Validate() rejects the placeholder API key so a run never burns
// through the input directory with credentials that cannot work:
//
//	if err := settings.Validate(); err != nil {
//	    fmt.Fprintln(os.Stderr, err)
//	    os.Exit(1)
//	}
package config
