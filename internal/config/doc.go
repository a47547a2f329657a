// Package config provides configuration management for imgfetch.
//
// This package handles:
//   - Loading settings from JSON or YAML files (chosen by extension)
//   - Overrides from IMGFETCH_* environment variables and a .env file
//   - Default configuration values
//   - Validation before a run starts
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ./images, one worker, five attempts per URL
//
// # Loading from File
//
//	settings, err := config.Load("imgfetch.yaml")
//	// Uses defaults if the file doesn't exist
//
// # Environment Overrides
//
// ApplyEnv loads a .env file when present and then applies any
// IMGFETCH_* variables on top of the loaded settings:
//
//	settings.ApplyEnv()
//	// e.g. IMGFETCH_MAX_WORKERS=8 IMGFETCH_OUTPUT_FOLDER=/data/images
//
// # Validation
//
// Validate rejects configurations that must not start a run: no input
// source, max_workers below one, negative attempt counts or sleep times,
// or an inverted random-sleep range. Callers treat a validation error as
// fatal and exit non-zero.
package config
