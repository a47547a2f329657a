// Package store persists decoded images to the local filesystem.
//
// This package contains:
//   - FileSink: encodes an image by destination extension and writes it
//   - Filesystem primitives: Exists, EnsureDir
//   - Filename sanitization for names derived from URLs
//
// # FileSink
//
//	sink := store.NewFileSink()
//	sink.MaxDimension = 1024 // optional downscale before encoding
//	err := sink.Store(img, "images/photo.jpg")
//
// Encoding follows the destination extension: .png and .gif keep their
// format, everything else is written as JPEG with quality 90.
//
// # Directory creation
//
// EnsureDir is idempotent and tolerates concurrent creation from multiple
// workers: creating a folder that already exists is never an error.
package store
