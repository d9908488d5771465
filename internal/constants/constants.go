// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// File upload constants
const (
	// MaxUploadSize is the maximum multipart form size in bytes (100MB)
	MaxUploadSize = 100 << 20

	// UploadNamePrefixLen is the number of uuid characters prefixed to stored upload names
	UploadNamePrefixLen = 8
)

// Session constants
const (
	// MaxFaceShapeLen is the longest face shape name accepted, in bytes
	MaxFaceShapeLen = 64
)

// Image constants
const (
	// ThumbnailSize is the longest side of generated previews in pixels
	ThumbnailSize = 256
)

// Processing constants
const (
	// DefaultConcurrency is the default number of parallel classification workers
	DefaultConcurrency = 4
)
