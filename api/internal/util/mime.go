package util

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// extMIME maps lowercase filename extensions to media types for the
// attachment kinds the grader accepts.
var extMIME = map[string]string{
	// Audio
	"m4a":  "audio/mp4",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"webm": "audio/webm",
	"ogg":  "audio/ogg",
	"aac":  "audio/aac",
	// Images
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"heic": "image/heic",
	"heif": "image/heif",
	// Documents
	"pdf": "application/pdf",
	"txt": "text/plain",
}

const fallbackMIME = "image/jpeg"

// ResolveMIME returns the definitive media type for an uploaded file.
// A concrete declared type wins; a missing or generic one is resolved from
// the filename extension. Unknown extensions fall back to image/jpeg.
// Never returns an empty string.
func ResolveMIME(declared, filename string) string {
	d := strings.TrimSpace(declared)
	if d != "" && d != "application/octet-stream" {
		return d
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if m, ok := extMIME[ext]; ok {
		return m
	}
	slog.Warn("unknown file type, using fallback media type", "filename", filename, "fallback", fallbackMIME)
	return fallbackMIME
}
