// Package utils provides helpers for filename sanitization, identifiers and
// path comparison.
//
// Functions:
//   - SanitizeFilename: Returns a safe filename for storage.
//   - GenerateUUID: Returns a new UUID string.
//   - SamePath: Reports whether two paths name the same file, ignoring case.
//   - IsPDFName: Reports whether a filename carries a .pdf extension.
//
// Used by the input list, the merge engine and the HTTP handlers.
package utils

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	safe := unsafeChars.ReplaceAllString(base, "_")
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe
}

func GenerateUUID() string {
	return uuid.New().String()
}

// SamePath compares two paths the way the desktop file system does:
// lexically cleaned and case-insensitive.
func SamePath(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
