package utils

import (
	"mime"
	"path/filepath"
	"regexp"
	"strings"
)

const DefaultMimeType = "application/octet-stream"

var dispositionFilename = regexp.MustCompile(`filename="?([^";]+)"?`)

// FilenameFromContentDisposition extracts the filename parameter of a
// Content-Disposition header. Path components are stripped.
func FilenameFromContentDisposition(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return filepath.Base(name), true
		}
	}
	if m := dispositionFilename.FindStringSubmatch(header); m != nil {
		name := strings.TrimSpace(m[1])
		if name != "" {
			return filepath.Base(name), true
		}
	}
	return "", false
}

// ExtensionForMimeType returns the preferred extension (with dot) for a mime
// type, ".bin" when unknown.
func ExtensionForMimeType(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = mimeType
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	for _, ext := range exts {
		// prefer the common short forms
		switch ext {
		case ".txt", ".pdf", ".png", ".json", ".csv", ".jpg", ".zip":
			return ext
		}
	}
	return exts[0]
}

// GuessMimeType infers a mime type from a file name.
func GuessMimeType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return DefaultMimeType
}
