// Package imagefile names, classifies and post-processes uploaded images.
package imagefile

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode/utf8"
)

// maxBaseNameBytes caps the part of the stored name taken from the upload,
// leaving room for the timestamp and extension under common 255-byte limits.
const maxBaseNameBytes = 200

// mimeTypes is the upload allow-list mapped to the stored file extension.
var mimeTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

var extensionTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
}

// Extension returns the file extension for an allowed MIME type.
func Extension(contentType string) (string, bool) {
	ext, ok := mimeTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// Allowed reports whether contentType is on the upload allow-list.
func Allowed(contentType string) bool {
	_, ok := Extension(contentType)
	return ok
}

// FileName builds the stored name: the original name lower-cased with spaces
// turned into dashes, then the upload time in unix milliseconds, then the
// extension of contentType. Long original names are cut to maxBaseNameBytes.
// It returns an empty string for disallowed types.
func FileName(original, contentType string, now time.Time) string {
	ext, ok := Extension(contentType)
	if !ok {
		return ""
	}

	name := strings.ToLower(original)
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	name = strings.Join(strings.Split(name, " "), "-")
	name = truncate(name, maxBaseNameBytes)

	return fmt.Sprintf("%s-%d.%s", name, now.UnixMilli(), ext)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ContentType returns the MIME type to serve a stored file with.
func ContentType(fileName string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
	if ct, ok := extensionTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
