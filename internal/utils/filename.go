// internal/utils/filename.go
package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// SecureFilename reduces a client supplied name to a flat ASCII file name.
// Path separators become underscores, non-ASCII letters are decomposed and
// dropped, and leading/trailing dots and underscores are trimmed. The result
// may be empty.
func SecureFilename(name string) string {
	decomposed := norm.NFKD.String(name)
	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, decomposed)

	ascii = strings.NewReplacer("/", " ", "\\", " ").Replace(ascii)
	ascii = strings.Join(strings.Fields(ascii), "_")
	ascii = unsafeFilenameChars.ReplaceAllString(ascii, "")
	return strings.Trim(ascii, "._")
}

// AllowedImage reports whether name carries a png/jpg/jpeg/gif extension.
func AllowedImage(name string) bool {
	return allowedImageExtensions[strings.ToLower(filepath.Ext(name))]
}
