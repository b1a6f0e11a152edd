package constants

import "strings"

// Format is the document format tag the extractor dispatches on.
type Format string

const (
	PDF   Format = "pdf"
	TXT   Format = "txt"
	CSV   Format = "csv"
	IMAGE Format = "image"
)

// AllowedExtensions holds the extensions accepted for upload.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"txt":  {},
	"csv":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the format for a normalized extension, or "" when unsupported.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TXT
	case "csv":
		return CSV
	case "png", "jpg", "jpeg":
		return IMAGE
	default:
		return ""
	}
}
