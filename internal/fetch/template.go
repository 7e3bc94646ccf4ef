package fetch

import (
	"strings"

	"github.com/ytget/yt-webfront/internal/model"
)

// Extension constants
const (
	DefaultExt = "mp4"
	ExtM4A     = "m4a"
	ExtWebM    = "webm"
	Ext3GP     = "3gp"
	ExtMP3     = "mp3"
)

// ExpandTemplate replaces the extension placeholder in template with ext.
// A leading dot on ext is dropped; an empty ext falls back to DefaultExt.
func ExpandTemplate(template, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		ext = DefaultExt
	}
	return strings.ReplaceAll(template, model.ExtPlaceholder, ext)
}

// ExtFromMime returns the file extension (without dot) for a format MIME type
// such as `video/mp4; codecs="avc1.42001E"`. Falls back to the subtype, then
// to DefaultExt.
func ExtFromMime(mimeType string) string {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	switch base {
	case "":
		return DefaultExt
	case "video/mp4":
		return DefaultExt
	case "audio/mp4":
		return ExtM4A
	case "video/webm", "audio/webm":
		return ExtWebM
	case "video/3gpp":
		return Ext3GP
	case "audio/mpeg":
		return ExtMP3
	}

	parts := strings.Split(base, "/")
	if len(parts) == 2 && isSafeExt(parts[1]) {
		return parts[1]
	}
	return DefaultExt
}

// isSafeExt accepts short alphanumeric extensions only
func isSafeExt(ext string) bool {
	if ext == "" || len(ext) > 8 {
		return false
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
