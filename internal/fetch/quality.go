package fetch

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality names accepted besides "<height>p"
const (
	QualityBest  = "best"
	QualityAudio = "audio"
)

// audioItag is the m4a audio-only stream YouTube offers for nearly every video
const audioItag = 140

// Quality is a parsed per-request quality choice. The zero value keeps the
// backend's configured format.
type Quality struct {
	Height int    // maximum height for "720p" style values
	Audio  bool   // audio only
	Raw    string // anything else is handed to the backend as a format selector
}

// ParseQuality parses "", "best", "audio", "<height>p" (e.g. "720p") or a raw
// backend format selector
func ParseQuality(s string) Quality {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	switch lower {
	case "", QualityBest:
		return Quality{}
	case QualityAudio:
		return Quality{Audio: true}
	}

	if h, err := strconv.Atoi(strings.TrimSuffix(lower, "p")); err == nil && strings.HasSuffix(lower, "p") && h > 0 {
		return Quality{Height: h}
	}
	return Quality{Raw: s}
}

// IsDefault reports whether the quality leaves the configured format alone
func (q Quality) IsDefault() bool {
	return q == Quality{}
}

func (q Quality) String() string {
	switch {
	case q.Audio:
		return QualityAudio
	case q.Height > 0:
		return fmt.Sprintf("%dp", q.Height)
	case q.Raw != "":
		return q.Raw
	default:
		return QualityBest
	}
}

// librarySelector returns the ytdlp v2 format selector and extension
func (q Quality) librarySelector() (format, ext string) {
	switch {
	case q.Audio:
		return fmt.Sprintf("itag=%d", audioItag), ExtM4A
	case q.Height > 0:
		return fmt.Sprintf("height<=%d", q.Height), ""
	default:
		return q.Raw, ""
	}
}

// cliFormat returns the yt-dlp -f value; audio is handled by extraction
func (q Quality) cliFormat() string {
	switch {
	case q.Height > 0:
		return fmt.Sprintf("best[height<=%d]", q.Height)
	default:
		return q.Raw
	}
}
