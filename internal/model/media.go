package model

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// QualityAudio is offered for every media item
const QualityAudio = "audio"

var heightRe = regexp.MustCompile(`^(\d{3,4})p`)

// MediaFormat describes one format offered by the remote host
type MediaFormat struct {
	Itag     int    `json:"itag,omitempty"`
	FormatID string `json:"format_id,omitempty"`
	Quality  string `json:"quality"`
	MimeType string `json:"mime_type"`
	Ext      string `json:"ext,omitempty"`
	Height   int    `json:"height,omitempty"`
	Bitrate  int    `json:"bitrate,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// MediaInfo is the metadata returned for a URL without downloading it
type MediaInfo struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Author      string        `json:"author,omitempty"`
	DurationSec int           `json:"duration_sec"`
	Duration    string        `json:"duration"`
	Thumbnail   string        `json:"thumbnail,omitempty"`
	Platform    string        `json:"platform"`
	Formats     []MediaFormat `json:"formats"`
	// Qualities lists values accepted as the quality of a download request
	Qualities []string `json:"qualities"`
}

// DisplayTitle returns the title, or the ID when the host reported none
func (m *MediaInfo) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.ID
}

// ParseHeight extracts the height from labels such as "720p" or "1080p60"
func ParseHeight(label string) int {
	m := heightRe.FindStringSubmatch(label)
	if len(m) < 2 {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	return h
}

// QualityOptions returns the distinct heights of formats as "<height>p",
// highest first, followed by QualityAudio
func QualityOptions(formats []MediaFormat) []string {
	seen := make(map[int]bool)
	heights := make([]int, 0, len(formats))
	for _, f := range formats {
		if f.Height <= 0 || seen[f.Height] {
			continue
		}
		seen[f.Height] = true
		heights = append(heights, f.Height)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	options := make([]string, 0, len(heights)+1)
	for _, h := range heights {
		options = append(options, fmt.Sprintf("%dp", h))
	}
	return append(options, QualityAudio)
}
