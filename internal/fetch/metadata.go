package fetch

import (
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/ytget/yt-webfront/internal/model"
	"github.com/ytget/yt-webfront/internal/platform"
)

// mediaInfoFromJSON maps a yt-dlp info JSON document to MediaInfo
func mediaInfoFromJSON(raw, url string) *model.MediaInfo {
	doc := gjson.Parse(raw)

	duration := int(doc.Get("duration").Float())
	media := &model.MediaInfo{
		ID:          doc.Get("id").String(),
		Title:       doc.Get("title").String(),
		Author:      firstString(doc, "uploader", "channel", "creator"),
		DurationSec: duration,
		Duration:    model.FormatDuration(duration),
		Thumbnail:   firstString(doc, "thumbnail", "thumbnails.0.url"),
		Platform:    platform.DetectPlatform(url),
	}

	formats := doc.Get("formats").Array()
	media.Formats = make([]model.MediaFormat, 0, len(formats))
	for _, f := range formats {
		media.Formats = append(media.Formats, formatFromJSON(f))
	}
	media.Qualities = model.QualityOptions(media.Formats)
	return media
}

// filenameFromJSON returns the output file name yt-dlp reported, or ""
func filenameFromJSON(raw string) string {
	if raw == "" {
		return ""
	}
	return firstString(gjson.Parse(raw), "filename", "_filename")
}

func formatFromJSON(f gjson.Result) model.MediaFormat {
	id := f.Get("format_id").String()
	itag, _ := strconv.Atoi(id)
	ext := f.Get("ext").String()

	size := f.Get("filesize").Int()
	if size == 0 {
		size = f.Get("filesize_approx").Int()
	}

	return model.MediaFormat{
		Itag:     itag,
		FormatID: id,
		Quality:  firstString(f, "format_note", "resolution"),
		MimeType: mimeFromJSON(f, ext),
		Ext:      ext,
		Height:   videoHeight(f),
		Bitrate:  int(f.Get("tbr").Float() * 1000),
		Size:     size,
	}
}

// videoHeight returns the height of formats carrying video, 0 for audio only
func videoHeight(f gjson.Result) int {
	if f.Get("vcodec").String() == "none" {
		return 0
	}
	return int(f.Get("height").Int())
}

// mimeFromJSON builds a MIME type from the extension and whether the format
// carries video
func mimeFromJSON(f gjson.Result, ext string) string {
	if ext == "" {
		return ""
	}
	kind := "video"
	if f.Get("vcodec").String() == "none" {
		kind = "audio"
	}
	if ext == ExtM4A {
		return "audio/mp4"
	}
	return kind + "/" + ext
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := doc.Get(p).String(); v != "" {
			return v
		}
	}
	return ""
}
