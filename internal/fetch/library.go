package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/downloader"
	"github.com/ytget/ytdlp/v2/types"

	"github.com/ytget/yt-webfront/internal/model"
	"github.com/ytget/yt-webfront/internal/platform"
)

// Default values
const (
	DefaultHTTPTimeout = 30 * time.Second
)

// resolver is the part of ytdlp.Downloader used to pick a media URL
type resolver interface {
	ResolveURL(ctx context.Context, videoURL string) (string, *ytdlp.VideoInfo, error)
}

// LibraryOptions configures a LibraryFetcher. Zero values use library defaults.
type LibraryOptions struct {
	Format       string        // format selector, e.g. "best", "itag=22", "height<=480"
	Ext          string        // desired extension used during format selection
	RateLimitBps int64         // 0 disables limiting
	HTTPTimeout  time.Duration // timeout for metadata requests
}

// LibraryFetcher fetches media with github.com/ytget/ytdlp/v2.
type LibraryFetcher struct {
	opts       LibraryOptions
	metaClient *http.Client
	dataClient *http.Client

	newResolver func(format, ext string) resolver
	download    func(ctx context.Context, mediaURL, outputPath string) error
}

// NewLibraryFetcher creates a fetcher backed by the ytdlp library
func NewLibraryFetcher(opts LibraryOptions) *LibraryFetcher {
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = DefaultHTTPTimeout
	}
	if opts.RateLimitBps < 0 {
		opts.RateLimitBps = 0
	}

	f := &LibraryFetcher{
		opts: opts,
		metaClient: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				ForceAttemptHTTP2: false,
				MaxIdleConns:      100,
				IdleConnTimeout:   90 * time.Second,
			},
			Timeout: opts.HTTPTimeout,
		},
		// Media transfers run for as long as the remote host needs
		dataClient: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				ForceAttemptHTTP2: false,
				MaxIdleConns:      100,
				IdleConnTimeout:   90 * time.Second,
			},
		},
	}

	f.newResolver = func(format, ext string) resolver {
		d := ytdlp.New().WithHTTPClient(f.metaClient)
		if format != "" || ext != "" {
			d = d.WithFormat(format, ext)
		}
		return d
	}
	f.download = func(ctx context.Context, mediaURL, outputPath string) error {
		dl := downloader.New(f.dataClient, nil, f.opts.RateLimitBps)
		return dl.Download(ctx, mediaURL, outputPath)
	}
	return f
}

// Fetch resolves the best matching format, expands the output template with
// that format's extension and downloads the media into it
func (f *LibraryFetcher) Fetch(ctx context.Context, req Request) mo.Result[string] {
	format, ext := f.selector(ParseQuality(req.Quality))
	mediaURL, info, err := f.newResolver(format, ext).ResolveURL(ctx, req.URL)
	if err != nil {
		return mo.Err[string](err)
	}
	if info == nil {
		info = &ytdlp.VideoInfo{}
	}

	if chosen, ok := chooseFormat(info, mediaURL); ok {
		ext = ExtFromMime(chosen.MimeType)
	}
	outputPath := ExpandTemplate(req.OutputTemplate, ext)

	logrus.WithFields(logrus.Fields{
		"src":    "library",
		"title":  info.Title,
		"format": format,
		"path":   outputPath,
	}).Debug("Resolved media URL")

	if err := f.download(ctx, mediaURL, outputPath); err != nil {
		return mo.Err[string](fmt.Errorf("download failed: %w", err))
	}
	return mo.Ok(outputPath)
}

// selector returns the format and extension for a request, falling back to
// the configured ones
func (f *LibraryFetcher) selector(q Quality) (format, ext string) {
	if q.IsDefault() {
		return f.opts.Format, f.opts.Ext
	}
	format, ext = q.librarySelector()
	if ext == "" {
		ext = f.opts.Ext
	}
	return format, ext
}

// Inspect returns metadata and available formats for a URL
func (f *LibraryFetcher) Inspect(ctx context.Context, videoURL string) (*model.MediaInfo, error) {
	_, info, err := f.newResolver(f.opts.Format, f.opts.Ext).ResolveURL(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("no metadata returned for %s", videoURL)
	}

	media := &model.MediaInfo{
		ID:          info.ID,
		Title:       info.Title,
		Author:      info.Author,
		DurationSec: info.Duration,
		Duration:    model.FormatDuration(info.Duration),
		Thumbnail:   youtubeThumbnail(info.ID),
		Platform:    platform.DetectPlatform(videoURL),
		Formats:     make([]model.MediaFormat, 0, len(info.Formats)),
	}
	for _, ft := range info.Formats {
		media.Formats = append(media.Formats, model.MediaFormat{
			Itag:     ft.Itag,
			Quality:  ft.Quality,
			MimeType: ft.MimeType,
			Ext:      ExtFromMime(ft.MimeType),
			Height:   model.ParseHeight(ft.Quality),
			Bitrate:  ft.Bitrate,
			Size:     ft.Size,
		})
	}
	media.Qualities = model.QualityOptions(media.Formats)
	return media, nil
}

// youtubeThumbnail returns the static thumbnail URL YouTube serves for a video ID
func youtubeThumbnail(id string) string {
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + url.PathEscape(id) + "/hqdefault.jpg"
}

// chooseFormat finds the format the resolved media URL belongs to by its itag
func chooseFormat(info *ytdlp.VideoInfo, mediaURL string) (types.Format, bool) {
	if info == nil || len(info.Formats) == 0 {
		return types.Format{}, false
	}

	u, err := url.Parse(mediaURL)
	if err != nil {
		return types.Format{}, false
	}
	itag, err := strconv.Atoi(u.Query().Get("itag"))
	if err != nil {
		return types.Format{}, false
	}

	for _, ft := range info.Formats {
		if ft.Itag == itag {
			return ft, true
		}
	}
	return types.Format{}, false
}
