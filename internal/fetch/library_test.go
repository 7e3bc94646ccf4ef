package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/errs"
	"github.com/ytget/ytdlp/v2/types"
)

type fakeResolver struct {
	mediaURL string
	info     *ytdlp.VideoInfo
	err      error

	// selector the resolver was created with
	format, ext string
}

func (f *fakeResolver) ResolveURL(ctx context.Context, videoURL string) (string, *ytdlp.VideoInfo, error) {
	return f.mediaURL, f.info, f.err
}

func newTestLibraryFetcher(r *fakeResolver, download func(ctx context.Context, mediaURL, outputPath string) error) *LibraryFetcher {
	f := NewLibraryFetcher(LibraryOptions{})
	f.newResolver = func(format, ext string) resolver {
		r.format, r.ext = format, ext
		return r
	}
	f.download = download
	return f
}

func writeFile(ctx context.Context, mediaURL, outputPath string) error {
	return os.WriteFile(outputPath, []byte("media"), 0644)
}

func TestNewLibraryFetcher_Defaults(t *testing.T) {
	f := NewLibraryFetcher(LibraryOptions{RateLimitBps: -5})

	if f.opts.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("Expected timeout %v, got %v", DefaultHTTPTimeout, f.opts.HTTPTimeout)
	}
	if f.opts.RateLimitBps != 0 {
		t.Errorf("Expected negative rate limit to be clamped to 0, got %d", f.opts.RateLimitBps)
	}
	if f.metaClient.Timeout != DefaultHTTPTimeout {
		t.Errorf("Expected metadata client timeout %v, got %v", DefaultHTTPTimeout, f.metaClient.Timeout)
	}
	if f.dataClient.Timeout != 0 {
		t.Errorf("Expected no timeout on data client, got %v", f.dataClient.Timeout)
	}
}

func TestLibraryFetcher_Fetch(t *testing.T) {
	dir := t.TempDir()
	r := &fakeResolver{
		mediaURL: "https://rr1.googlevideo.com/videoplayback?itag=251&mime=audio",
		info: &ytdlp.VideoInfo{
			ID:    "abc",
			Title: "Title",
			Formats: []types.Format{
				{Itag: 18, MimeType: "video/mp4"},
				{Itag: 251, MimeType: `audio/webm; codecs="opus"`},
			},
		},
	}

	var gotURL string
	f := newTestLibraryFetcher(r, func(ctx context.Context, mediaURL, outputPath string) error {
		gotURL = mediaURL
		return writeFile(ctx, mediaURL, outputPath)
	})

	res := f.Fetch(context.Background(), Request{URL: "https://youtu.be/abc", OutputTemplate: filepath.Join(dir, "tok.%(ext)s")})
	path, err := res.Get()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := filepath.Join(dir, "tok.webm")
	if path != expected {
		t.Errorf("Expected path %s, got %s", expected, path)
	}
	if gotURL != r.mediaURL {
		t.Errorf("Expected media URL %s, got %s", r.mediaURL, gotURL)
	}
	if _, err := os.Stat(expected); err != nil {
		t.Errorf("Expected file to be written: %v", err)
	}
}

func TestLibraryFetcher_FetchUnknownItagUsesConfiguredExt(t *testing.T) {
	dir := t.TempDir()
	r := &fakeResolver{
		mediaURL: "https://example.com/media",
		info:     &ytdlp.VideoInfo{Formats: []types.Format{{Itag: 18, MimeType: "video/mp4"}}},
	}
	f := newTestLibraryFetcher(r, writeFile)
	f.opts.Ext = "mkv"

	path, err := f.Fetch(context.Background(), Request{URL: "u", OutputTemplate: filepath.Join(dir, "tok.%(ext)s")}).Get()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filepath.Base(path) != "tok.mkv" {
		t.Errorf("Expected tok.mkv, got %s", filepath.Base(path))
	}
}

func TestLibraryFetcher_FetchResolveError(t *testing.T) {
	r := &fakeResolver{err: errs.ErrVideoUnavailable}
	called := false
	f := newTestLibraryFetcher(r, func(ctx context.Context, mediaURL, outputPath string) error {
		called = true
		return nil
	})

	res := f.Fetch(context.Background(), Request{URL: "u", OutputTemplate: "tok.%(ext)s"})
	if !res.IsError() {
		t.Fatal("Expected error result")
	}
	if !errors.Is(res.Error(), errs.ErrVideoUnavailable) {
		t.Errorf("Expected ErrVideoUnavailable, got %v", res.Error())
	}
	if called {
		t.Error("Download should not run when resolve fails")
	}
}

func TestLibraryFetcher_FetchDownloadError(t *testing.T) {
	r := &fakeResolver{mediaURL: "https://example.com/m", info: &ytdlp.VideoInfo{}}
	boom := errors.New("connection reset")
	f := newTestLibraryFetcher(r, func(ctx context.Context, mediaURL, outputPath string) error {
		return boom
	})

	res := f.Fetch(context.Background(), Request{URL: "u", OutputTemplate: "tok.%(ext)s"})
	if !errors.Is(res.Error(), boom) {
		t.Errorf("Expected wrapped download error, got %v", res.Error())
	}
}

func TestLibraryFetcher_FetchQuality(t *testing.T) {
	tests := []struct {
		name       string
		opts       LibraryOptions
		quality    string
		wantFormat string
		wantExt    string
	}{
		{"configured selector", LibraryOptions{Format: "best", Ext: "webm"}, "", "best", "webm"},
		{"height override", LibraryOptions{Format: "best", Ext: "webm"}, "480p", "height<=480", "webm"},
		{"audio override", LibraryOptions{Format: "best"}, "audio", "itag=140", ExtM4A},
		{"raw override", LibraryOptions{}, "itag=22", "itag=22", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeResolver{mediaURL: "https://example.com/m", info: &ytdlp.VideoInfo{}}
			f := newTestLibraryFetcher(r, writeFile)
			f.opts.Format, f.opts.Ext = tt.opts.Format, tt.opts.Ext

			req := Request{URL: "https://youtu.be/abc", OutputTemplate: filepath.Join(t.TempDir(), "tok.%(ext)s"), Quality: tt.quality}
			if res := f.Fetch(context.Background(), req); res.IsError() {
				t.Fatalf("Expected no error, got %v", res.Error())
			}
			if r.format != tt.wantFormat || r.ext != tt.wantExt {
				t.Errorf("Resolver selector = (%q, %q), expected (%q, %q)", r.format, r.ext, tt.wantFormat, tt.wantExt)
			}
		})
	}
}

func TestLibraryFetcher_Inspect(t *testing.T) {
	r := &fakeResolver{
		info: &ytdlp.VideoInfo{
			ID:       "abc",
			Title:    "Title",
			Author:   "Author",
			Duration: 90,
			Formats: []types.Format{
				{Itag: 18, Quality: "360p", MimeType: "video/mp4", Size: 10},
				{Itag: 137, Quality: "1080p60", MimeType: "video/mp4"},
				{Itag: 140, MimeType: "audio/mp4"},
			},
		},
	}
	f := newTestLibraryFetcher(r, writeFile)

	info, err := f.Inspect(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if info.Duration != "01:30" {
		t.Errorf("Expected duration 01:30, got %s", info.Duration)
	}
	if info.Platform != "youtube" {
		t.Errorf("Expected platform youtube, got %s", info.Platform)
	}
	if len(info.Formats) != 3 || info.Formats[0].Itag != 18 || info.Formats[0].Height != 360 {
		t.Errorf("Unexpected formats: %+v", info.Formats)
	}
	if got := strings.Join(info.Qualities, ","); got != "1080p,360p,audio" {
		t.Errorf("Expected qualities 1080p,360p,audio, got %s", got)
	}
	if info.Thumbnail != "https://img.youtube.com/vi/abc/hqdefault.jpg" {
		t.Errorf("Unexpected thumbnail %q", info.Thumbnail)
	}
}

func TestLibraryFetcher_InspectNilInfo(t *testing.T) {
	f := newTestLibraryFetcher(&fakeResolver{}, writeFile)
	if _, err := f.Inspect(context.Background(), "u"); err == nil {
		t.Error("Expected error for missing metadata, got nil")
	}
}

func TestChooseFormat(t *testing.T) {
	info := &ytdlp.VideoInfo{Formats: []types.Format{{Itag: 18}, {Itag: 22}}}

	tests := []struct {
		name     string
		mediaURL string
		itag     int
		ok       bool
	}{
		{"matches itag param", "https://x/videoplayback?itag=22&n=1", 22, true},
		{"itag param is exact", "https://x/videoplayback?itag=2", 0, false},
		{"missing itag", "https://x/videoplayback", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft, ok := chooseFormat(info, tt.mediaURL)
			if ok != tt.ok || ft.Itag != tt.itag {
				t.Errorf("chooseFormat(%q) = (%d, %v), expected (%d, %v)", tt.mediaURL, ft.Itag, ok, tt.itag, tt.ok)
			}
		})
	}
}
