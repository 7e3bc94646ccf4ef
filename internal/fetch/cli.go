package fetch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-webfront/internal/model"
)

// yt-dlp command constants
const (
	DefaultYTDLPCommand = "yt-dlp"
	MaxStderrLength     = 2000
	bestAudioQuality    = "0"
)

// CLIOptions configures a CLIFetcher
type CLIOptions struct {
	Path         string // executable, looked up in PATH when not absolute
	Format       string // passed as the format selector when set
	RateLimitBps int64  // rate limit when positive
	ExtraArgs    []string
}

// CLIFetcher fetches media by running the yt-dlp executable through
// github.com/lrstanley/go-ytdlp. It supports every site yt-dlp has an
// extractor for.
type CLIFetcher struct {
	opts CLIOptions
}

// NewCLIFetcher creates a fetcher that runs yt-dlp. The executable is never
// installed automatically.
func NewCLIFetcher(opts CLIOptions) *CLIFetcher {
	if strings.TrimSpace(opts.Path) == "" {
		opts.Path = DefaultYTDLPCommand
	}
	return &CLIFetcher{opts: opts}
}

// Fetch runs yt-dlp with req.OutputTemplate as its output template. yt-dlp
// resolves the extension placeholder itself and reports the file name in its
// JSON output.
func (c *CLIFetcher) Fetch(ctx context.Context, req Request) mo.Result[string] {
	dl := c.command().
		Output(req.OutputTemplate).
		DumpJSON().
		NoSimulate()

	q := ParseQuality(req.Quality)
	switch {
	case q.Audio:
		dl = dl.ExtractAudio().AudioFormat(ExtMP3).AudioQuality(bestAudioQuality)
	case q.cliFormat() != "":
		dl = dl.Format(q.cliFormat())
	case c.opts.Format != "":
		dl = dl.Format(c.opts.Format)
	}
	if c.opts.RateLimitBps > 0 {
		dl = dl.LimitRate(strconv.FormatInt(c.opts.RateLimitBps, 10))
	}

	logrus.WithFields(logrus.Fields{
		"src":      "cli",
		"quality":  q.String(),
		"template": req.OutputTemplate,
	}).Debug("Running yt-dlp")

	res, err := c.run(ctx, dl, req.URL)
	if err != nil {
		return mo.Err[string](err)
	}
	return mo.Ok(reportedFilename(res))
}

// Inspect asks yt-dlp for the metadata of url without downloading
func (c *CLIFetcher) Inspect(ctx context.Context, url string) (*model.MediaInfo, error) {
	res, err := c.run(ctx, c.command().DumpSingleJSON().SkipDownload(), url)
	if err != nil {
		return nil, err
	}

	raw := lastJSONLine(res.Stdout)
	if raw == "" {
		return nil, fmt.Errorf("no metadata returned for %s", url)
	}
	media := mediaInfoFromJSON(raw, url)

	if infos, err := res.GetExtractedInfo(); err == nil && len(infos) > 0 {
		info := infos[0]
		if info.ID != "" {
			media.ID = info.ID
		}
		if info.Title != nil && *info.Title != "" {
			media.Title = *info.Title
		}
	}
	return media, nil
}

// command returns a yt-dlp invocation with the options shared by all calls
func (c *CLIFetcher) command() *ytdlp.Command {
	return ytdlp.New().
		SetExecutable(c.opts.Path).
		NoPlaylist().
		NoProgress().
		NoWarnings()
}

// run executes cmd for url and turns failures into the yt-dlp error message
func (c *CLIFetcher) run(ctx context.Context, cmd *ytdlp.Command, url string) (*ytdlp.Result, error) {
	args := append(append([]string{}, c.opts.ExtraArgs...), "--", url)

	res, err := cmd.Run(ctx, args...)
	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if res != nil && res.ExitCode > 0 {
		return nil, fmt.Errorf("yt-dlp failed with code %d: %s",
			res.ExitCode, truncate(strings.TrimSpace(res.Stderr), MaxStderrLength))
	}
	return nil, fmt.Errorf("failed to run %s: %w", c.opts.Path, err)
}

// reportedFilename returns the file name of the last extracted item, or ""
func reportedFilename(res *ytdlp.Result) string {
	if res == nil {
		return ""
	}
	if infos, err := res.GetExtractedInfo(); err == nil {
		for i := len(infos) - 1; i >= 0; i-- {
			if infos[i].Filename != nil && *infos[i].Filename != "" {
				return *infos[i].Filename
			}
		}
	}
	return filenameFromJSON(lastJSONLine(res.Stdout))
}

// lastJSONLine returns the last line of output that looks like a JSON object
func lastJSONLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); strings.HasPrefix(line, "{") {
			return line
		}
	}
	return ""
}

// truncate shortens s to at most n bytes
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
