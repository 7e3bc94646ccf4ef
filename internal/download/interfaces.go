package download

import (
	"context"

	"github.com/ytget/yt-webfront/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	// Download runs one job synchronously and returns it once finished.
	// quality is optional, see fetch.ParseQuality.
	Download(ctx context.Context, url, quality string) (*model.DownloadJob, error)

	// Job returns a recorded job by token
	Job(token string) (model.DownloadJob, bool)

	// ActiveJobs returns the number of jobs still running
	ActiveJobs() int

	// DownloadDirectory returns the directory files are written to
	DownloadDirectory() string
}
