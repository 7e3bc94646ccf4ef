// Package app wires settings into the fetch backend and download service
// shared by the HTTP server and the command line fetcher.
package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-webfront/internal/config"
	"github.com/ytget/yt-webfront/internal/download"
	"github.com/ytget/yt-webfront/internal/fetch"
	"github.com/ytget/yt-webfront/internal/logging"
	"github.com/ytget/yt-webfront/internal/platform"
)

// Components are the services built from settings
type Components struct {
	Downloads *download.Service
	Inspector fetch.Inspector // nil when the backend cannot inspect
	LogCloser io.Closer
}

// Build configures logging, ensures the download directory exists and
// creates the fetch backend and download service
func Build(settings *config.Settings) (*Components, error) {
	closer, err := logging.Setup(logrus.StandardLogger(), logging.Options{
		Level:  settings.GetLogLevel(),
		Format: settings.GetLogFormat(),
		File:   settings.GetLogFile(),
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	dir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to ensure downloads dir %s: %w", dir, err)
	}

	fetcher, err := fetch.NewBackend(settings.GetFetcher(),
		fetch.LibraryOptions{
			Format:       settings.GetFormat(),
			Ext:          settings.GetExt(),
			RateLimitBps: settings.GetRateLimitBps(),
			HTTPTimeout:  settings.GetHTTPTimeout(),
		},
		fetch.CLIOptions{
			Path:         settings.GetYTDLPPath(),
			Format:       settings.GetFormat(),
			RateLimitBps: settings.GetRateLimitBps(),
		},
	)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	var inspector fetch.Inspector
	if in, ok := fetcher.(fetch.Inspector); ok {
		inspector = in
	}

	logrus.WithFields(logrus.Fields{
		"fetcher": settings.GetFetcher(),
		"dir":     dir,
		"config":  settings.ConfigFileUsed(),
	}).Debug("Components initialized")

	return &Components{
		Downloads: download.NewService(fetcher, dir, download.NewJournal(settings.GetJobTTL())),
		Inspector: inspector,
		LogCloser: closer,
	}, nil
}
