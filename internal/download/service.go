package download

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-webfront/internal/fetch"
	"github.com/ytget/yt-webfront/internal/model"
	"github.com/ytget/yt-webfront/internal/platform"
)

// Service handles download operations
type Service struct {
	fetcher     fetch.Fetcher
	downloadDir string
	journal     *Journal
	newToken    func() string
}

// NewService creates a new download service writing into downloadDir
func NewService(fetcher fetch.Fetcher, downloadDir string, journal *Journal) *Service {
	if journal == nil {
		journal = NewJournal(DefaultJobTTL)
	}
	return &Service{
		fetcher:     fetcher,
		downloadDir: downloadDir,
		journal:     journal,
		newToken:    generateToken,
	}
}

// DownloadDirectory returns the directory files are written to
func (s *Service) DownloadDirectory() string {
	return s.downloadDir
}

// ActiveJobs returns the number of jobs still running
func (s *Service) ActiveJobs() int {
	return s.journal.Active()
}

// Job returns a recorded job by token
func (s *Service) Job(token string) (model.DownloadJob, bool) {
	return s.journal.Get(token)
}

// Download runs the fetch for url with an optional quality override and
// locates the produced file. The call
// blocks for the whole remote transfer. The returned job is always non-nil.
// Errors are *FetchError when the backend failed, or wrap ErrNoOutput when it
// succeeded without writing a file carrying the token.
func (s *Service) Download(ctx context.Context, url, quality string) (*model.DownloadJob, error) {
	job := model.NewDownloadJob(s.newToken(), url, platform.DetectPlatform(url), s.downloadDir)
	job.Quality = strings.TrimSpace(quality)
	log := logrus.WithFields(logrus.Fields{
		"token":    job.Token,
		"url":      job.URL,
		"platform": job.Platform,
		"quality":  job.Quality,
	})

	job.Status = model.JobStatusDownloading
	s.journal.Record(job)
	log.Info("Download started")

	reported, err := s.fetcher.Fetch(ctx, fetch.Request{
		URL:            url,
		OutputTemplate: job.OutputTemplate,
		Quality:        job.Quality,
	}).Get()
	if err != nil {
		err = newFetchError(job.Token, err)
		s.finish(job, log, err)
		return job, err
	}

	path, err := s.locate(job.Token, reported)
	if err != nil {
		s.finish(job, log, err)
		return job, err
	}

	job.Complete(path, platform.FileSize(path))
	s.finish(job, log, nil)
	return job, nil
}

// locate prefers the path reported by the fetcher and falls back to scanning
// the download directory for the token prefix
func (s *Service) locate(token, reported string) (string, error) {
	if path, ok := platform.ResolveOutputFile(s.downloadDir, token, reported); ok {
		return path, nil
	}

	path, err := platform.FindFileByPrefix(s.downloadDir, token)
	if errors.Is(err, platform.ErrNotFound) {
		return "", fmt.Errorf("%w: token %s", ErrNoOutput, token)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	return path, nil
}

// finish records the final job state and logs it
func (s *Service) finish(job *model.DownloadJob, log *logrus.Entry, err error) {
	if err != nil {
		job.Fail(err)
	}
	s.journal.Record(job)

	log = log.WithFields(logrus.Fields{
		"status":  job.Status,
		"elapsed": job.Elapsed().String(),
	})
	if err != nil {
		log.WithError(err).Warn("Download failed")
		return
	}
	log.WithFields(logrus.Fields{
		"file": job.Filename,
		"size": job.FileSize,
	}).Info("Download completed")
}

// generateToken generates a unique job token
func generateToken() string {
	return uuid.NewString()
}
