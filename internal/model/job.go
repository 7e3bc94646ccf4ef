package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// ExtPlaceholder is substituted by the fetch capability with the real file extension
const ExtPlaceholder = "%(ext)s"

// DownloadJob represents a single download request. It lives for the duration
// of one HTTP request; the journal keeps a copy for a while afterwards.
type DownloadJob struct {
	Token          string     `json:"token"`
	URL            string     `json:"url"`
	Platform       string     `json:"platform"`
	Quality        string     `json:"quality,omitempty"`
	OutputTemplate string     `json:"-"`
	OutputPath     string     `json:"-"`
	Filename       string     `json:"filename,omitempty"`
	Status         JobStatus  `json:"status"`
	LastError      string     `json:"error,omitempty"`
	FileSize       int64      `json:"file_size,omitempty"` // bytes
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// NewDownloadJob creates a pending job whose output template places
// "<token>.%(ext)s" inside dir
func NewDownloadJob(token, url, platform, dir string) *DownloadJob {
	return &DownloadJob{
		Token:          token,
		URL:            url,
		Platform:       platform,
		OutputTemplate: filepath.Join(dir, token+"."+ExtPlaceholder),
		Status:         JobStatusPending,
		StartedAt:      time.Now(),
	}
}

// Complete marks the job as completed with the located output file
func (j *DownloadJob) Complete(path string, size int64) {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.OutputPath = path
	j.Filename = filepath.Base(path)
	j.FileSize = size
	j.FinishedAt = &now
}

// Fail marks the job as failed
func (j *DownloadJob) Fail(err error) {
	now := time.Now()
	j.Status = JobStatusError
	if err != nil {
		j.LastError = err.Error()
	}
	j.FinishedAt = &now
}

// Elapsed returns how long the job ran, or has been running so far
func (j *DownloadJob) Elapsed() time.Duration {
	if j.FinishedAt != nil {
		return j.FinishedAt.Sub(j.StartedAt)
	}
	return time.Since(j.StartedAt)
}

// Snapshot returns a copy safe to hand out to other goroutines
func (j *DownloadJob) Snapshot() DownloadJob {
	c := *j
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		c.FinishedAt = &t
	}
	return c
}

// FormatDuration returns seconds formatted as hh:mm:ss, mm:ss, or "—" if unknown
func FormatDuration(sec int) string {
	if sec <= 0 {
		return "—"
	}

	hours := sec / 3600
	minutes := (sec % 3600) / 60
	seconds := sec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
