package download

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ytget/yt-webfront/internal/model"
)

// Default values
const (
	DefaultJobTTL = time.Hour
)

// Journal remembers recent jobs in memory for status lookups. Entries expire
// after the TTL. Files on disk are not touched when an entry expires.
type Journal struct {
	jobs *cache.Cache
}

// NewJournal creates a journal keeping entries for ttl
func NewJournal(ttl time.Duration) *Journal {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &Journal{jobs: cache.New(ttl, ttl*2)}
}

// Record stores a snapshot of the job
func (j *Journal) Record(job *model.DownloadJob) {
	j.jobs.SetDefault(job.Token, job.Snapshot())
}

// Get returns the job snapshot for token
func (j *Journal) Get(token string) (model.DownloadJob, bool) {
	v, ok := j.jobs.Get(token)
	if !ok {
		return model.DownloadJob{}, false
	}
	job, ok := v.(model.DownloadJob)
	return job, ok
}

// Active returns the number of recorded jobs that have not finished yet
func (j *Journal) Active() int {
	n := 0
	for _, item := range j.jobs.Items() {
		if job, ok := item.Object.(model.DownloadJob); ok && job.Status.IsActive() {
			n++
		}
	}
	return n
}

// Len returns the number of recorded jobs, including expired ones not yet evicted
func (j *Journal) Len() int {
	return j.jobs.ItemCount()
}
