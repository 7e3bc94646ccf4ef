package model

// JobStatus represents the status of a download job
type JobStatus string

const (
	// JobStatusPending means the job was created but the fetch has not started
	JobStatusPending JobStatus = "Pending"

	// JobStatusDownloading means the fetch capability is running
	JobStatusDownloading JobStatus = "Downloading"

	// JobStatusCompleted means the output file was located
	JobStatusCompleted JobStatus = "Completed"

	// JobStatusError means the fetch failed or produced no file
	JobStatusError JobStatus = "Error"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job is still being processed
func (js JobStatus) IsActive() bool {
	return js == JobStatusPending || js == JobStatusDownloading
}

// IsFinished returns true if the job is in a finished state (completed or error)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusCompleted || js == JobStatusError
}
