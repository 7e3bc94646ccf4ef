// Package download implements the download pipeline: it creates a job with a
// fresh token, hands the URL and output template to a fetch backend, locates
// the produced file and records the outcome in an in-memory journal.
package download
