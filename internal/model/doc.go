// Package model defines domain data structures used across the service:
// download jobs, their status enum, and media metadata returned by the
// inspection endpoint.
package model
