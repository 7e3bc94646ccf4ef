// Package server exposes the download service over HTTP using gin: the form
// page, the synchronous download endpoint and a small JSON API.
package server
