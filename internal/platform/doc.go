// Package platform contains filesystem and host integration glue: download
// directory helpers, locating fetched files by token prefix, and detecting the
// media platform a URL points at.
package platform
