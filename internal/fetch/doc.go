// Package fetch wraps the external media fetch capabilities behind a single
// Fetcher interface. Backends are the github.com/ytget/ytdlp/v2 library, the
// yt-dlp command line tool driven through github.com/lrstanley/go-ytdlp, and
// a router that picks one by platform.
package fetch
