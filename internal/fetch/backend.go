package fetch

import (
	"fmt"
	"strings"

	"github.com/ytget/yt-webfront/internal/platform"
)

// Backend names
const (
	BackendAuto    = "auto"
	BackendLibrary = "library"
	BackendCLI     = "cli"
)

// Backends lists the accepted backend names
var Backends = []string{BackendAuto, BackendLibrary, BackendCLI}

// NewBackend builds the Fetcher for a backend name. "auto" uses the ytdlp
// library for YouTube and yt-dlp for everything else.
func NewBackend(name string, lib LibraryOptions, cli CLIOptions) (Fetcher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BackendLibrary:
		return NewLibraryFetcher(lib), nil
	case BackendCLI:
		return NewCLIFetcher(cli), nil
	case BackendAuto, "":
		return NewPlatformRouter(NewCLIFetcher(cli)).
			Route(platform.PlatformYouTube, NewLibraryFetcher(lib)), nil
	default:
		return nil, fmt.Errorf("unknown fetcher backend %q (expected one of %s)", name, strings.Join(Backends, ", "))
	}
}
