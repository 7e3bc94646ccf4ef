package fetch

import (
	"context"

	"github.com/samber/mo"

	"github.com/ytget/yt-webfront/internal/model"
)

// Request describes one fetch
type Request struct {
	URL string
	// OutputTemplate contains model.ExtPlaceholder, which the backend
	// replaces with the real extension
	OutputTemplate string
	// Quality overrides the configured format for this call, see ParseQuality
	Quality string
}

// Fetcher downloads the media behind req.URL into a file described by
// req.OutputTemplate. On success the result holds the path of the written
// file, or "" if the backend cannot tell.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) mo.Result[string]
}

// Inspector returns media metadata without downloading.
type Inspector interface {
	Inspect(ctx context.Context, url string) (*model.MediaInfo, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req Request) mo.Result[string]

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, req Request) mo.Result[string] {
	return f(ctx, req)
}
